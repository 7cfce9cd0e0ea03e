package handlers

import (
	"errors"
	"math"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxFormBytes = 1 << 20 // one megabyte

type FormErrorKind int

const (
	MissingField FormErrorKind = iota + 1
	InvalidType
)

// FormError is the failure half of every form coercion. Kind selects the
// client-facing message, Fields lists the offending inputs.
type FormError struct {
	Kind   FormErrorKind
	Fields []FieldError
}

func (e *FormError) Error() string {
	switch e.Kind {
	case MissingField:
		return "Missing required fields"
	case InvalidType:
		return "Invalid data type for price or bakery_id"
	default:
		return "Invalid form"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

type bakedGoodForm struct {
	Name     string `form:"name" validate:"required"`
	Price    string `form:"price" validate:"required"`
	BakeryID string `form:"bakery_id" validate:"required"`
}

type bakeryForm struct {
	Name string `form:"name" validate:"required"`
}

// BakedGoodInput is a baked good form after coercion.
type BakedGoodInput struct {
	Name     string
	Price    float64
	BakeryID int
}

// parseForm reads url-encoded or multipart bodies into r.PostForm.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormBytes)
	}
	return r.ParseForm()
}

func checkRequired(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := &FormError{Kind: MissingField}
	for _, v := range verrs {
		fe.Fields = append(fe.Fields, FieldError{Field: v.Field(), Description: v.Field() + " is required"})
	}
	return fe
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// newBakedGoodInput validates presence first and coercion second, so a form
// with a missing field never reports a type error. A blank name counts as
// missing, but the name is kept exactly as submitted.
func newBakedGoodInput(name, price, bakeryID string) (BakedGoodInput, error) {
	form := bakedGoodForm{
		Name:     strings.TrimSpace(name),
		Price:    strings.TrimSpace(price),
		BakeryID: strings.TrimSpace(bakeryID),
	}
	if err := checkRequired(form); err != nil {
		return BakedGoodInput{}, err
	}

	var fields []FieldError
	p, ok := parsePrice(form.Price)
	if !ok {
		fields = append(fields, FieldError{Field: "price", Description: "price must be a number"})
	}
	id, err := strconv.Atoi(form.BakeryID)
	if err != nil {
		fields = append(fields, FieldError{Field: "bakery_id", Description: "bakery_id must be an integer"})
	}
	if len(fields) > 0 {
		return BakedGoodInput{}, &FormError{Kind: InvalidType, Fields: fields}
	}

	return BakedGoodInput{Name: name, Price: p, BakeryID: id}, nil
}

func readBakedGoodForm(r *http.Request) (BakedGoodInput, error) {
	return newBakedGoodInput(r.PostForm.Get("name"), r.PostForm.Get("price"), r.PostForm.Get("bakery_id"))
}

func readBakeryName(r *http.Request) (string, error) {
	name := r.PostForm.Get("name")
	if err := checkRequired(bakeryForm{Name: strings.TrimSpace(name)}); err != nil {
		return "", err
	}
	return name, nil
}
