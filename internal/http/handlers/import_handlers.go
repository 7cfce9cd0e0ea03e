package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

const maxImportBytes = 10 << 20

var importColumns = []string{"name", "price", "bakery_id"}

type csvRow struct {
	Line   int
	Record []string
}

// readCSV returns the column index by lowercased header name and the data
// rows with their 1-based line numbers.
func readCSV(r io.Reader) (map[string]int, []csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("CSV header is missing column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %v", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRow{Line: line, Record: record})
	}
	return index, rows, nil
}

func column(record []string, index map[string]int, name string) string {
	i := index[name]
	if i >= len(record) {
		return ""
	}
	return record[i]
}

func describeRowError(err error) string {
	var fe *FormError
	if !errors.As(err, &fe) || len(fe.Fields) == 0 {
		return err.Error()
	}
	descs := make([]string, len(fe.Fields))
	for i, f := range fe.Fields {
		descs[i] = f.Description
	}
	return fe.Error() + ": " + strings.Join(descs, ", ")
}

// ImportBakedGoodsHandler godoc
// @Summary Import baked goods via CSV
// @Description Header must contain name, price and bakery_id. Invalid rows are reported and skipped.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportBakedGoodsResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods/import [post]
func ImportBakedGoodsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	index, rows, err := readCSV(file)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	known := map[int]bool{}
	result := ImportBakedGoodsResult{Errors: []ImportRowError{}}

	for _, row := range rows {
		input, err := newBakedGoodInput(
			column(row.Record, index, "name"),
			column(row.Record, index, "price"),
			column(row.Record, index, "bakery_id"),
		)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row.Line, Error: describeRowError(err)})
			continue
		}

		exists, seen := known[input.BakeryID]
		if !seen {
			exists, err = bakeryRepo.Exists(ctx, input.BakeryID)
			if err != nil {
				respondInternal(w, r, err, "could not import baked goods")
				return
			}
			known[input.BakeryID] = exists
		}
		if !exists {
			result.Errors = append(result.Errors, ImportRowError{Row: row.Line, Error: "Bakery not found"})
			continue
		}

		if _, err := bakedGoodRepo.Create(ctx, models.BakedGood{
			Name:     input.Name,
			Price:    input.Price,
			BakeryID: input.BakeryID,
		}); err != nil {
			hlog.FromRequest(r).Error().Err(err).Int("row", row.Line).Msg("failed to import baked good")
			result.Errors = append(result.Errors, ImportRowError{Row: row.Line, Error: "failed to create baked good"})
			continue
		}
		result.Imported++
	}

	hlog.FromRequest(r).Info().
		Int("imported", result.Imported).
		Int("rejected", len(result.Errors)).
		Msg("baked goods imported")
	respond(w, r, http.StatusOK, result)
}
