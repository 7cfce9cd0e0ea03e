package handlers

import (
	"time"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

type BakedGoodResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	BakeryID  int       `json:"bakery_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BakeryResponse struct {
	ID         int                 `json:"id"`
	Name       string              `json:"name"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	BakedGoods []BakedGoodResponse `json:"baked_goods"`
}

type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportBakedGoodsResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

func toBakedGoodResponse(bg models.BakedGood) BakedGoodResponse {
	return BakedGoodResponse{
		ID:        bg.ID,
		Name:      bg.Name,
		Price:     bg.Price,
		BakeryID:  bg.BakeryID,
		CreatedAt: bg.CreatedAt.UTC(),
		UpdatedAt: bg.UpdatedAt.UTC(),
	}
}

func toBakedGoodResponses(goods []models.BakedGood) []BakedGoodResponse {
	resp := make([]BakedGoodResponse, len(goods))
	for i, bg := range goods {
		resp[i] = toBakedGoodResponse(bg)
	}
	return resp
}

func toBakeryResponse(b models.Bakery) BakeryResponse {
	return BakeryResponse{
		ID:         b.ID,
		Name:       b.Name,
		CreatedAt:  b.CreatedAt.UTC(),
		UpdatedAt:  b.UpdatedAt.UTC(),
		BakedGoods: toBakedGoodResponses(b.BakedGoods),
	}
}
