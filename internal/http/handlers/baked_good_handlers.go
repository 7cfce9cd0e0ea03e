package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/rogerio-castellano/bakery-api/internal/models"
	repo "github.com/rogerio-castellano/bakery-api/internal/repo"
)

// GetBakedGoodsHandler godoc
// @Summary List all baked goods
// @Tags baked_goods
// @Produce json
// @Success 200 {array} BakedGoodResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods [get]
func GetBakedGoodsHandler(w http.ResponseWriter, r *http.Request) {
	goods, err := bakedGoodRepo.GetAll(r.Context())
	if err != nil {
		respondInternal(w, r, err, "could not fetch baked goods")
		return
	}
	respond(w, r, http.StatusOK, toBakedGoodResponses(goods))
}

// GetBakedGoodByIDHandler godoc
// @Summary Get baked good by ID
// @Tags baked_goods
// @Produce json
// @Param id path int true "Baked good ID"
// @Success 200 {object} BakedGoodResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods/{id} [get]
func GetBakedGoodByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Baked good not found")
		return
	}

	bg, err := bakedGoodRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrBakedGoodNotFound) {
			respondError(w, r, http.StatusNotFound, "Baked good not found")
			return
		}
		respondInternal(w, r, err, "could not fetch baked good")
		return
	}
	respond(w, r, http.StatusOK, toBakedGoodResponse(bg))
}

// GetBakedGoodsByPriceHandler godoc
// @Summary List baked goods by price
// @Description Most expensive first; equal prices keep id order
// @Tags baked_goods
// @Produce json
// @Success 200 {array} BakedGoodResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods/by_price [get]
func GetBakedGoodsByPriceHandler(w http.ResponseWriter, r *http.Request) {
	goods, err := bakedGoodRepo.List(r.Context(), repo.ListOptions{OrderBy: "price", Descending: true})
	if err != nil {
		respondInternal(w, r, err, "could not fetch baked goods")
		return
	}
	respond(w, r, http.StatusOK, toBakedGoodResponses(goods))
}

// GetMostExpensiveBakedGoodHandler godoc
// @Summary Most expensive baked good
// @Tags baked_goods
// @Produce json
// @Success 200 {object} BakedGoodResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods/most_expensive [get]
func GetMostExpensiveBakedGoodHandler(w http.ResponseWriter, r *http.Request) {
	goods, err := bakedGoodRepo.List(r.Context(), repo.ListOptions{OrderBy: "price", Descending: true, Limit: 1})
	if err != nil {
		respondInternal(w, r, err, "could not fetch baked goods")
		return
	}
	if len(goods) == 0 {
		respondError(w, r, http.StatusNotFound, "No baked goods found")
		return
	}
	respond(w, r, http.StatusOK, toBakedGoodResponse(goods[0]))
}

// CreateBakedGoodHandler godoc
// @Summary Create a baked good
// @Tags baked_goods
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Name"
// @Param price formData number true "Price"
// @Param bakery_id formData int true "Owning bakery ID"
// @Success 201 {object} BakedGoodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods [post]
func CreateBakedGoodHandler(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondFormError(w, r, err)
		return
	}
	input, err := readBakedGoodForm(r)
	if err != nil {
		respondFormError(w, r, err)
		return
	}

	exists, err := bakeryRepo.Exists(r.Context(), input.BakeryID)
	if err != nil {
		respondInternal(w, r, err, "could not create baked good")
		return
	}
	if !exists {
		respond(w, r, http.StatusBadRequest, ErrorResponse{
			Error:  "Bakery not found",
			Fields: []FieldError{{Field: "bakery_id", Description: "bakery_id does not reference an existing bakery"}},
		})
		return
	}

	created, err := bakedGoodRepo.Create(r.Context(), models.BakedGood{
		Name:     input.Name,
		Price:    input.Price,
		BakeryID: input.BakeryID,
	})
	if err != nil {
		respondInternal(w, r, err, "could not create baked good")
		return
	}

	hlog.FromRequest(r).Info().Int("baked_good_id", created.ID).Int("bakery_id", created.BakeryID).Msg("baked good created")
	respond(w, r, http.StatusCreated, toBakedGoodResponse(created))
}

// DeleteBakedGoodHandler godoc
// @Summary Delete a baked good
// @Tags baked_goods
// @Produce json
// @Param id path int true "Baked good ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /baked_goods/{id} [delete]
func DeleteBakedGoodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Baked good not found")
		return
	}

	if err := bakedGoodRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrBakedGoodNotFound) {
			respondError(w, r, http.StatusNotFound, "Baked good not found")
			return
		}
		respondInternal(w, r, err, "could not delete baked good")
		return
	}

	hlog.FromRequest(r).Info().Int("baked_good_id", id).Msg("baked good deleted")
	respond(w, r, http.StatusOK, MessageResponse{Message: "Baked good deleted successfully"})
}
