package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	repo "github.com/rogerio-castellano/bakery-api/internal/repo"
)

// GetBakeriesHandler godoc
// @Summary List all bakeries
// @Description Every bakery with its baked goods embedded
// @Tags bakeries
// @Produce json
// @Success 200 {array} BakeryResponse
// @Failure 500 {object} ErrorResponse
// @Router /bakeries [get]
func GetBakeriesHandler(w http.ResponseWriter, r *http.Request) {
	bakeries, err := bakeryRepo.GetAll(r.Context())
	if err != nil {
		respondInternal(w, r, err, "could not fetch bakeries")
		return
	}

	resp := make([]BakeryResponse, len(bakeries))
	for i, b := range bakeries {
		resp[i] = toBakeryResponse(b)
	}
	respond(w, r, http.StatusOK, resp)
}

// GetBakeryByIDHandler godoc
// @Summary Get bakery by ID
// @Tags bakeries
// @Produce json
// @Param id path int true "Bakery ID"
// @Success 200 {object} BakeryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /bakeries/{id} [get]
func GetBakeryByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Bakery not found")
		return
	}

	bakery, err := bakeryRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrBakeryNotFound) {
			respondError(w, r, http.StatusNotFound, "Bakery not found")
			return
		}
		respondInternal(w, r, err, "could not fetch bakery")
		return
	}
	respond(w, r, http.StatusOK, toBakeryResponse(bakery))
}

// UpdateBakeryHandler godoc
// @Summary Rename a bakery
// @Tags bakeries
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Bakery ID"
// @Param name formData string true "New bakery name"
// @Success 200 {object} BakeryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /bakeries/{id} [patch]
func UpdateBakeryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Bakery not found")
		return
	}

	if err := parseForm(w, r); err != nil {
		respondFormError(w, r, err)
		return
	}
	name, err := readBakeryName(r)
	if err != nil {
		respondFormError(w, r, err)
		return
	}

	updated, err := bakeryRepo.UpdateName(r.Context(), id, name)
	if err != nil {
		if errors.Is(err, repo.ErrBakeryNotFound) {
			respondError(w, r, http.StatusNotFound, "Bakery not found")
			return
		}
		respondInternal(w, r, err, "could not update bakery")
		return
	}

	hlog.FromRequest(r).Info().Int("bakery_id", updated.ID).Str("name", updated.Name).Msg("bakery renamed")
	respond(w, r, http.StatusOK, toBakeryResponse(updated))
}
