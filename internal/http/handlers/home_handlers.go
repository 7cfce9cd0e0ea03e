package handlers

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

const homePage = `<h1>Bakery GET-POST-PATCH-DELETE API</h1>`

// HomeHandler godoc
// @Summary Greeting page
// @Tags home
// @Produce html
// @Success 200 {string} string "HTML greeting"
// @Router / [get]
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, homePage); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to write home page")
	}
}
