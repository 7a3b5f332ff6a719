package booking_api

import (
	"fmt"
	"net/http"

	"ms-booking/internal/models"
)

func (h *Handler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.Service.ListShows(r.Context())
	if err != nil {
		h.writeServiceError(w, "ListShows", err)
		return
	}
	h.respond(w, "ListShows", http.StatusOK, shows)
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	var req models.ShowRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, "CreateShow", err)
		return
	}

	show, err := h.Service.CreateShow(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateShow", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateShow: show %d listed", show.ID))
	h.respond(w, "CreateShow", http.StatusCreated, show)
}
