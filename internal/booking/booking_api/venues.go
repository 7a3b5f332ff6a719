package booking_api

import (
	"fmt"
	"net/http"

	"ms-booking/internal/models"
)

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	ref := h.Service.ReferenceInstant()
	city, state := r.URL.Query().Get("city"), r.URL.Query().Get("state")

	if city != "" || state != "" {
		group, err := h.Service.VenuesInCity(r.Context(), city, state, ref)
		if err != nil {
			h.writeServiceError(w, "ListVenues", err)
			return
		}
		h.respond(w, "ListVenues", http.StatusOK, []models.CityGroup{*group})
		return
	}

	groups, err := h.Service.ListVenuesByCity(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, "ListVenues", err)
		return
	}
	h.respond(w, "ListVenues", http.StatusOK, groups)
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	term := searchTerm(r)
	h.Logger.Debug("API", fmt.Sprintf("SearchVenues: term=%q", term))

	result, err := h.Service.SearchVenues(r.Context(), term, h.Service.ReferenceInstant())
	if err != nil {
		h.writeServiceError(w, "SearchVenues", err)
		return
	}
	h.respond(w, "SearchVenues", http.StatusOK, result)
}

func (h *Handler) VenueDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueId")
	if err != nil {
		h.writeServiceError(w, "VenueDetail", err)
		return
	}

	detail, err := h.Service.VenueDetail(r.Context(), id, h.Service.ReferenceInstant())
	if err != nil {
		h.writeServiceError(w, "VenueDetail", err)
		return
	}
	h.respond(w, "VenueDetail", http.StatusOK, detail)
}

// EditVenue returns the stored venue for pre-filling the edit form.
func (h *Handler) EditVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueId")
	if err != nil {
		h.writeServiceError(w, "EditVenue", err)
		return
	}

	venue, err := h.Service.GetVenue(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "EditVenue", err)
		return
	}
	h.respond(w, "EditVenue", http.StatusOK, venue)
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var req models.VenueRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, "CreateVenue", err)
		return
	}

	venue, err := h.Service.CreateVenue(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateVenue", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateVenue: venue %d %q listed", venue.ID, venue.Name))
	h.respond(w, "CreateVenue", http.StatusCreated, venue)
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueId")
	if err != nil {
		h.writeServiceError(w, "UpdateVenue", err)
		return
	}

	var patch models.VenuePatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeServiceError(w, "UpdateVenue", err)
		return
	}

	venue, err := h.Service.UpdateVenue(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, "UpdateVenue", err)
		return
	}
	h.respond(w, "UpdateVenue", http.StatusOK, venue)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueId")
	if err != nil {
		h.writeServiceError(w, "DeleteVenue", err)
		return
	}

	if err := h.Service.DeleteVenue(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteVenue", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) VenueQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueId")
	if err != nil {
		h.writeServiceError(w, "VenueQR", err)
		return
	}
	if _, err := h.Service.GetVenue(r.Context(), id); err != nil {
		h.writeServiceError(w, "VenueQR", err)
		return
	}
	h.writeQR(w, "venues", id)
}

func (h *Handler) writeQR(w http.ResponseWriter, kind string, id int64) {
	if h.QR == nil {
		h.writeServiceError(w, "QR", fmt.Errorf("share codes are not configured"))
		return
	}
	png, err := h.QR.PNG(kind, id)
	if err != nil {
		h.writeServiceError(w, "QR", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
