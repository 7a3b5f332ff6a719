package booking_api

import (
	"fmt"
	"net/http"

	"ms-booking/internal/models"
)

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Service.ListArtists(r.Context())
	if err != nil {
		h.writeServiceError(w, "ListArtists", err)
		return
	}
	h.respond(w, "ListArtists", http.StatusOK, artists)
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	term := searchTerm(r)
	h.Logger.Debug("API", fmt.Sprintf("SearchArtists: term=%q", term))

	result, err := h.Service.SearchArtists(r.Context(), term, h.Service.ReferenceInstant())
	if err != nil {
		h.writeServiceError(w, "SearchArtists", err)
		return
	}
	h.respond(w, "SearchArtists", http.StatusOK, result)
}

func (h *Handler) ArtistDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistId")
	if err != nil {
		h.writeServiceError(w, "ArtistDetail", err)
		return
	}

	detail, err := h.Service.ArtistDetail(r.Context(), id, h.Service.ReferenceInstant())
	if err != nil {
		h.writeServiceError(w, "ArtistDetail", err)
		return
	}
	h.respond(w, "ArtistDetail", http.StatusOK, detail)
}

func (h *Handler) EditArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistId")
	if err != nil {
		h.writeServiceError(w, "EditArtist", err)
		return
	}

	artist, err := h.Service.GetArtist(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "EditArtist", err)
		return
	}
	h.respond(w, "EditArtist", http.StatusOK, artist)
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var req models.ArtistRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, "CreateArtist", err)
		return
	}

	artist, err := h.Service.CreateArtist(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateArtist", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateArtist: artist %d %q listed", artist.ID, artist.Name))
	h.respond(w, "CreateArtist", http.StatusCreated, artist)
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistId")
	if err != nil {
		h.writeServiceError(w, "UpdateArtist", err)
		return
	}

	var patch models.ArtistPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeServiceError(w, "UpdateArtist", err)
		return
	}

	artist, err := h.Service.UpdateArtist(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, "UpdateArtist", err)
		return
	}
	h.respond(w, "UpdateArtist", http.StatusOK, artist)
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistId")
	if err != nil {
		h.writeServiceError(w, "DeleteArtist", err)
		return
	}

	if err := h.Service.DeleteArtist(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteArtist", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ArtistQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistId")
	if err != nil {
		h.writeServiceError(w, "ArtistQR", err)
		return
	}
	if _, err := h.Service.GetArtist(r.Context(), id); err != nil {
		h.writeServiceError(w, "ArtistQR", err)
		return
	}
	h.writeQR(w, "artists", id)
}
