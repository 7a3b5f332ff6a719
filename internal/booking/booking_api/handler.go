package booking_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/booking/qr"
	booking "ms-booking/internal/booking/service"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/sse"
	"ms-booking/internal/utils"
)

type Handler struct {
	Service *booking.BookingService
	QR      *qr.Generator
	Feed    *sse.ListingEventEmitter
	Logger  *logger.Logger

	// Protect wraps mutating routes, Idempotent wraps create routes. Nil leaves them open.
	Protect    func(http.Handler) http.Handler
	Idempotent func(scope string) func(http.Handler) http.Handler
}

func NewHandler(service *booking.BookingService, qrGen *qr.Generator, log *logger.Logger) *Handler {
	return &Handler{
		Service: service,
		QR:      qrGen,
		Logger:  log,
	}
}

// RegisterRoutes registers the directory routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	if h.Feed != nil {
		r.Get("/events/stream", h.StreamListings)
	}

	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Get("/search", h.SearchVenues)
		r.Post("/search", h.SearchVenues)
		r.Get("/{venueId}", h.VenueDetail)
		r.Get("/{venueId}/edit", h.EditVenue)
		r.Get("/{venueId}/qr", h.VenueQR)

		r.Group(func(r chi.Router) {
			r.Use(h.protect)
			r.With(h.idempotent("venues")).Post("/", h.CreateVenue)
			r.With(h.idempotent("venues")).Post("/create", h.CreateVenue)
			r.Put("/{venueId}", h.UpdateVenue)
			r.Patch("/{venueId}", h.UpdateVenue)
			r.Post("/{venueId}/edit", h.UpdateVenue)
			r.Delete("/{venueId}", h.DeleteVenue)
		})
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.ListArtists)
		r.Get("/search", h.SearchArtists)
		r.Post("/search", h.SearchArtists)
		r.Get("/{artistId}", h.ArtistDetail)
		r.Get("/{artistId}/edit", h.EditArtist)
		r.Get("/{artistId}/qr", h.ArtistQR)

		r.Group(func(r chi.Router) {
			r.Use(h.protect)
			r.With(h.idempotent("artists")).Post("/", h.CreateArtist)
			r.With(h.idempotent("artists")).Post("/create", h.CreateArtist)
			r.Put("/{artistId}", h.UpdateArtist)
			r.Patch("/{artistId}", h.UpdateArtist)
			r.Post("/{artistId}/edit", h.UpdateArtist)
			r.Delete("/{artistId}", h.DeleteArtist)
		})
	})

	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.ListShows)
		r.Group(func(r chi.Router) {
			r.Use(h.protect)
			r.Use(h.idempotent("shows"))
			r.Post("/", h.CreateShow)
			r.Post("/create", h.CreateShow)
		})
	})
}

func (h *Handler) protect(next http.Handler) http.Handler {
	if h.Protect == nil {
		return next
	}
	return h.Protect(next)
}

func (h *Handler) idempotent(scope string) func(http.Handler) http.Handler {
	if h.Idempotent == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.Idempotent(scope)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ping(r.Context()); err != nil {
		h.Logger.Error("HEALTH", fmt.Sprintf("Store ping failed: %v", err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respond(w http.ResponseWriter, op string, status int, data interface{}) {
	if err := utils.WriteJSON(w, status, data); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: failed to encode response: %v", op, err))
	}
}

// writeServiceError maps directory error kinds onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, models.ErrValidation):
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.Logger.Info("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrConflict):
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, models.ErrIntegrity):
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusConflict, "integrity_violation", err.Error())
	case errors.Is(err, models.ErrConnection):
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "the directory store is unavailable")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Fields: map[string]string{param: fmt.Sprintf("invalid id %q", raw)}}
	}
	return id, nil
}

var (
	listFields = map[string]bool{"genres": true}
	boolFields = map[string]bool{"seeking_talent": true, "seeking_venue": true}
	intFields  = map[string]bool{"artist_id": true, "venue_id": true}
)

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// decodeBody fills dst from a JSON body or from submitted form fields.
// Only fields present in the form are set, so pointer patches stay partial.
func decodeBody(r *http.Request, dst interface{}) error {
	if !isForm(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return &models.ValidationError{Fields: map[string]string{"body": "malformed JSON: " + err.Error()}}
		}
		return nil
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return &models.ValidationError{Fields: map[string]string{"body": "malformed form"}}
	}

	fields := make(map[string]interface{}, len(r.PostForm))
	for key, vals := range r.PostForm {
		if len(vals) == 0 {
			continue
		}
		switch {
		case listFields[key]:
			fields[key] = vals
		case boolFields[key]:
			fields[key] = formBool(vals[0])
		case intFields[key]:
			n, err := strconv.ParseInt(strings.TrimSpace(vals[0]), 10, 64)
			if err != nil {
				return &models.ValidationError{Fields: map[string]string{key: "must be an integer"}}
			}
			fields[key] = n
		default:
			fields[key] = vals[0]
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &models.ValidationError{Fields: map[string]string{"body": err.Error()}}
	}
	return nil
}

// formBool follows HTML checkbox semantics: "y", "on", "true", "1" are true.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "1":
		return true
	default:
		return false
	}
}

// searchTerm reads search_term from the query, a form, or a JSON body.
func searchTerm(r *http.Request) string {
	if r.Method == http.MethodPost && !isForm(r) && r.Body != nil {
		var body struct {
			SearchTerm string `json:"search_term"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return body.SearchTerm
		}
	}
	return r.FormValue("search_term")
}
