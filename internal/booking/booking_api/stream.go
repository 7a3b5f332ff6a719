package booking_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-booking/internal/models"
)

var streamEntities = map[string]bool{"": true, "venue": true, "artist": true, "show": true}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// StreamListings sends listing events as Server-Sent Events until the client disconnects.
func (h *Handler) StreamListings(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	if !streamEntities[entity] {
		h.writeServiceError(w, "StreamListings", &models.ValidationError{
			Fields: map[string]string{"entity": "must be venue, artist or show"},
		})
		return
	}
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	rc.SetWriteDeadline(time.Time{})

	setupSSEHeaders(w)
	ctx := r.Context()
	eventChan := h.Feed.Subscribe(ctx, entity)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"entity\":%q}\n\n", entity)
	if err := rc.Flush(); err != nil {
		h.Logger.Error("SSE", fmt.Sprintf("Streaming unsupported: %v", err))
		return
	}
	h.Logger.Info("SSE", fmt.Sprintf("Client subscribed to listing events (entity=%q)", entity))

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize listing event: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: %s.%s\ndata: %s\n\n", event.Entity, event.Action, data)
			rc.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client left listing events (entity=%q)", entity))
			return
		}
	}
}
