package events

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// SSEHandler streams broadcaster events to browser clients over
// Server-Sent Events. Mount it at a fixed path, e.g. GET /api/events.
func SSEHandler(b *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		id, ch := b.Subscribe()
		defer b.Unsubscribe(id)

		logger.Info(r.Context()).
			Uint64("subscriber", id).
			Str("remote_addr", r.RemoteAddr).
			Msg("SSE client connected")

		for {
			select {
			case <-r.Context().Done():
				logger.Info(r.Context()).
					Uint64("subscriber", id).
					Msg("SSE client disconnected")
				return
			case event, open := <-ch:
				if !open {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					logger.Error(r.Context()).Err(err).Msg("Failed to marshal event")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
				flusher.Flush()
			}
		}
	}
}
