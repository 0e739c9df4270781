package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resgate/internal/cases/feed"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/httputil"
	"resgate/pkg/requestcontext"
)

const heartbeatInterval = 30 * time.Second

// HandleEvents handles GET /cases/{caseID}/events requests. It streams the
// case's live feed as server-sent events until the client disconnects.
// Heartbeat comments keep intermediaries from timing the connection out.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming unsupported"))
		return
	}

	events, err := h.service.Subscribe(ctx, caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.InfoContext(ctx, "feed stream opened",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", caseID,
	)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev feed.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
	return err
}
