package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/jpalmerr/homeboard/internal/source"
)

// Commander forwards playback commands to the backend.
type Commander interface {
	Command(ctx context.Context, action string) error
	SetVolume(ctx context.Context, value int) error
	Transfer(ctx context.Context, deviceID string) error
}

type commandHandler struct {
	cmd     Commander
	limiter *rate.Limiter
	after   func()
	logger  *slog.Logger
}

func (h *commandHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/command/volume", h.throttle(h.handleVolume))
	mux.HandleFunc("POST /api/command/transfer/{device}", h.throttle(h.handleTransfer))
	mux.HandleFunc("POST /api/command/{action}", h.throttle(h.handleAction))
}

// throttle rejects requests over the limiter's rate.
func (h *commandHandler) throttle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && !h.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many commands"})
			return
		}
		next(w, r)
	}
}

func (h *commandHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	h.finish(w, "command "+action, h.cmd.Command(r.Context(), action))
}

func (h *commandHandler) handleVolume(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.Atoi(r.URL.Query().Get("value"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be an integer"})
		return
	}
	h.finish(w, "command volume", h.cmd.SetVolume(r.Context(), value))
}

func (h *commandHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	h.finish(w, "command transfer", h.cmd.Transfer(r.Context(), r.PathValue("device")))
}

// finish writes the command outcome. Backend failures map to 502, rejected
// input to 400. Accepted commands run the after hook.
func (h *commandHandler) finish(w http.ResponseWriter, op string, err error) {
	if err != nil {
		status := http.StatusBadRequest
		var se *source.Error
		if errors.As(err, &se) {
			status = http.StatusBadGateway
		}
		h.logger.Warn("command failed", "op", op, "error", err.Error())
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	h.logger.Debug("command sent", "op", op)
	if h.after != nil {
		h.after()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
