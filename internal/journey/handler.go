package journey

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

const maxAdvanceBody = 64 << 10

// Handler exposes the journey over HTTP.
type Handler struct {
	machine *Machine
	logger  *logging.Logger
}

func NewHandler(machine *Machine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{machine: machine, logger: logger}
}

// Advance handles POST /api/booking/advance.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAdvanceBody))
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("journey: failed to decode advance request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.CurrentQuestionID = strings.TrimSpace(req.CurrentQuestionID)
	if req.CurrentQuestionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "currentQuestionId is required"})
		return
	}

	result, err := h.machine.Advance(r.Context(), req)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "An unexpected error occurred in the booking flow. Please restart.",
			})
			return
		}
		h.logger.Error("journey: advance failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Questions handles GET /api/booking/questions.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	questions := h.machine.Registry().Questions()
	writeJSON(w, http.StatusOK, map[string]any{
		"firstQuestionId": questions[0].ID,
		"questions":       questions,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
