package contact

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(io.LimitReader(r.Body, 32<<10)).Decode(&form); err != nil {
		h.logger.Warn("contact: failed to decode form", "error", err)
		writeJSON(w, http.StatusBadRequest, Result{Message: ValidationMessage})
		return
	}

	result := h.service.Submit(r.Context(), form)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
