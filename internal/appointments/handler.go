package appointments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

const maxLogBody = 64 << 10

// Handler serves the booking write endpoint and the read endpoints.
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

// Log handles POST /api/booking/appointments.
func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxLogBody)).Decode(&req); err != nil {
		h.logger.Warn("appointments: failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error(), "fields": verr.Fields})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := h.service.LogAppointment(r.Context(), req)
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /admin/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recs, err := h.service.Store().ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("appointments: list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load appointments."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": recs, "count": len(recs)})
}

// Get handles GET /admin/appointments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.service.Store().Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
		return
	}
	if err != nil {
		h.logger.Error("appointments: get failed", "error", err, "inquiry_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load appointment."})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ClientAppointment is the client dashboard view of a booking.
type ClientAppointment struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Program        string    `json:"program"`
	Summary        string    `json:"summary"`
	Recommendation string    `json:"recommendation"`
	Status         string    `json:"status"`
}

// ListForClient handles GET /client/appointments?email=.
func (h *Handler) ListForClient(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}
	recs, err := h.service.Store().ListByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("appointments: client list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load appointments."})
		return
	}

	out := make([]ClientAppointment, 0, len(recs))
	for _, rec := range recs {
		program := rec.ProgramName
		if program == "" {
			program = DefaultProgramName
		}
		out = append(out, ClientAppointment{
			ID:             rec.ID,
			CreatedAt:      rec.CreatedAt,
			Program:        program,
			Summary:        rec.AISummary,
			Recommendation: rec.AIRecommendation,
			Status:         rec.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": out})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
