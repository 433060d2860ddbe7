package followup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/revive-underground/smart-booking/internal/appointments"
	"github.com/revive-underground/smart-booking/internal/notify"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// RecordGetter loads the booking being followed up.
type RecordGetter interface {
	Get(ctx context.Context, id string) (appointments.Record, error)
}

// Sender dispatches the drafted messages.
type Sender interface {
	SMS(ctx context.Context, to, body string) notify.Outcome
	Email(ctx context.Context, msg notify.EmailMessage) notify.Outcome
}

type Handler struct {
	drafter *Drafter
	records RecordGetter
	sender  Sender
	logger  *logging.Logger
}

func NewHandler(drafter *Drafter, records RecordGetter, sender Sender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{drafter: drafter, records: records, sender: sender, logger: logger}
}

type followUpRequest struct {
	Send bool `json:"send"`
}

type followUpResponse struct {
	Draft    Draft            `json:"draft"`
	Sent     bool             `json:"sent"`
	Outcomes []notify.Outcome `json:"outcomes,omitempty"`
}

// Create handles POST /admin/appointments/{id}/follow-up. An empty body only
// drafts; {"send": true} also sends the SMS and email.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req followUpRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<10))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	id := chi.URLParam(r, "id")
	rec, err := h.records.Get(r.Context(), id)
	if errors.Is(err, appointments.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
		return
	}
	if err != nil {
		h.logger.Error("followup: load appointment failed", "error", err, "inquiry_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load appointment."})
		return
	}

	draft, err := h.drafter.Draft(r.Context(), rec)
	if err != nil {
		h.logger.Error("followup: draft failed", "error", err, "inquiry_id", id)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "The AI model failed to generate a valid structured response. Please try again.",
		})
		return
	}

	resp := followUpResponse{Draft: draft}
	if req.Send && h.sender != nil {
		resp.Sent = true
		resp.Outcomes = []notify.Outcome{
			h.sender.SMS(r.Context(), rec.Phone, draft.SMSMessage),
			h.sender.Email(r.Context(), notify.EmailMessage{
				To:      rec.Email,
				ToName:  rec.Name,
				Subject: draft.EmailSubject,
				Body:    draft.EmailBody,
				Kind:    notify.EmailKindFollowUp,
			}),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
