package appointments

import (
	"context"
	"time"

	"github.com/revive-underground/smart-booking/internal/journey"
	"github.com/revive-underground/smart-booking/internal/notify"
	"github.com/revive-underground/smart-booking/internal/observability/metrics"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// notifyTimeout bounds the post-write fan-out, which outlives the request.
const notifyTimeout = 30 * time.Second

// Notifier is the best-effort fan-out used after a booking is written.
type Notifier interface {
	Chat(ctx context.Context, text string) notify.Outcome
	SMS(ctx context.Context, to, body string) notify.Outcome
	Email(ctx context.Context, msg notify.EmailMessage) notify.Outcome
}

// ServiceConfig holds the operator-facing settings.
type ServiceConfig struct {
	// OwnerPhone receives the operator SMS. Empty disables it.
	OwnerPhone string
	// SendConfirmationEmail also emails the client after a successful write.
	SendConfirmationEmail bool
}

// Service records bookings and announces them.
type Service struct {
	store    Store
	notifier Notifier
	labels   *journey.Registry
	cfg      ServiceConfig
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewService(store Store, notifier Notifier, labels *journey.Registry, cfg ServiceConfig, bm *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("appointments: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		labels:   labels,
		cfg:      cfg,
		metrics:  bm,
		logger:   logger,
	}
}

// Store exposes the backing store for the read endpoints.
func (s *Service) Store() Store {
	return s.store
}

// LogAppointment writes the booking and, only once the write has succeeded,
// notifies the operator and the client. A failed write is not retried: the
// operator gets a best-effort alert and the client a generic apology.
// Notification outcomes never change the result.
func (s *Service) LogAppointment(ctx context.Context, req LogRequest) Result {
	rec := NewRecord(req)

	id, err := s.store.Create(ctx, rec)
	if err != nil {
		s.metrics.ObserveAppointment("failed")
		s.logger.Error("appointments: failed to store booking", "error", err, "email", rec.Email)
		if s.notifier != nil {
			alertCtx, cancel := detached(ctx)
			s.notifier.Chat(alertCtx, failureAlert(req, err))
			cancel()
		}
		return Result{Success: false, Message: FailureMessage}
	}
	s.metrics.ObserveAppointment("stored")
	log := s.logger.With("inquiry_id", id)
	log.Info("appointments: booking stored", "program", rec.ProgramName)

	if s.notifier != nil {
		// A stored booking is announced even if the client has gone away.
		ctx, cancel := detached(ctx)
		defer cancel()
		outcomes := []notify.Outcome{
			s.notifier.Chat(ctx, bookingAlert(id, req, rec, s.labels)),
			s.notifier.SMS(ctx, rec.Phone, clientSMS(rec)),
		}
		if s.cfg.OwnerPhone != "" {
			outcomes = append(outcomes, s.notifier.SMS(ctx, s.cfg.OwnerPhone, ownerSMS(rec)))
		}
		if s.cfg.SendConfirmationEmail {
			outcomes = append(outcomes, s.notifier.Email(ctx, confirmationEmail(id, rec)))
		}
		for _, o := range outcomes {
			if !o.Delivered {
				log.Warn("appointments: notification not delivered", "outcome", o.String())
			}
		}
	}

	return Result{
		Success:   true,
		Message:   successMessage(id, rec),
		InquiryID: id,
	}
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
}
