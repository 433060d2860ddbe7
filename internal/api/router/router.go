package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/revive-underground/smart-booking/internal/appointments"
	"github.com/revive-underground/smart-booking/internal/contact"
	"github.com/revive-underground/smart-booking/internal/followup"
	"github.com/revive-underground/smart-booking/internal/http/handlers"
	httpmiddleware "github.com/revive-underground/smart-booking/internal/http/middleware"
	"github.com/revive-underground/smart-booking/internal/journey"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// ServiceName is reported by /health.
const ServiceName = "smart-booking"

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	JourneyHandler      *journey.Handler
	AppointmentsHandler *appointments.Handler
	FollowUpHandler     *followup.Handler
	ContactHandler      *contact.Handler
	AdminLogin          *handlers.AdminLoginHandler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Rate limiting. Redis may be nil; limits then apply per process.
	Redis              redis.Cmdable
	RateLimitPerMinute int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	limit := func(group string) func(http.Handler) http.Handler {
		return httpmiddleware.RateLimit(cfg.Redis, cfg.RateLimitPerMinute, group, cfg.Logger)
	}

	r.Get("/health", handlers.Health(ServiceName))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public booking widget endpoints
	r.Route("/api", func(api chi.Router) {
		api.Route("/booking", func(booking chi.Router) {
			booking.Use(limit("booking"))
			if cfg.JourneyHandler != nil {
				booking.Get("/questions", cfg.JourneyHandler.Questions)
				booking.With(requireJSON).Post("/advance", cfg.JourneyHandler.Advance)
			}
			if cfg.AppointmentsHandler != nil {
				booking.With(requireJSON).Post("/appointments", cfg.AppointmentsHandler.Log)
			}
		})
		if cfg.ContactHandler != nil {
			api.With(limit("contact"), requireJSON).Post("/contact", cfg.ContactHandler.Submit)
		}
	})

	r.Route("/admin", func(admin chi.Router) {
		if cfg.AdminLogin != nil {
			admin.With(limit("login"), requireJSON).Post("/login", cfg.AdminLogin.Login)
		}
		admin.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			protected.Use(limit("admin"))
			if cfg.AppointmentsHandler != nil {
				protected.Get("/appointments", cfg.AppointmentsHandler.List)
				protected.Get("/appointments/{id}", cfg.AppointmentsHandler.Get)
			}
			if cfg.FollowUpHandler != nil {
				protected.Post("/appointments/{id}/follow-up", cfg.FollowUpHandler.Create)
			}
		})
	})

	// Client dashboard reads share the operator session until clients get
	// their own accounts.
	r.Route("/client", func(client chi.Router) {
		client.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		client.Use(limit("client"))
		if cfg.AppointmentsHandler != nil {
			client.Get("/appointments", cfg.AppointmentsHandler.ListForClient)
		}
	})

	return r
}
