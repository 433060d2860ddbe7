package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/revive-underground/smart-booking/internal/api/router"
	"github.com/revive-underground/smart-booking/internal/appointments"
	appconfig "github.com/revive-underground/smart-booking/internal/config"
	"github.com/revive-underground/smart-booking/internal/contact"
	"github.com/revive-underground/smart-booking/internal/followup"
	"github.com/revive-underground/smart-booking/internal/http/handlers"
	"github.com/revive-underground/smart-booking/internal/journey"
	"github.com/revive-underground/smart-booking/internal/notify"
	"github.com/revive-underground/smart-booking/internal/observability/metrics"
	"github.com/revive-underground/smart-booking/internal/recommend"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// App is the fully wired booking service.
type App struct {
	Handler http.Handler
	Metrics *metrics.BookingMetrics
	Clients *Clients
	Store   appointments.Store
}

// Close releases the SDK clients.
func (a *App) Close() {
	if a != nil && a.Clients != nil {
		a.Clients.Close()
	}
}

// Build constructs every dependency from cfg and returns the HTTP handler
// serving the booking API.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clients := NewClients(cfg, logger)
	app := &App{Clients: clients}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bm := metrics.NewBookingMetrics(reg)
	app.Metrics = bm

	store, err := BuildAppointmentStore(ctx, clients)
	if err != nil {
		clients.Close()
		return nil, err
	}
	app.Store = store

	llm, provider, err := BuildLLMClient(ctx, clients)
	if err != nil {
		clients.Close()
		return nil, err
	}
	logger.Info("llm provider selected", "provider", provider)

	email, err := BuildEmailSender(ctx, clients)
	if err != nil {
		clients.Close()
		return nil, err
	}

	notifier := notify.NewService(
		notify.NewTelegramSender(notify.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
		}, logger),
		notify.NewTwilioSMSSender(notify.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		}, logger),
		email,
		bm,
		logger,
	)

	registry := journey.DefaultRegistry()
	var synth journey.Synthesizer
	if llm != nil {
		synth = recommend.NewSynthesizer(llm, recommend.SynthesizerConfig{Model: cfg.BedrockModelID}, logger)
	}
	machine := journey.NewMachine(registry, synth, logger,
		journey.WithSynthesisTimeout(cfg.SynthesisTimeout),
		journey.WithMetrics(bm),
	)

	apptService := appointments.NewService(store, notifier, registry, appointments.ServiceConfig{
		OwnerPhone:            cfg.BusinessOwnerPhone,
		SendConfirmationEmail: cfg.SendConfirmations,
	}, bm, logger)

	var followUp *followup.Handler
	if llm != nil {
		followUp = followup.NewHandler(followup.NewDrafter(llm, cfg.BedrockModelID, logger), store, notifier, logger)
	}

	var limiterStore redis.Cmdable
	if rdb := clients.Redis(ctx); rdb != nil {
		limiterStore = rdb
	}

	app.Handler = router.New(&router.Config{
		Logger:              logger,
		JourneyHandler:      journey.NewHandler(machine, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		FollowUpHandler:     followUp,
		ContactHandler:      contact.NewHandler(contact.NewService(notifier, cfg.BusinessOwnerPhone, logger), logger),
		AdminLogin: handlers.NewAdminLoginHandler(handlers.AdminLoginConfig{
			Username:  cfg.AdminUsername,
			Password:  cfg.AdminPassword,
			JWTSecret: cfg.AdminJWTSecret,
			TokenTTL:  cfg.AdminTokenTTL,
		}, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Redis:              limiterStore,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	return app, nil
}

// BuildAppointmentStore returns the store selected by APPOINTMENT_STORE.
func BuildAppointmentStore(ctx context.Context, clients *Clients) (appointments.Store, error) {
	cfg := clients.cfg
	switch cfg.AppointmentStore {
	case appconfig.StoreFirestore, "":
		client, err := clients.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return appointments.NewFirestoreStore(client, cfg.AppointmentsCollection), nil
	case appconfig.StorePostgres:
		pool, err := clients.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		return appointments.NewPostgresStore(pool), nil
	case appconfig.StoreDynamo:
		if strings.TrimSpace(cfg.DynamoAppointmentsTable) == "" {
			return nil, fmt.Errorf("bootstrap: DYNAMODB_APPOINTMENTS_TABLE is required for the dynamodb store")
		}
		awsCfg, err := clients.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return appointments.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoAppointmentsTable), nil
	case appconfig.StoreMemory:
		clients.logger.Warn("using in-memory appointment store; bookings are lost on restart")
		return appointments.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown APPOINTMENT_STORE %q", cfg.AppointmentStore)
	}
}

// BuildEmailSender returns the provider selected by EMAIL_PROVIDER, or nil
// when email is off.
func BuildEmailSender(ctx context.Context, clients *Clients) (notify.EmailSender, error) {
	cfg := clients.cfg
	logger := clients.logger
	switch strings.ToLower(strings.TrimSpace(cfg.EmailProvider)) {
	case "", "none":
		return nil, nil
	case "stub":
		return notify.NewStubEmailSender(logger), nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; email disabled")
			return nil, nil
		}
		return sender, nil
	case "ses":
		awsCfg, err := clients.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail:        cfg.EmailFromAddress,
			FromName:         cfg.EmailFromName,
			ReplyTo:          cfg.EmailReplyTo,
			ConfigurationSet: cfg.SESConfigurationSet,
		}, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}
