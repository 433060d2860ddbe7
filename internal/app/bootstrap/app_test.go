package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revive-underground/smart-booking/internal/appointments"
	appconfig "github.com/revive-underground/smart-booking/internal/config"
	"github.com/revive-underground/smart-booking/internal/notify"
	"github.com/revive-underground/smart-booking/internal/recommend"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

func memoryConfig() *appconfig.Config {
	return &appconfig.Config{
		AppointmentStore: appconfig.StoreMemory,
		LLMProvider:      ProviderNone,
		EmailProvider:    "none",
		AdminUsername:    "owner",
		AdminPassword:    "pass-1234",
		AdminJWTSecret:   "secret",
	}
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, logging.New("error"))
	require.Error(t, err)
}

func TestBuildMemoryApp(t *testing.T) {
	app, err := Build(context.Background(), memoryConfig(), logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	_, ok := app.Store.(*appointments.MemoryStore)
	assert.True(t, ok)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a model the journey completes with fallback copy.
	body := `{"currentQuestionId":"city","previousAnswers":{"name":"Asha"},"userResponse":"Pune"}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking/advance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conversationComplete":true`)

	// Follow-up drafting needs a model, so the route is absent.
	req = httptest.NewRequest(http.MethodPost, "/admin/appointments/abc/follow-up", nil)
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Mounted admin routes still require a token.
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildAppointmentStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *appconfig.Config
		want string
	}{
		{"unknown", &appconfig.Config{AppointmentStore: "mongo"}, "unknown APPOINTMENT_STORE"},
		{"postgres without url", &appconfig.Config{AppointmentStore: appconfig.StorePostgres}, "DATABASE_URL"},
		{"dynamo without table", &appconfig.Config{AppointmentStore: appconfig.StoreDynamo}, "DYNAMODB_APPOINTMENTS_TABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAppointmentStore(context.Background(), NewClients(tt.cfg, logging.New("error")))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildAppointmentStoreDynamo(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{
		AppointmentStore:        appconfig.StoreDynamo,
		DynamoAppointmentsTable: "smart_appointments",
		AWSRegion:               "ap-south-1",
		AWSAccessKeyID:          "test",
		AWSSecretAccessKey:      "test",
		AWSEndpointOverride:     "http://localhost:4566",
	}
	store, err := BuildAppointmentStore(context.Background(), NewClients(cfg, logging.New("error")))
	require.NoError(t, err)
	_, ok := store.(*appointments.DynamoStore)
	assert.True(t, ok)
}

func TestBuildLLMClientSelection(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	base := appconfig.Config{AWSRegion: "us-east-1", AWSAccessKeyID: "test", AWSSecretAccessKey: "test"}

	none := base
	none.LLMProvider = ProviderAuto
	client, provider, err := BuildLLMClient(context.Background(), NewClients(&none, logging.New("error")))
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.Equal(t, ProviderNone, provider)

	bedrock := base
	bedrock.LLMProvider = ProviderAuto
	bedrock.BedrockModelID = "anthropic.claude-3-haiku"
	client, provider, err = BuildLLMClient(context.Background(), NewClients(&bedrock, logging.New("error")))
	require.NoError(t, err)
	_, ok := client.(*recommend.BedrockLLMClient)
	assert.True(t, ok)
	assert.Equal(t, ProviderBedrock, provider)

	missing := base
	missing.LLMProvider = ProviderBedrock
	_, _, err = BuildLLMClient(context.Background(), NewClients(&missing, logging.New("error")))
	require.Error(t, err)

	gemini := base
	gemini.LLMProvider = ProviderGemini
	_, _, err = BuildLLMClient(context.Background(), NewClients(&gemini, logging.New("error")))
	require.Error(t, err, "gemini requires an api key")

	unknown := base
	unknown.LLMProvider = "openai"
	_, _, err = BuildLLMClient(context.Background(), NewClients(&unknown, logging.New("error")))
	require.Error(t, err)
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.New("error")

	sender, err := BuildEmailSender(context.Background(), NewClients(&appconfig.Config{EmailProvider: "none"}, logger))
	require.NoError(t, err)
	assert.Nil(t, sender)

	sender, err = BuildEmailSender(context.Background(), NewClients(&appconfig.Config{EmailProvider: "sendgrid"}, logger))
	require.NoError(t, err)
	assert.Nil(t, sender, "sendgrid without a key is disabled")

	sender, err = BuildEmailSender(context.Background(), NewClients(&appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.test"}, logger))
	require.NoError(t, err)
	_, ok := sender.(*notify.SendGridSender)
	assert.True(t, ok)

	sender, err = BuildEmailSender(context.Background(), NewClients(&appconfig.Config{EmailProvider: "stub"}, logger))
	require.NoError(t, err)
	_, ok = sender.(*notify.StubEmailSender)
	assert.True(t, ok)

	_, err = BuildEmailSender(context.Background(), NewClients(&appconfig.Config{EmailProvider: "mailgun"}, logger))
	require.Error(t, err)
}

func TestBuildRedisClient(t *testing.T) {
	logger := logging.New("error")
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logger, true))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestClientsRedisIsShared(t *testing.T) {
	mr := miniredis.RunT(t)
	clients := NewClients(&appconfig.Config{RedisAddr: mr.Addr()}, logging.New("error"))
	t.Cleanup(clients.Close)

	first := clients.Redis(context.Background())
	require.NotNil(t, first)
	assert.Same(t, first, clients.Redis(context.Background()))
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{AWSRegion: "ap-south-1", AWSAccessKeyID: "AKIA", AWSSecretAccessKey: "secret"}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIA", creds.AccessKeyID)
}
