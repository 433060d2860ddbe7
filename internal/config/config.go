package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for appointment records.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreDynamo    = "dynamodb"
	StoreMemory    = "memory"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Appointment persistence
	AppointmentStore           string
	AppointmentsCollection     string
	FirebaseProjectID          string
	FirebaseCredentialsFile    string
	FirebaseServiceAccountJSON string
	DatabaseURL                string
	DynamoAppointmentsTable    string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Recommendation synthesis
	LLMProvider      string
	GoogleAPIKey     string
	GeminiModelID    string
	BedrockModelID   string
	SynthesisTimeout time.Duration

	// Operator chat channel
	TelegramBotToken string
	TelegramChatID   string

	// SMS
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	BusinessOwnerPhone string

	// Email
	EmailProvider       string
	SendGridAPIKey      string
	EmailFromAddress    string
	EmailFromName       string
	EmailReplyTo        string
	SESConfigurationSet string
	SendConfirmations   bool

	// Rate limiting
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	RateLimitPerMinute int

	// Admin auth
	AdminUsername  string
	AdminPassword  string
	AdminJWTSecret string
	AdminTokenTTL  time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		AppointmentStore:           strings.ToLower(strings.TrimSpace(getEnv("APPOINTMENT_STORE", StoreFirestore))),
		AppointmentsCollection:     getEnv("APPOINTMENTS_COLLECTION", "smartAppointments"),
		FirebaseProjectID:          getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile:    getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		DynamoAppointmentsTable:    getEnv("DYNAMODB_APPOINTMENTS_TABLE", "smart_appointments"),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		LLMProvider:      strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "auto"))),
		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		GeminiModelID:    getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:   getEnv("BEDROCK_MODEL_ID", ""),
		SynthesisTimeout: getEnvAsDuration("SYNTHESIS_TIMEOUT", 25*time.Second),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:   getEnv("TWILIO_PHONE_NUMBER", ""),
		BusinessOwnerPhone: getEnv("BUSINESS_OWNER_PHONE_NUMBER", ""),

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Revive 2.0 Underground"),
		EmailReplyTo:        getEnv("EMAIL_REPLY_TO", ""),
		SESConfigurationSet: getEnv("SES_CONFIGURATION_SET", ""),
		SendConfirmations:   getEnvAsBool("SEND_CONFIRMATION_EMAILS", false),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),

		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AdminTokenTTL:  getEnvAsDuration("ADMIN_TOKEN_TTL", 7*24*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
