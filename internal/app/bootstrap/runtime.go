package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	appconfig "github.com/revive-underground/smart-booking/internal/config"
	"github.com/revive-underground/smart-booking/internal/recommend"
	"github.com/revive-underground/smart-booking/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Clients lazily creates the long-lived SDK clients and reuses them for the
// life of the process. Each accessor initialises at most once; a failed
// initialisation is remembered and returned on every later call.
type Clients struct {
	cfg    *appconfig.Config
	logger *logging.Logger

	awsOnce sync.Once
	awsCfg  aws.Config
	awsErr  error

	firestoreOnce sync.Once
	firestore     *firestore.Client
	firestoreErr  error

	pgOnce sync.Once
	pg     *pgxpool.Pool
	pgErr  error

	redisOnce sync.Once
	redis     *redis.Client

	geminiOnce sync.Once
	gemini     *recommend.GeminiLLMClient
	geminiErr  error
}

func NewClients(cfg *appconfig.Config, logger *logging.Logger) *Clients {
	if logger == nil {
		logger = logging.Default()
	}
	return &Clients{cfg: cfg, logger: logger}
}

// AWS returns the shared AWS SDK configuration.
func (c *Clients) AWS(ctx context.Context) (aws.Config, error) {
	c.awsOnce.Do(func() {
		c.awsCfg, c.awsErr = LoadAWSConfig(ctx, c.cfg)
		if c.awsErr != nil {
			c.awsErr = fmt.Errorf("bootstrap: load aws config: %w", c.awsErr)
		}
	})
	return c.awsCfg, c.awsErr
}

// Firestore returns the Firestore client of the configured Firebase project.
// An inline service-account JSON wins over a credentials file; with neither,
// application default credentials apply.
func (c *Clients) Firestore(ctx context.Context) (*firestore.Client, error) {
	c.firestoreOnce.Do(func() {
		var opts []option.ClientOption
		switch {
		case strings.TrimSpace(c.cfg.FirebaseServiceAccountJSON) != "":
			opts = append(opts, option.WithCredentialsJSON([]byte(c.cfg.FirebaseServiceAccountJSON)))
		case strings.TrimSpace(c.cfg.FirebaseCredentialsFile) != "":
			opts = append(opts, option.WithCredentialsFile(c.cfg.FirebaseCredentialsFile))
		}
		var fbCfg *firebase.Config
		if c.cfg.FirebaseProjectID != "" {
			fbCfg = &firebase.Config{ProjectID: c.cfg.FirebaseProjectID}
		}
		app, err := firebase.NewApp(ctx, fbCfg, opts...)
		if err != nil {
			c.firestoreErr = fmt.Errorf("bootstrap: firebase.NewApp: %w", err)
			return
		}
		c.firestore, c.firestoreErr = app.Firestore(ctx)
		if c.firestoreErr != nil {
			c.firestoreErr = fmt.Errorf("bootstrap: firebase app.Firestore: %w", c.firestoreErr)
		}
	})
	return c.firestore, c.firestoreErr
}

// Postgres returns the shared connection pool for DATABASE_URL.
func (c *Clients) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	c.pgOnce.Do(func() {
		if strings.TrimSpace(c.cfg.DatabaseURL) == "" {
			c.pgErr = fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres store")
			return
		}
		c.pg, c.pgErr = pgxpool.New(ctx, c.cfg.DatabaseURL)
		if c.pgErr != nil {
			c.pgErr = fmt.Errorf("bootstrap: connect postgres: %w", c.pgErr)
		}
	})
	return c.pg, c.pgErr
}

// Redis returns the verified Redis client, or nil when Redis is disabled or
// unreachable at startup.
func (c *Clients) Redis(ctx context.Context) *redis.Client {
	c.redisOnce.Do(func() {
		c.redis = BuildRedisClient(ctx, c.cfg, c.logger, true)
	})
	return c.redis
}

// Close releases every client that was created.
func (c *Clients) Close() {
	if c.firestore != nil {
		if err := c.firestore.Close(); err != nil {
			c.logger.Warn("failed to close firestore client", "error", err)
		}
	}
	if c.pg != nil {
		c.pg.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.gemini != nil {
		_ = c.gemini.Close()
	}
}
