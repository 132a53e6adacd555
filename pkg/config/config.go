package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Polling      PollingConfig
	Expiry       ExpiryConfig
	WhatsApp     WhatsAppConfig
	Sendgrid     SendgridConfig
	GoogleMaps   GoogleMapsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TURNIA_APP_ENV" required:"true"`
	Port         string `envconfig:"TURNIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TURNIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TURNIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TURNIA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TURNIA_DB_DSN"`
	Driver string `envconfig:"TURNIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TURNIA_DB_HOST"`
	LegacyPort     int    `envconfig:"TURNIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TURNIA_DB_USER"`
	LegacyPassword string `envconfig:"TURNIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"TURNIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"TURNIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TURNIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TURNIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TURNIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TURNIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TURNIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TURNIA_REDIS_ADDR"`
	Password     string        `envconfig:"TURNIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TURNIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TURNIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TURNIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TURNIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TURNIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TURNIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TURNIA_AUTO_MIGRATE" default:"false"`
}

// PollingConfig tunes the order refresh loop that feeds change detection.
type PollingConfig struct {
	Interval        time.Duration `envconfig:"TURNIA_POLL_INTERVAL" default:"15s"`
	NotificationTTL time.Duration `envconfig:"TURNIA_POLL_NOTIFICATION_TTL" default:"6s"`
}

// ExpiryConfig tunes the rejected-assignment cleanup sweep.
type ExpiryConfig struct {
	Interval       time.Duration `envconfig:"TURNIA_EXPIRY_INTERVAL" default:"1m"`
	RejectionDelay time.Duration `envconfig:"TURNIA_EXPIRY_REJECTION_DELAY" default:"5h"`
}

type WhatsAppConfig struct {
	BaseURL       string `envconfig:"TURNIA_WHATSAPP_BASE_URL"`
	Token         string `envconfig:"TURNIA_WHATSAPP_TOKEN"`
	PhoneNumberID string `envconfig:"TURNIA_WHATSAPP_PHONE_NUMBER_ID"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"TURNIA_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"TURNIA_SENDGRID_FROM_EMAIL"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"TURNIA_GOOGLE_MAPS_API_KEY"`
	Origin string `envconfig:"TURNIA_GOOGLE_MAPS_ORIGIN"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TURNIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TURNIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TURNIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AssignmentTopic string `envconfig:"TURNIA_PUBSUB_ASSIGNMENT_TOPIC" default:"turnia-assignment-events"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
