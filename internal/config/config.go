package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/ulule/limiter/v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverMongoDB  = "mongodb"
	DriverRedis    = "redis"
	DriverDynamoDB = "dynamodb"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	DynamoDB  DynamoDBConfig
	Kafka     KafkaConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port               string `envconfig:"APP_PORT" default:"8080"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	RateLimit          string `envconfig:"RATE_LIMIT" default:"120-M"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// StoreConfig selects the slot storage backend.
type StoreConfig struct {
	Driver    string `envconfig:"STORE_DRIVER" default:"file"`
	FileDir   string `envconfig:"STORE_FILE_DIR" default:"./data"`
	KeyPrefix string `envconfig:"STORE_KEY_PREFIX" default:"vinstock_"`
}

// MongoDBConfig holds settings for MongoDB, used as slot store and as digest archive.
type MongoDBConfig struct {
	URI    string `envconfig:"MONGODB_URI"`
	DBName string `envconfig:"MONGODB_DB_NAME" default:"vinstock"`
}

// RedisConfig holds settings for the Redis slot store.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// DynamoDBConfig holds settings for the DynamoDB slot store.
type DynamoDBConfig struct {
	Region string `envconfig:"AWS_REGION" default:"eu-west-3"`
	Table  string `envconfig:"DYNAMODB_TABLE" default:"vinstock-slots"`
}

// KafkaConfig enables stock movement events when brokers are set.
type KafkaConfig struct {
	Brokers string `envconfig:"KAFKA_BROKERS"`
	Topic   string `envconfig:"KAFKA_TOPIC" default:"vinstock.stock-movements"`
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken    string `envconfig:"WHATSAPP_TOKEN"`
	PhoneNumberID  string `envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
	BaseURL        string `envconfig:"WHATSAPP_BASE_URL" default:"https://graph.facebook.com"`
	APIVersion     string `envconfig:"WHATSAPP_API_VERSION" default:"v20.0"`
	AlertRecipient string `envconfig:"WHATSAPP_ALERT_RECIPIENT"`
}

// SheetsConfig contains configuration required to mirror the ledger into Google Sheets.
type SheetsConfig struct {
	CredentialsPath     string `envconfig:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	LedgerSpreadsheetID string `envconfig:"GOOGLE_SHEET_LEDGER_ID"`
	LedgerRange         string `envconfig:"GOOGLE_SHEET_LEDGER_RANGE" default:"Ventes!A:I"`
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string `envconfig:"REPORT_CRON_SCHEDULE" default:"0 20 * * *"`
	Timezone     string `envconfig:"TIMEZONE" default:"Africa/Dakar"`
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if _, err := limiter.NewRateFromFormatted(c.Server.RateLimit); err != nil {
		return fmt.Errorf("RATE_LIMIT is invalid: %w", err)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.FileDir == "" {
			return errors.New("STORE_FILE_DIR must be provided for the file driver")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided for the mongodb driver")
		}
	case DriverRedis:
		if c.Redis.Host == "" || c.Redis.Port == "" {
			return errors.New("REDIS_HOST and REDIS_PORT must be provided for the redis driver")
		}
	case DriverDynamoDB:
		if c.DynamoDB.Table == "" || c.DynamoDB.Region == "" {
			return errors.New("DYNAMODB_TABLE and AWS_REGION must be provided for the dynamodb driver")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC must be provided when KAFKA_BROKERS is set")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.AlertRecipient == "":
			return errors.New("WHATSAPP_ALERT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.LedgerSpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_LEDGER_ID must be provided")
	}

	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if _, err := c.Reporting.Location(); err != nil {
		return err
	}

	return nil
}

// Enabled reports whether events should be published.
func (k KafkaConfig) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

// Enabled reports whether WhatsApp notifications are configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != ""
}

// Enabled reports whether the ledger mirror is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != ""
}

// Location resolves the configured timezone.
func (r ReportingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q is invalid: %w", r.Timezone, err)
	}
	return loc, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
