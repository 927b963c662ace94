// Package config reads the recovery service settings from the environment,
// with command-line flags for the most common overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fjod/go_cart/cart-recovery-service/internal/decision"
)

type Config struct {
	PollInterval        time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	InactivityThreshold time.Duration `env:"INACTIVITY_THRESHOLD" envDefault:"60s"`

	CandidateUsers  string `env:"CANDIDATE_USERS" envDefault:"42,43,44"`
	CandidateSource string `env:"CANDIDATE_SOURCE" envDefault:"static"`
	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName     string `env:"MONGO_DB_NAME" envDefault:"cartdb"`

	CartSource      string `env:"CART_SOURCE" envDefault:"grpc"`
	CartServiceAddr string `env:"CART_SERVICE_ADDR" envDefault:"localhost:7070"`

	ProductSource      string `env:"PRODUCT_SOURCE" envDefault:"grpc"`
	CatalogServiceAddr string `env:"PRODUCT_CATALOG_SERVICE_ADDR" envDefault:"localhost:3550"`
	CatalogDBPath      string `env:"CATALOG_DB_PATH" envDefault:"./catalog.db"`
	MigrationsPath     string `env:"MIGRATIONS_PATH" envDefault:"./internal/repository/migrations"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	ProductCacheTTL time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"5m"`

	DecisionStrategy    string        `env:"DECISION_STRATEGY" envDefault:"rules"`
	DecisionSendRule    string        `env:"DECISION_SEND_RULE"`
	DecisionPercentRule string        `env:"DECISION_PERCENT_RULE"`
	DecisionModelURL    string        `env:"DECISION_MODEL_URL"`
	DecisionTimeout     time.Duration `env:"DECISION_TIMEOUT" envDefault:"3s"`

	DeliveryChannel  string   `env:"DELIVERY_CHANNEL" envDefault:"log"`
	EmailServiceAddr string   `env:"EMAIL_SERVICE_ADDR" envDefault:"localhost:8081"`
	ResendAPIKey     string   `env:"RESEND_API_KEY"`
	EmailFrom        string   `env:"EMAIL_FROM" envDefault:"offers@example.com"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaTopic       string   `env:"KAFKA_TOPIC" envDefault:"discount-offers"`
	DeliveryRate     float64  `env:"DELIVERY_RATE" envDefault:"0"`
	RecipientDomain  string   `env:"RECIPIENT_DOMAIN" envDefault:"example.com"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
}

// Parse reads the process environment and command line.
func Parse() (*Config, error) {
	return Load(os.Args[1:], nil)
}

// Load parses environ (the process environment when nil) and then applies any
// flags present in args. An explicitly passed flag wins over the environment.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("cart-recovery", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address for the ops HTTP server")
	fs.DurationVar(&cfg.PollInterval, "i", cfg.PollInterval, "tick interval")
	fs.DurationVar(&cfg.InactivityThreshold, "t", cfg.InactivityThreshold, "inactivity threshold")
	fs.StringVar(&cfg.CandidateUsers, "u", cfg.CandidateUsers, "comma separated candidate user ids")
	fs.StringVar(&cfg.DeliveryChannel, "c", cfg.DeliveryChannel, "delivery channel: log, grpc, resend or kafka")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("POLL_INTERVAL must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.DecisionTimeout <= 0 {
		errs = append(errs, errors.New("DECISION_TIMEOUT must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.InactivityThreshold < 0 {
		errs = append(errs, errors.New("INACTIVITY_THRESHOLD must not be negative"))
	}
	if !oneOf(c.CandidateSource, "static", "mongo") {
		errs = append(errs, fmt.Errorf("unknown CANDIDATE_SOURCE %q", c.CandidateSource))
	}
	if !oneOf(c.CartSource, "grpc", "mongo") {
		errs = append(errs, fmt.Errorf("unknown CART_SOURCE %q", c.CartSource))
	}
	if !oneOf(c.ProductSource, "grpc", "sqlite") {
		errs = append(errs, fmt.Errorf("unknown PRODUCT_SOURCE %q", c.ProductSource))
	}
	if !oneOf(c.DecisionStrategy, "rules", "remote") {
		errs = append(errs, fmt.Errorf("unknown DECISION_STRATEGY %q", c.DecisionStrategy))
	}
	if c.DecisionStrategy == "remote" && c.DecisionModelURL == "" {
		errs = append(errs, errors.New("DECISION_MODEL_URL is required for the remote strategy"))
	}
	switch c.DeliveryChannel {
	case "log", "grpc", "kafka":
	case "resend":
		if c.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend channel"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DELIVERY_CHANNEL %q", c.DeliveryChannel))
	}
	if c.DeliveryRate < 0 {
		errs = append(errs, errors.New("DELIVERY_RATE must not be negative"))
	}
	return errors.Join(errs...)
}

// SendRule returns the configured CEL send rule or the built-in default.
func (c *Config) SendRule() string {
	if c.DecisionSendRule != "" {
		return c.DecisionSendRule
	}
	return decision.DefaultSendRule
}

func (c *Config) PercentRule() string {
	if c.DecisionPercentRule != "" {
		return c.DecisionPercentRule
	}
	return decision.DefaultPercentRule
}

// UsesMongo reports whether any component reads the carts collection directly.
func (c *Config) UsesMongo() bool {
	return c.CandidateSource == "mongo" || c.CartSource == "mongo"
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
