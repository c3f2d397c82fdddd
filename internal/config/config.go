// Package config loads the gateway service configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/yourorg/worldpay-gateway/internal/adapter/worldpay"
	"github.com/yourorg/worldpay-gateway/internal/policy"
	"github.com/yourorg/worldpay-gateway/internal/refdata"
)

// Config holds all configuration for the gateway service.
// Environment variables take precedence over YAML values.
type Config struct {
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME" env-default:"worldpay-gateway"`
	Listen      struct {
		BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port   string `yaml:"port" env:"PORT" env-default:"8080"`
	} `yaml:"listen"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	} `yaml:"log"`
	Tracing struct {
		Enabled bool `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	} `yaml:"tracing"`
	Redis struct {
		Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
		Addr    string        `yaml:"addr" env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
		TTL     time.Duration `yaml:"ttl" env:"REDIS_DEDUP_TTL" env-default:"72h"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
		Brokers string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"127.0.0.1:9092"`
		Topic   string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"payment.callback.processed"`
		Breaker struct {
			FailureThreshold int           `yaml:"failure_threshold" env:"KAFKA_BREAKER_FAILURES" env-default:"3"`
			ResetTimeout     time.Duration `yaml:"reset_timeout" env:"KAFKA_BREAKER_RESET" env-default:"30s"`
		} `yaml:"breaker"`
	} `yaml:"kafka"`

	ProviderAlias string            `yaml:"provider_alias" env:"PROVIDER_ALIAS" env-default:"worldpay-bg350"`
	Worldpay      worldpay.Settings `yaml:"worldpay"`

	FormSchemaPath string              `yaml:"form_schema_path" env:"FORM_SCHEMA_PATH"`
	ReviewRules    []policy.PolicyRule `yaml:"review_rules"`

	Countries  []refdata.Record `yaml:"countries"`
	Currencies []refdata.Record `yaml:"currencies"`
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Listen.BindIP + ":" + c.Listen.Port
}

var instance *Config
var once sync.Once

// GetConfig loads configuration once from the YAML file at path.
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return instance, err
}

// Load reads configuration from path, or from the environment alone when path
// is empty. Missing reference data and review rules fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}

	if len(cfg.Countries) == 0 {
		cfg.Countries = refdata.DefaultCountries
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = refdata.DefaultCurrencies
	}
	if cfg.ReviewRules == nil {
		cfg.ReviewRules = policy.DefaultRules()
	}
	return cfg, nil
}
