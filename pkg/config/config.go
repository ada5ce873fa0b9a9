package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	HTTPPort    int    `yaml:"http_port"`
	DatabaseURL string `yaml:"database_url"`

	KafkaBrokers       string `yaml:"kafka_brokers"`
	KafkaWorkflowTopic string `yaml:"kafka_workflow_topic"`

	CheckoutMaxConcurrent int    `yaml:"checkout_max_concurrent"`
	ShippingFlat          string `yaml:"shipping_flat"`
	Currency              string `yaml:"currency"`

	// Providers are upserted into the provider directory at startup.
	// Only settable from the config file.
	Providers []ProviderSeed `yaml:"providers"`

	// client side
	CartServerURL string `yaml:"cart_server_url"`
	LocalCartDir  string `yaml:"local_cart_dir"`
}

type ProviderSeed struct {
	ID        string `yaml:"id"`
	UserID    string `yaml:"user_id"`
	ManagerID string `yaml:"manager_id"`
}

func defaults() Config {
	return Config{
		AppEnv:                "dev",
		LogLevel:              "info",
		HTTPPort:              8080,
		KafkaWorkflowTopic:    "storefront.workflow.transitions",
		CheckoutMaxConcurrent: 10,
		ShippingFlat:          "0",
		Currency:              "IDR",
		CartServerURL:         "http://localhost:8080",
		LocalCartDir:          ".cart",
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.KafkaBrokers = getEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaWorkflowTopic = getEnv("KAFKA_TOPIC_WORKFLOW", cfg.KafkaWorkflowTopic)
	cfg.CheckoutMaxConcurrent = getEnvInt("CHECKOUT_MAX_CONCURRENT", cfg.CheckoutMaxConcurrent)
	cfg.ShippingFlat = getEnv("SHIPPING_FLAT", cfg.ShippingFlat)
	cfg.Currency = getEnv("CURRENCY", cfg.Currency)
	cfg.CartServerURL = getEnv("CART_SERVER_URL", cfg.CartServerURL)
	cfg.LocalCartDir = getEnv("LOCAL_CART_DIR", cfg.LocalCartDir)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
