package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID            string
	HTTPPort             int
	GRPCPort             int
	DatabaseURL          string
	DatabaseMaxConns     int
	RedisURL             string
	KafkaBrokers         []string
	KafkaTopic           string
	Arbitrators          []string
	DefaultRating        int
	IdempotencyTTL       time.Duration
	OutboxFlushInterval  time.Duration
	OutboxFlushBatchSize int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		DatabaseURL  string   `yaml:"database_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"dependencies"`
	Escrow struct {
		Arbitrators   []string `yaml:"arbitrators"`
		DefaultRating int      `yaml:"default_rating"`
	} `yaml:"escrow"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "escrow-engine",
		HTTPPort:             8080,
		GRPCPort:             9090,
		DatabaseMaxConns:     25,
		KafkaTopic:           "escrow.events",
		DefaultRating:        5,
		IdempotencyTTL:       7 * 24 * time.Hour,
		OutboxFlushInterval:  2 * time.Second,
		OutboxFlushBatchSize: 100,
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		cfg.DatabaseURL = f.Dependencies.DatabaseURL
		cfg.RedisURL = f.Dependencies.RedisURL
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Dependencies.KafkaTopic != "" {
			cfg.KafkaTopic = f.Dependencies.KafkaTopic
		}
		if len(f.Escrow.Arbitrators) > 0 {
			cfg.Arbitrators = f.Escrow.Arbitrators
		}
		if f.Escrow.DefaultRating > 0 {
			cfg.DefaultRating = f.Escrow.DefaultRating
		}
	}
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseMaxConns = envInt("DATABASE_MAX_CONNS", cfg.DatabaseMaxConns)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	if brokers := envList("KAFKA_BROKERS"); len(brokers) > 0 {
		cfg.KafkaBrokers = brokers
	}
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	if arbitrators := envList("ESCROW_ARBITRATORS"); len(arbitrators) > 0 {
		cfg.Arbitrators = arbitrators
	}
	cfg.DefaultRating = envInt("ESCROW_DEFAULT_RATING", cfg.DefaultRating)
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.OutboxFlushInterval = time.Duration(envInt("OUTBOX_FLUSH_SECONDS", int(cfg.OutboxFlushInterval.Seconds()))) * time.Second
	cfg.OutboxFlushBatchSize = envInt("OUTBOX_FLUSH_BATCH_SIZE", cfg.OutboxFlushBatchSize)
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envList(name string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
