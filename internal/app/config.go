package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/pschema/internal/backend/s3"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "PSCHEMA_"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SchemaPath string // .hcl file or directory
	RootShape  string // optional; overrides the root attribute of the schema files
	InputURI   string
	OutputURI  string // optional
	ReportPath string // optional; "-" writes to the app output

	Workers       int
	MaxSupersteps int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	S3 s3.Config
}

// EnvConfig is the part of Config that can be set from the environment.
type EnvConfig struct {
	Workers         int       `env:"WORKERS"`
	MaxSupersteps   int       `env:"MAX_SUPERSTEPS"`
	LogFormat       string    `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel        string    `env:"LOG_LEVEL" envDefault:"info"`
	HealthcheckPort int       `env:"HEALTHCHECK_PORT"`
	S3              s3.Config `envPrefix:"S3_"`
}

// LoadEnvConfig reads PSCHEMA_* variables from the process environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SchemaPath == "" {
		return nil, errors.New("SchemaPath is a required configuration field and cannot be empty")
	}
	if cfg.InputURI == "" {
		return nil, errors.New("InputURI is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.MaxSupersteps < 0 {
		return nil, fmt.Errorf("max supersteps must not be negative, got %d", cfg.MaxSupersteps)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
