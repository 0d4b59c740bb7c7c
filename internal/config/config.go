package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development test production"`
	Server      struct {
		Port            string        `env:"PORT" envDefault:"8080" validate:"required,numeric"`
		ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s" validate:"gt=0"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"120s" validate:"gt=0"`
		IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
		MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"16777216" validate:"gt=0"`
	} `envPrefix:"SERVER_"`
	Log struct {
		Level      string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
		Format     string `env:"FORMAT" envDefault:"text" validate:"oneof=text json"`
		File       string `env:"FILE"`
		MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"100" validate:"gte=0"`
		MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3" validate:"gte=0"`
		MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28" validate:"gte=0"`
	} `envPrefix:"LOG_"`
	Database struct {
		URL string `env:"URL"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Addr     string `env:"ADDR" validate:"omitempty,hostname_port"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0" validate:"gte=0"`
	} `envPrefix:"REDIS_"`
	ReportCacheTTL time.Duration `env:"REPORT_CACHE_TTL" envDefault:"10m" validate:"gt=0"`
	Solver         struct {
		Seed            int64         `env:"SEED" envDefault:"1"`
		Temperatures    []float64     `env:"TEMPERATURES" envDefault:"0.3,0.5,1.0,2.0" validate:"min=1,dive,gt=0"`
		TwoOptMaxPasses int           `env:"TWO_OPT_MAX_PASSES" envDefault:"100" validate:"gt=0"`
		Heuristics      []string      `env:"HEURISTICS" envDefault:"nn-2opt,pnn-2opt" validate:"min=1,dive,required"`
		MaxConcurrent   int           `env:"MAX_CONCURRENT" envDefault:"2" validate:"gt=0"`
		MaxDimension    int           `env:"MAX_DIMENSION" envDefault:"1000" validate:"gt=0,lte=16384"`
		MaxItems        int           `env:"MAX_ITEMS" envDefault:"10000" validate:"gt=0,lte=1048576"`
		Timeout         time.Duration `env:"TIMEOUT" envDefault:"60s" validate:"gte=0"`
	} `envPrefix:"SOLVER_"`
}

// Load parses the process environment. Call godotenv first to pick up .env.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// first error only, keeps the log line readable
			return nil, fmt.Errorf("load config: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of cfg.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("load config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("load config: %w", err)
	}
	return nil
}

func (cfg *Config) IsProduction() bool { return cfg.Environment == "production" }

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
