// Package config содержит логику чтения конфигурации витрины SoleMates.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress      = "localhost:8080"
	defaultAIModel         = "gemini-2.5-flash"
	defaultAIBaseURL       = "https://generativelanguage.googleapis.com"
	defaultAITimeout       = 15 * time.Second
	defaultProcessingDelay = 2 * time.Second
	defaultRedirectDelay   = 3 * time.Second
	defaultIdleTimeout     = 30 * time.Minute
)

// Config содержит параметры конфигурации витрины.
type Config struct {
	RunAddress   string `env:"RUN_ADDRESS"`
	APIKey       string `env:"API_KEY"`
	AIModel      string `env:"AI_MODEL"`
	AIBaseURL    string `env:"AI_BASE_URL"`
	ClientSecret string `env:"CLIENT_SECRET"`

	AITimeout       time.Duration `env:"AI_TIMEOUT"`
	ProcessingDelay time.Duration `env:"CHECKOUT_PROCESSING_DELAY"`
	RedirectDelay   time.Duration `env:"CHECKOUT_REDIRECT_DELAY"`

	ClientIdleTimeout time.Duration `env:"CLIENT_IDLE_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIKey, "k", "", "AI service API key")
	flag.StringVar(&cfg.AIModel, "m", defaultAIModel, "AI model name")
	flag.StringVar(&cfg.AIBaseURL, "u", defaultAIBaseURL, "AI service base URL")
	flag.StringVar(&cfg.ClientSecret, "s", "", "client cookie signing secret (random per run if empty)")
	flag.DurationVar(&cfg.AITimeout, "ai-timeout", defaultAITimeout, "AI request timeout")
	flag.DurationVar(&cfg.ProcessingDelay, "processing-delay", defaultProcessingDelay, "simulated payment processing delay")
	flag.DurationVar(&cfg.RedirectDelay, "redirect-delay", defaultRedirectDelay, "delay before leaving the success screen")
	flag.DurationVar(&cfg.ClientIdleTimeout, "client-idle-timeout", defaultIdleTimeout, "idle time after which a client state is dropped")

	flag.Parse()

	overrideString(&cfg.RunAddress, fromEnv.RunAddress)
	overrideString(&cfg.APIKey, fromEnv.APIKey)
	overrideString(&cfg.AIModel, fromEnv.AIModel)
	overrideString(&cfg.AIBaseURL, fromEnv.AIBaseURL)
	overrideString(&cfg.ClientSecret, fromEnv.ClientSecret)
	overrideDuration(&cfg.AITimeout, fromEnv.AITimeout)
	overrideDuration(&cfg.ProcessingDelay, fromEnv.ProcessingDelay)
	overrideDuration(&cfg.RedirectDelay, fromEnv.RedirectDelay)
	overrideDuration(&cfg.ClientIdleTimeout, fromEnv.ClientIdleTimeout)

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.AIModel == "" {
		cfg.AIModel = defaultAIModel
	}
	if cfg.ProcessingDelay < 0 || cfg.RedirectDelay < 0 {
		return nil, fmt.Errorf("checkout delays must not be negative")
	}
	if cfg.ClientIdleTimeout <= 0 {
		return nil, fmt.Errorf("client idle timeout must be positive")
	}

	return cfg, nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overrideDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
