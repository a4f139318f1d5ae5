// Package genai предоставляет клиент генерации описаний товаров через внешний AI-сервис.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mmeshcher/solemates/internal/metrics"
)

// Тексты, которые получает вызывающая сторона вместо ошибки.
const (
	FallbackUnconfigured = "AI generation unavailable. Please check your API key."
	FallbackEmpty        = "Could not generate description."
	FallbackError        = "Error communicating with AI service."
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 15 * time.Second
)

const breakerName = "genai"

var errEmptyResponse = errors.New("empty model response")

// Config параметры клиента.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client инкапсулирует HTTP-взаимодействие с AI-сервисом.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	apiKey  string
	model   string
	logger  *zap.Logger
}

// NewClient создаёт клиент. Пустой APIKey допустим: Generate тогда сразу возвращает FallbackUnconfigured.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errEmptyResponse)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			logger.Warn("circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		http:    httpClient,
		breaker: breaker,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}
}

// Configured сообщает, задан ли ключ API.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Generate возвращает описание товара. Ошибки не пробрасываются: вместо них
// возвращается один из Fallback-текстов, а причина пишется в лог.
func (c *Client) Generate(ctx context.Context, name, category, keywords string) string {
	if !c.Configured() {
		if c != nil {
			c.logger.Warn("AI API key missing")
		}
		metrics.DescriptionsTotal.WithLabelValues("unconfigured").Inc()
		return FallbackUnconfigured
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, BuildPrompt(name, category, keywords))
	})
	if err != nil {
		if errors.Is(err, errEmptyResponse) {
			metrics.DescriptionsTotal.WithLabelValues("empty").Inc()
			return FallbackEmpty
		}
		c.logger.Error("AI description request failed", zap.Error(err), zap.String("product", name))
		metrics.DescriptionsTotal.WithLabelValues("error").Inc()
		return FallbackError
	}

	metrics.DescriptionsTotal.WithLabelValues("ok").Inc()
	return res.(string)
}

// BuildPrompt формирует запрос к модели.
func BuildPrompt(name, category, keywords string) string {
	return fmt.Sprintf(`Write a compelling, short e-commerce product description (max 2 sentences) for a shoe named %q.
Category: %s.
Key features/vibes: %s.
Tone: Professional, energetic, and premium.`, name, category, keywords)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode())
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
