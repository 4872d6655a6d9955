// Package gateway provides the HTTP client for the Lovable-style AI gateway
// with error classification, retry, and availability gating.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for gateway operations.
var (
	gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_gateway_requests_total",
		Help: "Total AI gateway requests by model and status",
	}, []string{"model", "status"})

	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursegen_gateway_request_duration_seconds",
		Help:    "AI gateway request duration in seconds by model",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"model"})

	gatewayErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_gateway_errors_total",
		Help: "Total AI gateway errors by class",
	}, []string{"class"})
)

// Default gateway settings matching the hosted Lovable AI gateway.
const (
	DefaultBaseURL   = "https://ai.gateway.lovable.dev"
	DefaultModel     = "google/gemini-2.5-flash"
	DefaultMaxTokens = 4000
)

// Cooldown durations recorded on the availability gate after rejections.
const (
	rateLimitCooldown = 60 * time.Second
	creditsCooldown   = 15 * time.Minute
)

// RequestGate decides whether a gateway request may proceed, and records
// rejections so cooperating processes back off together. See the ratelimit
// package for the Redis-backed implementation.
type RequestGate interface {
	ShouldAllowRequest(ctx context.Context) (bool, error)
	RecordCooldown(ctx context.Context, reason string, d time.Duration) error
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the AI gateway, without trailing slash.
	BaseURL string

	// APIKey sent as a Bearer token. Required.
	APIKey string

	// Model is the default model identifier for completions.
	Model string

	// MaxTokens is the default completion token budget.
	MaxTokens int

	// Timeout for a single HTTP request.
	Timeout time.Duration

	// Retry controls backoff for server and network failures.
	Retry RetryConfig

	// Gate is an optional availability guard consulted before each
	// request. Nil disables gating.
	Gate RequestGate
}

// DefaultConfig returns a configuration for the hosted gateway.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		APIKey:    apiKey,
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
		Timeout:   60 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// Client is the AI gateway client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gateway API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "gateway-client").Logger(),
	}, nil
}

// Prompt describes one completion request. Model and MaxTokens override the
// client defaults when set.
type Prompt struct {
	System    string
	User      string
	Model     string
	MaxTokens int
}

// Wire types for the chat-completions endpoint.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat completion request and returns the raw text content
// of the first choice. Server and network failures are retried with backoff;
// rate-limit (429) and credits (402) rejections surface immediately and
// record a cooldown on the gate when one is configured.
func (c *Client) Complete(ctx context.Context, p Prompt) (string, error) {
	model := p.Model
	if model == "" {
		model = c.config.Model
	}
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	startTime := time.Now()
	defer func() {
		gatewayRequestDuration.WithLabelValues(model).Observe(time.Since(startTime).Seconds())
	}()

	if c.config.Gate != nil {
		allowed, err := c.config.Gate.ShouldAllowRequest(ctx)
		if err != nil {
			// Gate unavailable: proceed rather than fail the request.
			c.logger.Warn().Err(err).Msg("Availability gate check failed")
		} else if !allowed {
			gatewayRequestsTotal.WithLabelValues(model, "gated").Inc()
			c.logger.Warn().Str("model", model).Msg("Request blocked by availability gate")
			return "", fmt.Errorf("%w: a recent rejection is still in effect", ErrCoolingDown)
		}
	}

	body, err := json.Marshal(completionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	var content string
	var lastErr error
	var errClass ErrorClass

	retryErr := retryWithBackoff(ctx, c.logger, c.config.Retry, func() error {
		content = ""

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errClass = classify(0, err)
			gatewayErrorsTotal.WithLabelValues(string(errClass)).Inc()
			gatewayRequestsTotal.WithLabelValues(model, "network_error").Inc()
			c.logger.Error().Err(err).Str("model", model).Msg("Gateway request failed")
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		gatewayRequestsTotal.WithLabelValues(model, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			errClass = classify(resp.StatusCode, nil)
			gatewayErrorsTotal.WithLabelValues(string(errClass)).Inc()

			errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			lastErr = &Error{
				StatusCode: resp.StatusCode,
				Class:      errClass,
				Message:    rejectionMessage(errClass, errText),
			}

			c.logger.Warn().
				Str("model", model).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Gateway request error")

			c.recordRejection(resp, errClass)
			return lastErr
		}

		var completion completionResponse
		if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
			errClass = ErrorClassServer
			lastErr = fmt.Errorf("decode completion response: %w", err)
			return lastErr
		}

		if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
			errClass = ErrorClassServer
			lastErr = ErrEmptyCompletion
			return lastErr
		}

		content = completion.Choices[0].Message.Content
		return nil
	}, func() ErrorClass {
		return errClass
	})

	if retryErr != nil {
		return "", retryErr
	}

	return content, nil
}

// CompleteJSON sends a completion request and extracts the JSON document the
// prompt asked for. Extraction failure is a hard error surfaced to the
// caller; it is never cached upstream.
func (c *Client) CompleteJSON(ctx context.Context, p Prompt) (json.RawMessage, error) {
	content, err := c.Complete(ctx, p)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(content)
}

// recordRejection writes a cooldown to the gate for rejections that affect
// every caller, not just this request. Best-effort.
func (c *Client) recordRejection(resp *http.Response, class ErrorClass) {
	if c.config.Gate == nil {
		return
	}

	var cooldown time.Duration
	switch class {
	case ErrorClassRateLimit:
		cooldown = rateLimitCooldown
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				cooldown = time.Duration(secs) * time.Second
			}
		}
	case ErrorClassCredits:
		cooldown = creditsCooldown
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.config.Gate.RecordCooldown(ctx, string(class), cooldown); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record gateway cooldown")
	}
}

// rejectionMessage renders the user-facing message for a gateway rejection.
func rejectionMessage(class ErrorClass, body []byte) string {
	switch class {
	case ErrorClassRateLimit:
		return "Rate limit exceeded. Please try again later."
	case ErrorClassCredits:
		return "AI credits exhausted. Please add credits to continue."
	default:
		return string(body)
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
