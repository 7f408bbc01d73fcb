// Package client implements the MehsifAI transport: one call submits a
// prompt, one call downloads the generated model container. Each method
// performs exactly one outbound request — no retries, no caching.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/0xRetroDev/mehsifai-go/internal/tlsutil"
	"github.com/0xRetroDev/mehsifai-go/types"
)

// Client talks to the MehsifAI generation API.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a transport client. A nil logger falls back to zap's
// production logger.
func New(cfg Config, logger *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}
	return &Client{
		cfg:     cfg,
		client:  tlsutil.SecureHTTPClient(cfg.Timeout),
		limiter: limiter,
		logger:  logger.With(zap.String("component", "client")),
	}
}

// Submit posts a generation request. The prompt is sent raw; variance is
// clamped into [0, 1] and encoded with one fraction digit per the wire
// protocol. An empty prompt is rejected before any I/O.
func (c *Client) Submit(ctx context.Context, prompt string, variance float64) (*types.GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewError(types.ErrInvalidInput, "Prompt cannot be empty")
	}
	variance = types.ClampVariance(variance)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, types.NewError(types.ErrTransport, "request throttled").WithCause(err)
		}
	}

	form := url.Values{}
	form.Set("prompt", prompt)
	form.Set("variance", strconv.FormatFloat(variance, 'f', 1, 64))

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "failed to create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "generation request failed").WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("generation endpoint returned status %d", resp.StatusCode)
		if body := strings.TrimSpace(string(errBody)); body != "" {
			msg = fmt.Sprintf("%s: %s", msg, body)
		}
		return nil, types.NewError(types.ErrTransport, msg).
			WithHTTPStatus(resp.StatusCode).
			WithRetryable(resp.StatusCode >= 500)
	}

	var result types.GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, types.NewError(types.ErrParse, "failed to decode generation response").WithCause(err)
	}

	c.logger.Debug("prompt submitted",
		zap.Bool("success", result.Success),
		zap.Int("hourly_remaining", result.RateLimit.HourlyRemaining),
		zap.Int("burst_remaining", result.RateLimit.BurstRemaining),
	)
	return &result, nil
}

// Download fetches the binary model container from rawURL. A zero-length
// body is a success at this layer; the pipeline decides what to do with it.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, types.NewError(types.ErrInvalidInput, "download URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "failed to create request").WithCause(err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "model download failed").WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewError(types.ErrTransport,
			fmt.Sprintf("download endpoint returned status %d", resp.StatusCode)).
			WithHTTPStatus(resp.StatusCode).
			WithRetryable(resp.StatusCode >= 500)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "failed to read model payload").WithCause(err).WithRetryable(true)
	}

	c.logger.Debug("model downloaded", zap.Int("bytes", len(data)))
	return data, nil
}
