package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	pkgLog "todofast/pkg/log"
)

// Client is the HTTP implementation of Gateway against the backend REST
// API. Background traffic (reconciles, polls) passes a rate limiter so it
// cannot starve interactive calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	l          pkgLog.Logger
}

var _ Gateway = &Client{}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// BackgroundRPS limits calls made under a background context.
	// Zero disables the limiter.
	BackgroundRPS float64
}

// NewClient creates a backend API client.
func NewClient(cfg Config, l pkgLog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.BackgroundRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.BackgroundRPS), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		l:          l,
	}
}

type bgKey struct{}

// AsBackground marks ctx so calls made under it pass the background rate
// limiter. Reconciliation and polling use it; interactive calls do not.
func AsBackground(ctx context.Context) context.Context {
	return context.WithValue(ctx, bgKey{}, true)
}

// IsBackground reports whether ctx carries the background mark.
func IsBackground(ctx context.Context) bool {
	v, _ := ctx.Value(bgKey{}).(bool)
	return v
}

// call performs one JSON round trip. body and out may be nil. Non-2xx
// statuses become classified *Error values.
func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	if c.limiter != nil && IsBackground(ctx) {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Kind: ErrKindNetwork, Op: op, Err: err}
		}
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Kind: ErrKindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &Error{
			Kind:   classifyStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Op:     op,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(raw))),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func classifyStatus(status int) ErrKind {
	switch {
	case status == http.StatusNotFound:
		return ErrKindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrKindAuth
	case status >= 400 && status < 500:
		return ErrKindValidation
	default:
		return ErrKindServer
	}
}
