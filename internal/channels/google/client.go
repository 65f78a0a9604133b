package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ETAnderson/catalogsync/internal/channels"
	"github.com/ETAnderson/catalogsync/internal/domain"
)

const DefaultBaseURL = "https://shoppingcontent.googleapis.com"

// APIError is a non-2xx answer from the Content API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("google api status %d: %s", e.Status, strings.TrimSpace(body))
}

// Is lets callers match a 404 with errors.Is(err, channels.ErrNotFound).
func (e *APIError) Is(target error) bool {
	return target == channels.ErrNotFound && e.Status == http.StatusNotFound
}

func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RatePerSec  float64
	MaxAttempts int
	Backoff     time.Duration
}

// Client talks to the Content API v2.1 products collection. Calls are rate
// limited, and 429/5xx answers are retried up to MaxAttempts.
type Client struct {
	baseURL     string
	http        *http.Client
	tokens      TokenSource
	limiter     *rate.Limiter
	maxAttempts int
	backoff     time.Duration
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Client{
		baseURL:     base,
		http:        &http.Client{Timeout: timeout},
		tokens:      tokens,
		limiter:     rate.NewLimiter(limit, 1),
		maxAttempts: attempts,
		backoff:     backoff,
	}
}

func (c *Client) Name() string { return "google" }

func (c *Client) Insert(ctx context.Context, accountID string, v domain.Variant) error {
	body, err := json.Marshal(NewItem(v))
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, c.productsPath(accountID), body)
}

func (c *Client) Delete(ctx context.Context, accountID string, productKey string) error {
	return c.do(ctx, http.MethodDelete, c.productsPath(accountID)+"/"+url.PathEscape(productKey), nil)
}

func (c *Client) productsPath(accountID string) string {
	return c.baseURL + "/content/v2.1/" + url.PathEscape(accountID) + "/products"
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryAfter, err := c.once(ctx, method, endpoint, body)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return err
		}
		var tokErr *TokenError
		if errors.As(err, &tokErr) && !tokErr.Retryable() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == c.maxAttempts {
			break
		}

		wait := retryAfter
		if wait <= 0 {
			wait = c.backoff * time.Duration(1<<(attempt-1))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

func (c *Client) once(ctx context.Context, method, endpoint string, body []byte) (time.Duration, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, fmt.Errorf("google auth: %w", err)
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return 0, nil
	}

	return parseRetryAfter(resp.Header.Get("Retry-After")), &APIError{
		Status: resp.StatusCode,
		Body:   string(respBody),
	}
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
