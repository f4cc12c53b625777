package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
)

type API interface {
	Myself(ctx context.Context) (User, error)
	Users(ctx context.Context) ([]User, error)
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)
	Issue(ctx context.Context, id string) (Issue, error)
}

type Options struct {
	BaseURL string
	Email   string
	Token   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
	log     zerolog.Logger

	maxRetries uint64
	backoff    time.Duration
}

// APIError is a non-2xx response. Messages holds errorMessages followed by
// the field errors, in key order.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiErr
	}
	for _, msg := range parsed.ErrorMessages {
		if strings.TrimSpace(msg) != "" {
			apiErr.Messages = append(apiErr.Messages, msg)
		}
	}
	keys := make([]string, 0, len(parsed.Errors))
	for key := range parsed.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s: %s", key, parsed.Errors[key]))
	}
	return apiErr
}

func NewClient(opts Options) API {
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		email:   opts.Email,
		token:   opts.Token,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		log:        opts.Logger,
		maxRetries: 3,
		backoff:    300 * time.Millisecond,
	}
}

func (c *Client) apiURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.baseURL == "" {
		return errors.New("no Jira base URL configured")
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}
	u := c.apiURL(path, query)

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.attempt(ctx, method, u, payload, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.retryable() {
			c.log.Debug().Int("status", apiErr.StatusCode).Str("url", u).Msg("jira request will be retried")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) attempt(ctx context.Context, method, u string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("method", method).
		Str("url", u).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("jira request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	token := normalizeToken(c.token)
	if token == "" {
		return
	}
	if c.email != "" {
		req.SetBasicAuth(c.email, token)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func normalizeToken(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "bearer ") {
		return strings.TrimSpace(trimmed[7:])
	}
	return trimmed
}
