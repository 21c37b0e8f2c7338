// Package signaturit talks to the provider's branding API through the relay.
//
// Every call is a POST to the relay. The real target URL, method and access
// token travel in headers:
//
//	x-signaturit-token  access token
//	x-api-url           environment base URL + path
//	x-method-override   GET or PATCH (absent for POST)
package signaturit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
)

// Header names understood by the relay.
const (
	HeaderToken          = "x-signaturit-token"
	HeaderAPIURL         = "x-api-url"
	HeaderMethodOverride = "x-method-override"
)

const formContentType = "application/x-www-form-urlencoded"

// Client implements branding.Store over the relay.
type Client struct {
	relayURL    string
	token       string
	environment Environment
	http        *http.Client
	logger      *slog.Logger
	recorder    metrics.Recorder
	retry       retry.Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(cl *Client) { cl.recorder = r }
}

// WithRetryPolicy retries reads that fail at the network level.
func WithRetryPolicy(p retry.Policy) Option {
	return func(cl *Client) { cl.retry = p }
}

// NewClient creates a client that reaches env through relayURL.
func NewClient(relayURL, token string, env Environment, opts ...Option) (*Client, error) {
	if _, err := validateURL(relayURL); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid relay URL").
			WithContext("relay_url", relayURL).
			Build()
	}
	if strings.TrimSpace(token) == "" {
		return nil, ferrors.AuthError("an access token is required").Build()
	}

	c := &Client{
		relayURL:    relayURL,
		token:       strings.TrimSpace(token),
		environment: env,
		logger:      slog.Default(),
		recorder:    metrics.NoopRecorder{},
		retry:       retry.None(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(0)
	}
	return c, nil
}

// Environment returns the environment the client targets.
func (c *Client) Environment() Environment {
	return c.environment
}

// List returns every branding of the account.
func (c *Client) List(ctx context.Context) ([]branding.Branding, error) {
	var out []branding.Branding
	err := c.read(ctx, "list", "/brandings.json", func() any {
		out = nil
		return &out
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one branding including its templates.
func (c *Client) Get(ctx context.Context, id string) (*branding.Branding, error) {
	var out branding.Branding
	err := c.read(ctx, "get", brandingPath(id), func() any {
		out = branding.Branding{}
		return &out
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new branding and returns its identifier.
func (c *Client) Create(ctx context.Context, req branding.CreateRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, "create", http.MethodPost, "/brandings.json", strings.NewReader(req.Form().Encode()), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ferrors.RemoteError("create response did not include an id").Build()
	}
	return out.ID, nil
}

// Update replaces one template and the colours of branding id.
func (c *Client) Update(ctx context.Context, id string, req branding.UpdateRequest) error {
	return c.call(ctx, "update", http.MethodPatch, brandingPath(id), strings.NewReader(req.Form().Encode()), nil)
}

// read issues an idempotent GET, retrying network failures. target is
// called before every attempt to reset the decode destination.
func (c *Client) read(ctx context.Context, operation, path string, target func() any) error {
	isTransient := func(err error) bool { return ferrors.HasCategory(err, ferrors.CategoryNetwork) }
	return retry.Do(ctx, c.retry, isTransient, func() error {
		return c.call(ctx, operation, http.MethodGet, path, nil, target())
	})
}

func brandingPath(id string) string {
	return "/brandings/" + id + ".json"
}

func (c *Client) call(ctx context.Context, operation, method, path string, body io.Reader, out any) (err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.recorder.ObserveRemoteCall(operation, elapsed, err == nil)
		attrs := []slog.Attr{
			logfields.Operation(operation),
			logfields.Environment(string(c.environment)),
			logfields.DurationMS(float64(elapsed.Milliseconds())),
		}
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "Branding API call failed", append(attrs, logfields.Error(err))...)
			return
		}
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Branding API call", attrs...)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "build relay request").Build()
	}
	req.Header.Set(HeaderToken, c.token)
	req.Header.Set(HeaderAPIURL, c.environment.BaseURL()+path)
	req.Header.Set("Accept", "application/json")
	if method != http.MethodPost {
		req.Header.Set(HeaderMethodOverride, method)
	}
	if body != nil {
		req.Header.Set("Content-Type", formContentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "relay request failed").
			WithRetry(ferrors.RetryManual).
			WithContext("operation", operation).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := ReadLimited(resp.Body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "read relay response").
			WithRetry(ferrors.RetryManual).
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ferrors.RemoteError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))).
			WithContext("status", resp.StatusCode).
			WithContext("operation", operation).
			Build()
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRemote, "decode branding API response").
			WithContext("operation", operation).
			Build()
	}
	return nil
}
