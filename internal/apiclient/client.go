// Package apiclient talks to the museum's REST API. It owns bearer-token
// attachment, structured error extraction, and the transparent refresh-on-401
// retry: a request carrying an expired access token is retried exactly once
// after a single-flight refresh of the token pair.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"museovini/internal/config"
	"museovini/internal/domain"
	"museovini/internal/metrics"
	"museovini/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const refreshPath = "/token/refresh"

// Client issues requests against the museum API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	creds     domain.CredentialStore
	limiter   *rate.Limiter
	logger    *zerolog.Logger
	userAgent string

	// Concurrent 401 handlers converge on one in-flight refresh; every
	// waiter observes the same outcome.
	refreshGroup singleflight.Group
}

// Options configures a single request.
type Options struct {
	Method string      // defaults to GET
	Body   interface{} // JSON-encoded when non-nil
	Form   url.Values  // form-encoded body; takes precedence over Body
	Header http.Header // extra headers
	Auth   bool        // attach the access token and refresh on 401

	// noRetry marks the one retry issued after a refresh, so a request is
	// never retried twice.
	noRetry bool
}

func New(cfg config.APIConfig, creds domain.CredentialStore, logger *zerolog.Logger) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	burst := 0
	if cfg.RateLimit.RPS > 0 {
		limit = rate.Limit(cfg.RateLimit.RPS)
		burst = cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 5
		}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		creds:     creds,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
		userAgent: cfg.UserAgent,
	}, nil
}

// Request issues the call and returns the raw JSON body. A 204 response
// resolves to nil. Non-2xx responses produce an *HTTPError; failures before
// any response produce a *TransportError.
func (c *Client) Request(ctx context.Context, path string, opt Options) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := c.newRequest(ctx, path, opt)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncAPIRequest(req.Method, "error")
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.IncAPIRequest(req.Method, statusClass(resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized && opt.Auth && !opt.noRetry {
		if _, err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		retry := opt
		retry.noRetry = true
		c.logger.Debug().Str("path", path).Msg("retrying request with refreshed token")
		return c.Request(ctx, path, retry)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractErrorMessage(body, resp.Status)
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", message).Msg("api error response")
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: message}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	return json.RawMessage(body), nil
}

// RequestJSON issues the call and decodes the response into dest. A nil dest
// discards the body.
func (c *Client) RequestJSON(ctx context.Context, path string, opt Options, dest interface{}) error {
	raw, err := c.Request(ctx, path, opt)
	if err != nil {
		return err
	}
	if dest == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string, opt Options) (*http.Request, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	// Paths are appended to the configured base so a base_url with a prefix
	// (e.g. https://host/api) keeps working.
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + "/" + strings.TrimPrefix(rel.Path, "/")
	reqURL.RawQuery = rel.RawQuery

	method := opt.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload io.Reader
	contentType := ""
	switch {
	case opt.Form != nil:
		payload = strings.NewReader(opt.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case opt.Body != nil:
		data, err := json.Marshal(opt.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range opt.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	if opt.Auth {
		token, err := c.creds.AccessToken(ctx)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// refreshAccessToken exchanges the stored refresh token for a new pair.
// Concurrent callers share a single in-flight exchange. On any failure the
// stored tokens are cleared and every waiter receives the same *AuthError.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	token, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		refresh, err := c.creds.RefreshToken(ctx)
		if err != nil || refresh == "" {
			metrics.IncTokenRefresh("failure")
			_ = c.creds.ClearTokens(ctx)
			return nil, &AuthError{Message: "no refresh token available", Err: err}
		}

		var pair models.TokenPair
		opt := Options{
			Method:  http.MethodPost,
			Body:    map[string]string{"refresh_token": refresh},
			noRetry: true,
		}
		if err := c.RequestJSON(ctx, refreshPath, opt, &pair); err != nil {
			metrics.IncTokenRefresh("failure")
			_ = c.creds.ClearTokens(ctx)
			c.logger.Warn().Err(err).Msg("token refresh failed, clearing stored tokens")
			return nil, &AuthError{Message: "unable to refresh access token", Err: err}
		}

		if err := c.creds.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
			c.logger.Warn().Err(err).Msg("failed to persist refreshed tokens")
		}
		metrics.IncTokenRefresh("success")
		c.logger.Debug().Msg("access token refreshed")
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code <= 299:
		return "2xx"
	case code >= 400 && code <= 499:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "other"
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api base_url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
