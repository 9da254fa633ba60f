// Package api is the HTTP client for the CineMemory backend. It owns request
// construction, auth header attachment, response parsing and error
// normalization; every transport or application failure callers see is a
// *models.APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cinememory/models"

	"github.com/google/uuid"
)

// TokenSource yields the current auth token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly useful in tests and one-shot tools.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Config configures a Client. Zero fields fall back to defaults.
type Config struct {
	BaseURL string
	// AuthScheme is "Bearer" or "Token"; deployments have used both.
	AuthScheme string
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *Metrics
	Endpoints  *Endpoints
}

// Client talks to the CineMemory backend.
type Client struct {
	baseURL    string
	authScheme string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	endpoints  Endpoints
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		authScheme: cfg.AuthScheme,
		tokens:     cfg.Tokens,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
	if c.authScheme == "" {
		c.authScheme = "Bearer"
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.Endpoints != nil {
		c.endpoints = *cfg.Endpoints
	} else {
		c.endpoints = DefaultEndpoints()
	}
	return c
}

// request performs one HTTP round trip and parses the response body.
// Non-2xx statuses and transport failures both come back as *models.APIError;
// a transport failure carries status 0 so callers never see raw net errors.
func (c *Client) request(ctx context.Context, method, path string, body any) (any, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, models.NewValidationError("요청 데이터를 변환할 수 없습니다.")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, models.NewValidationError("잘못된 요청 경로입니다.")
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", c.authScheme+" "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start, requestID, err)
		return nil, models.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, 0, start, requestID, err)
		return nil, models.NewNetworkError(err)
	}
	c.observe(method, path, resp.StatusCode, start, requestID, nil)

	data, parseErr := parseBody(resp.Header.Get("Content-Type"), raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewAPIError(resp.StatusCode, errorMessage(data, resp.StatusCode))
	}
	if parseErr != nil {
		return nil, models.NewParseError(parseErr)
	}
	return data, nil
}

// parseBody interprets a response body by declared content type. Non-JSON
// bodies become strings, with HTML error pages collapsed to a generic
// server-failure message so stack traces never reach the UI.
func parseBody(contentType string, raw []byte) (any, error) {
	if strings.Contains(contentType, "application/json") {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	}

	text := string(raw)
	if strings.Contains(text, "<!DOCTYPE html>") || strings.Contains(text, "<html") {
		return models.MsgServerFailure, nil
	}
	return text, nil
}

// errorMessage digs the human-readable message out of an error payload.
// Django-era responses have used "message", "error" and "detail".
func errorMessage(data any, status int) string {
	switch v := data.(type) {
	case map[string]any:
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
	case string:
		if v != "" {
			return v
		}
	}
	if status >= 500 {
		return models.MsgServerFailure
	}
	return "요청에 실패했습니다."
}

func (c *Client) observe(method, path string, status int, start time.Time, requestID string, err error) {
	latency := time.Since(start)
	if c.metrics != nil {
		c.metrics.observe(method, status, latency)
	}
	fields := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("request_id", requestID),
	}
	if err != nil {
		fields = append(fields, slog.String("error", err.Error()))
		c.logger.Error("request failed", fields...)
	} else {
		c.logger.Info("request processed", fields...)
	}
}

func (c *Client) get(ctx context.Context, path string) (any, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (any, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (any, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

func (c *Client) delete(ctx context.Context, path string, body any) (any, error) {
	return c.request(ctx, http.MethodDelete, path, body)
}

// isParseError reports whether err is the malformed-body case. Idempotent
// list reads treat it as an empty result; mutations surface it.
func isParseError(err error) bool {
	var apiErr *models.APIError
	return errors.As(err, &apiErr) && apiErr.Code == "PARSE_ERROR"
}

func asObject(data any) map[string]any {
	if obj, ok := data.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func asList(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	case map[string]any:
		// Django pagination wraps lists in {results: [...]}.
		if results, ok := v["results"].([]any); ok {
			return results
		}
	}
	return nil
}
