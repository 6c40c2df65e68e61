// Package api is the one-shot HTTP layer of the client. Every method
// performs exactly one round-trip against the SmartSpend backend,
// decodes the JSON response into a typed record, and classifies any
// failure. There is no retry, no request queuing and no caching here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartspend/internal/config"
	"smartspend/internal/log"
)

// Client issues requests against the two backend hosts: the core API
// and the auth host the password-reset flow lives on.
type Client struct {
	httpClient *http.Client
	coreBase   string
	authBase   string

	// legacyQueryToken mirrors the deployed backend, which reads the
	// access token from the query string on several routes. The bearer
	// header is always sent; this only adds the ?token= duplicate.
	legacyQueryToken bool
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:       &http.Client{Timeout: cfg.HTTPTimeout},
		coreBase:         strings.TrimRight(cfg.CoreBaseURL, "/"),
		authBase:         strings.TrimRight(cfg.AuthBaseURL, "/"),
		legacyQueryToken: cfg.LegacyTokenInQuery,
	}
}

// request describes one exchange. A nil out skips body decoding.
type request struct {
	method string
	base   string
	path   string
	query  url.Values
	token  string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, req request) error {
	u, err := url.Parse(req.base + req.path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	query := req.query
	if query == nil {
		query = url.Values{}
	}
	if req.token != "" && c.legacyQueryToken && !query.Has("token") && !query.Has("userToken") {
		query.Set("token", req.token)
	}
	u.RawQuery = query.Encode()

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	slog.DebugContext(ctx, "Request started",
		log.FieldRequestID, requestID,
		log.FieldMethod, req.method,
		log.FieldURL, u.Redacted())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.WarnContext(ctx, "Request failed",
			log.FieldRequestID, requestID,
			log.FieldMethod, req.method,
			log.FieldURL, u.Redacted(),
			log.FieldError, err)
		return networkErr(err)
	}
	defer resp.Body.Close()

	durationMs := time.Since(start).Milliseconds()
	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	level := slog.LevelDebug
	if !success {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "Request completed",
		log.FieldRequestID, requestID,
		log.FieldMethod, req.method,
		log.FieldURL, u.Redacted(),
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, durationMs,
		log.FieldSuccess, success)

	if !success {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return serverErr(resp.StatusCode)
	}

	if req.out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return decodeErr(err)
	}
	return nil
}
