package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

var errBodyTooLarge = fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)

var (
	readStatuses  = []int{http.StatusOK}
	writeStatuses = []int{http.StatusOK, http.StatusCreated}
)

// Transport issues JSON requests against the slot API base URL. It never
// retries: a failed call is reported to the caller as is.
type Transport struct {
	baseURL string
	logger  *slog.Logger
	client  *http.Client
}

// NewTransport creates a Transport with the given per-request timeout.
func NewTransport(baseURL string, timeout time.Duration, logger *slog.Logger) *Transport {
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
	}
}

// get issues a read; only 200 is accepted.
func (t *Transport) get(ctx context.Context, op, path string, query url.Values) (object, error) {
	target := t.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	return t.do(op, req, readStatuses)
}

// post issues a write with a JSON body; 200 and 201 are accepted.
func (t *Transport) post(ctx context.Context, op, path string, body any) (object, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(op, req, writeStatuses)
}

func (t *Transport) do(op string, req *http.Request, accept []int) (object, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, domain.ErrTransport(op, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	t.logger.Debug("slot api call",
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	if err != nil {
		return nil, domain.ErrTransport(op, 0, fmt.Errorf("read body: %w", err))
	}

	if len(raw) > maxBodyBytes {
		return nil, domain.ErrTransport(op, resp.StatusCode, errBodyTooLarge)
	}
	if !slices.Contains(accept, resp.StatusCode) {
		return nil, domain.ErrTransport(op, resp.StatusCode, fmt.Errorf("body: %s", truncate(raw, 256)))
	}

	var body object
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.ErrSchema(op, "$", "is not a JSON object")
	}
	if body == nil {
		return nil, domain.ErrSchema(op, "$", "is null")
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
