package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/virtops/proxmox-client/internal/metrics"
)

// Executor performs instrumented HTTP execution: one attempt per call, with
// structured logging, latency tracking and Prometheus counters. Retries are
// deliberately absent; failures surface unchanged to the caller.
type Executor struct {
	logger *zap.Logger
	http   *http.Client
	tag    string
}

// New creates an Executor. tag prefixes log event names.
func New(logger *zap.Logger, httpClient *http.Client, tag string) *Executor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Executor{
		logger: logger,
		http:   httpClient,
		tag:    tag,
	}
}

// Do executes req once and returns the status code and the full response body.
// The error is non-nil only for network/TLS/read failures; HTTP status codes,
// including 4xx and 5xx, are the caller's to interpret.
func (e *Executor) Do(ctx context.Context, req *http.Request) (int, []byte, error) {
	reqID := uuid.NewString()
	start := time.Now()

	resp, err := e.http.Do(req.WithContext(ctx))
	if err != nil {
		e.logger.Warn(e.tag+".http_failed",
			zap.String("request_id", reqID),
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Error(err))
		metrics.IncRequest(req.Method, "error")
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.IncRequest(req.Method, strconv.Itoa(resp.StatusCode))
	metrics.ObserveRequest(req.Method, elapsed)
	if err != nil {
		e.logger.Warn(e.tag+".read_failed",
			zap.String("request_id", reqID),
			zap.String("url", req.URL.Redacted()),
			zap.Error(err))
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	e.logger.Debug(e.tag+".http_done",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return resp.StatusCode, body, nil
}
