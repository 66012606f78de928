package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/youmna-rabie/rag-gateway/internal/result"
	"github.com/youmna-rabie/rag-gateway/internal/types"
)

// Doer performs one outbound HTTP call. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient is the Service backed by a remote RAG backend.
// It is safe for concurrent use; the Doer is shared by all calls.
type HTTPClient struct {
	baseURL  string
	doer     Doer
	logger   *slog.Logger
	observer Observer
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithLogger sets the logger used for backend faults.
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) { c.logger = logger }
}

// WithObserver registers an Observer for every forwarding call.
func WithObserver(o Observer) Option {
	return func(c *HTTPClient) { c.observer = o }
}

// NewHTTPClient creates a client posting to baseURL+"/query" and baseURL+"/add".
func NewHTTPClient(baseURL string, doer Doer, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefaultDoer returns the shared outbound client used at process start.
func NewDefaultDoer(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Query sends prompt to the backend query endpoint. A 2xx response becomes a
// success carrying the response body and the backend status.
func (c *HTTPClient) Query(ctx context.Context, prompt types.Prompt) (res result.Result[string]) {
	start := time.Now()
	defer func() { c.observe(OpQuery, res.IsSuccess(), res.StatusCode(), start) }()
	defer recoverFault(c.logger, OpQuery, &res)

	resp, f := c.post(ctx, OpQuery, prompt)
	if f != nil {
		return result.Error[string](f.message, f.status)
	}
	defer resp.Body.Close()

	if !isSuccessStatus(resp.StatusCode) {
		drain(resp.Body)
		c.logBackendStatus(ctx, OpQuery, resp.StatusCode)
		return result.ErrorStatus[string](resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("reading backend response failed",
			"operation", OpQuery,
			"error", err,
			"request_id", types.RequestIDFromContext(ctx),
		)
		return result.ErrorStatus[string](result.DefaultErrorStatus)
	}

	return result.Success(string(body), resp.StatusCode)
}

// Add sends prompt to the backend ingestion endpoint. The response body is
// ignored on success.
func (c *HTTPClient) Add(ctx context.Context, prompt types.Prompt) (res result.Result[result.Empty]) {
	start := time.Now()
	defer func() { c.observe(OpAdd, res.IsSuccess(), res.StatusCode(), start) }()
	defer recoverFault(c.logger, OpAdd, &res)

	resp, f := c.post(ctx, OpAdd, prompt)
	if f != nil {
		return result.Error[result.Empty](f.message, f.status)
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if !isSuccessStatus(resp.StatusCode) {
		c.logBackendStatus(ctx, OpAdd, resp.StatusCode)
		return result.ErrorStatus[result.Empty](resp.StatusCode)
	}

	return result.SuccessEmpty()
}

// fault describes a call that produced no backend response.
type fault struct {
	message string
	status  int
}

// post performs the single outbound call for operation. Exactly one of the
// response and the fault is non-nil.
func (c *HTTPClient) post(ctx context.Context, operation string, prompt types.Prompt) (*http.Response, *fault) {
	req, err := c.newRequest(ctx, operation, prompt)
	if err != nil {
		c.logger.Error("building backend request failed", "operation", operation, "error", err)
		return nil, &fault{message: err.Error(), status: result.DefaultErrorStatus}
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Error("backend call failed",
			"operation", operation,
			"url", req.URL.String(),
			"error", err,
			"request_id", types.RequestIDFromContext(ctx),
		)
		return nil, &fault{message: result.DefaultErrorMessage, status: result.DefaultErrorStatus}
	}
	return resp, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, operation string, prompt types.Prompt) (*http.Request, error) {
	body, err := json.Marshal(prompt)
	if err != nil {
		return nil, fmt.Errorf("marshaling prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+operation, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	if id := types.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *HTTPClient) logBackendStatus(ctx context.Context, operation string, status int) {
	c.logger.Warn("backend returned non-success status",
		"operation", operation,
		"backend_status", status,
		"request_id", types.RequestIDFromContext(ctx),
	)
}

func (c *HTTPClient) observe(operation string, success bool, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveForward(operation, success, status, time.Since(start))
}

// recoverFault converts a panic raised during a forwarding call into an
// error result. It must be deferred directly.
func recoverFault[T any](logger *slog.Logger, operation string, res *result.Result[T]) {
	rec := recover()
	if rec == nil {
		return
	}
	logger.Error("panic during backend call", "operation", operation, "error", rec)
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}
	*res = result.FromError[T](err)
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// drain consumes the rest of body so the connection can be reused.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, body)
}
