package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout  time.Duration
	RetryMax int
	// RequestsPerSecond limits outgoing requests, 0 means unlimited
	RequestsPerSecond float64
}

// DefaultClient implements the Client interface on top of a retrying
// http client. Connection errors and 5xx responses are retried.
type DefaultClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewDefaultClient creates a new DefaultClient
func NewDefaultClient(cfg ClientConfig, log *logger.Logger) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	if rc.HTTPClient.Timeout <= 0 {
		rc.HTTPClient.Timeout = 30 * time.Second
	}
	rc.Logger = leveledLogger{log: log}

	c := &DefaultClient{client: rc}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Request was cancelled while waiting for the rate limiter").
				Mark(ierr.ErrHTTPClient)
		}
	}

	var body interface{}
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Remote service is unavailable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the remote response").
			Mark(ierr.ErrHTTPClient)
	}

	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, NewError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}

// leveledLogger adapts the zap logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
