package roblox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Request struct {
	Method string
	URL    string
	Header http.Header
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs exactly one HTTP exchange. Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, req *Request, session Session) (*Response, error)
}

// HTTPTransport sends requests with net/http and attaches the session cookie.
type HTTPTransport struct {
	httpClient *http.Client
	log        *zap.Logger
}

func NewHTTPTransport(timeout time.Duration, log *zap.Logger) *HTTPTransport {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, r *Request, session Session) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, nil)
	if err != nil {
		return nil, err
	}
	for k, vals := range r.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	session.apply(req)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roblox api unavailable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	t.log.Debug("roblox request",
		zap.String("method", r.Method),
		zap.String("url", r.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
