package roblox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	mu       sync.Mutex
	requests []*Request
	sessions []Session
	handle   func(req *Request) (*Response, error)
}

func (f *fakeTransport) Send(_ context.Context, req *Request, session Session) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.sessions = append(f.sessions, session)
	f.mu.Unlock()
	return f.handle(req)
}

func (f *fakeTransport) calls() []*Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Request, len(f.requests))
	copy(out, f.requests)
	return out
}

type staticTokens struct {
	token string
	err   error
	calls int
}

func (s *staticTokens) Token(_ context.Context, _ Session) (string, error) {
	s.calls++
	return s.token, s.err
}

func newTestClient(transport Transport, tokens TokenProvider) *Client {
	return NewClient("https://groups.example.com/", transport, tokens, zap.NewNop())
}

func jsonResponse(t *testing.T, status int, body any) *Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return &Response{StatusCode: status, Header: http.Header{}, Body: data}
}

func queryOf(t *testing.T, req *Request) url.Values {
	t.Helper()
	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	return u.Query()
}
