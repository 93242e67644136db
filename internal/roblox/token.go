package roblox

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CSRFHeader carries the anti-forgery token on mutating requests.
const CSRFHeader = "X-CSRF-TOKEN"

var ErrTokenUnavailable = errors.New("csrf token unavailable")

// TokenProvider issues the anti-forgery token bound to a session.
type TokenProvider interface {
	Token(ctx context.Context, session Session) (string, error)
}

// HTTPTokenProvider obtains a token from the x-csrf-token header the auth
// service returns on an unauthenticated-by-token POST. When the header is
// missing it scrapes the csrf meta tag from the web home page.
type HTTPTokenProvider struct {
	transport Transport
	authURL   string
	webURL    string
	log       *zap.Logger
}

func NewHTTPTokenProvider(transport Transport, authURL, webURL string, log *zap.Logger) *HTTPTokenProvider {
	return &HTTPTokenProvider{
		transport: transport,
		authURL:   strings.TrimRight(authURL, "/"),
		webURL:    strings.TrimRight(webURL, "/"),
		log:       log,
	}
}

func (p *HTTPTokenProvider) Token(ctx context.Context, session Session) (string, error) {
	resp, err := p.transport.Send(ctx, &Request{
		Method: http.MethodPost,
		URL:    p.authURL + "/v2/logout",
	}, session)
	if err != nil {
		return "", err
	}
	if token := resp.Header.Get(CSRFHeader); token != "" {
		return token, nil
	}

	p.log.Debug("csrf header missing, falling back to home page",
		zap.Int("status", resp.StatusCode),
	)
	return p.scrapeToken(ctx, session)
}

func (p *HTTPTokenProvider) scrapeToken(ctx context.Context, session Session) (string, error) {
	resp, err := p.transport.Send(ctx, &Request{
		Method: http.MethodGet,
		URL:    p.webURL + "/home",
	}, session)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: home page returned %d", ErrTokenUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("parse home page: %w", err)
	}

	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("data-token")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", ErrTokenUnavailable
	}
	return token, nil
}

// CachedTokenProvider keeps tokens in Redis per session so repeated
// mutations from the same session reuse one token until it expires.
type CachedTokenProvider struct {
	next TokenProvider
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedTokenProvider(next TokenProvider, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedTokenProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedTokenProvider{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (p *CachedTokenProvider) Token(ctx context.Context, session Session) (string, error) {
	key := tokenCacheKey(session)

	token, err := p.rdb.Get(ctx, key).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		// fail open
		p.log.Warn("csrf cache read failed", zap.Error(err))
	}

	token, err = p.next.Token(ctx, session)
	if err != nil {
		return "", err
	}

	if err := p.rdb.Set(ctx, key, token, p.ttl).Err(); err != nil {
		p.log.Warn("csrf cache write failed", zap.Error(err))
	}
	return token, nil
}

// Invalidate drops the cached token for the session.
func (p *CachedTokenProvider) Invalidate(ctx context.Context, session Session) error {
	return p.rdb.Del(ctx, tokenCacheKey(session)).Err()
}

func tokenCacheKey(session Session) string {
	sum := sha256.Sum256([]byte(session.Cookie))
	return "csrf:" + hex.EncodeToString(sum[:16])
}
