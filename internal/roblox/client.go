package roblox

import (
	"strings"

	"go.uber.org/zap"
)

// Client talks to the groups API. It holds no credentials; every call takes
// the Session it should act as.
type Client struct {
	groupsURL string
	transport Transport
	tokens    TokenProvider
	log       *zap.Logger
}

func NewClient(groupsURL string, transport Transport, tokens TokenProvider, log *zap.Logger) *Client {
	return &Client{
		groupsURL: strings.TrimRight(groupsURL, "/"),
		transport: transport,
		tokens:    tokens,
		log:       log,
	}
}
