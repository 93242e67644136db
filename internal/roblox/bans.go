package roblox

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Ban adds target to the group's ban list.
func (c *Client) Ban(ctx context.Context, session Session, group, target int64) error {
	return c.changeBan(ctx, session, http.MethodPost, group, target)
}

// Unban removes target from the group's ban list.
func (c *Client) Unban(ctx context.Context, session Session, group, target int64) error {
	return c.changeBan(ctx, session, http.MethodDelete, group, target)
}

func (c *Client) changeBan(ctx context.Context, session Session, method string, group, target int64) error {
	token, err := c.tokens.Token(ctx, session)
	if err != nil {
		return fmt.Errorf("get csrf token: %w", err)
	}

	header := http.Header{}
	header.Set(CSRFHeader, token)

	resp, err := c.transport.Send(ctx, &Request{
		Method: method,
		URL:    fmt.Sprintf("%s/v1/groups/%d/bans/%d", c.groupsURL, group, target),
		Header: header,
	}, session)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		rerr := newRemoteError(resp)
		c.log.Warn("ban list change rejected",
			zap.String("method", method),
			zap.Int64("group_id", group),
			zap.Int64("target_user_id", target),
			zap.Int("status", resp.StatusCode),
			zap.String("error", rerr.Error()),
		)
		return rerr
	}
	return nil
}
