package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/groupmod/backend/internal/events"
	"go.uber.org/zap"
)

// WebhookForwarder posts a one-line summary of each event to a chat webhook
// accepting {"content": "..."} bodies.
type WebhookForwarder struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

func NewWebhookForwarder(url string, log *zap.Logger) *WebhookForwarder {
	return &WebhookForwarder{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (f *WebhookForwarder) Forward(ctx context.Context, event events.Event) error {
	text := Format(event)
	if text == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Handle adapts Forward to events.Subscriber, logging failures.
func (f *WebhookForwarder) Handle(ctx context.Context) func(stream string, event events.Event) {
	return func(stream string, event events.Event) {
		f.log.Info("forwarding event",
			zap.String("stream", stream),
			zap.String("type", event.Type),
			zap.Int64("group_id", event.GroupID),
		)
		if err := f.Forward(ctx, event); err != nil {
			f.log.Warn("failed to forward event", zap.String("type", event.Type), zap.Error(err))
		}
	}
}

// Format renders event as chat text. Unknown event types render as "".
func Format(event events.Event) string {
	switch event.Type {
	case events.EventMemberBanned:
		return fmt.Sprintf("Group %d: user %s banned by %s",
			event.GroupID, field(event, "target_user_id"), field(event, "operator_id"))
	case events.EventMemberUnbanned:
		return fmt.Sprintf("Group %d: user %s unbanned by %s",
			event.GroupID, field(event, "target_user_id"), field(event, "operator_id"))
	case events.EventAuditEntry:
		return fmt.Sprintf("Group %d: %s by user %s at %s",
			event.GroupID, field(event, "action_type"), field(event, "user_id"),
			event.OccurredAt.UTC().Format(time.RFC3339))
	default:
		return ""
	}
}

// field reads a payload value. Numbers decoded from JSON arrive as float64
// and are printed without an exponent.
func field(event events.Event, key string) string {
	switch v := event.Payload[key].(type) {
	case nil:
		return "?"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
