package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SortOrder string

const (
	SortAsc  SortOrder = "Asc"
	SortDesc SortOrder = "Desc"
)

const DefaultAuditLimit = 100

type AuditLogQuery struct {
	Group      int64
	ActionType ActionType // empty or ActionAll selects every action
	UserID     int64      // 0 means no actor filter
	SortOrder  SortOrder
	Limit      int
	Cursor     string
}

func (q AuditLogQuery) withDefaults() AuditLogQuery {
	if q.SortOrder == "" {
		q.SortOrder = SortAsc
	}
	if q.Limit <= 0 {
		q.Limit = DefaultAuditLimit
	}
	return q
}

func (q AuditLogQuery) aggregate() bool {
	return q.ActionType == "" || q.ActionType == ActionAll
}

type AuditActorUser struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type AuditActorRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Rank int    `json:"rank"`
}

type AuditActor struct {
	User AuditActorUser  `json:"user"`
	Role *AuditActorRole `json:"role,omitempty"`
}

// AuditLogEntry is one administrative action. Created has whole-second precision.
type AuditLogEntry struct {
	ActionType  string          `json:"actionType"`
	UserID      int64           `json:"userId"`
	Actor       *AuditActor     `json:"actor,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	Created     time.Time       `json:"created"`
}

type AuditPage struct {
	PreviousPageCursor string          `json:"previousPageCursor"`
	NextPageCursor     string          `json:"nextPageCursor"`
	Entries            []AuditLogEntry `json:"data"`
}

type wireAuditEntry struct {
	ActionType  string          `json:"actionType"`
	UserID      int64           `json:"userId"`
	Actor       *AuditActor     `json:"actor"`
	Description json.RawMessage `json:"description"`
	Created     string          `json:"created"`
}

type wireAuditPage struct {
	PreviousPageCursor *string          `json:"previousPageCursor"`
	NextPageCursor     *string          `json:"nextPageCursor"`
	Data               []wireAuditEntry `json:"data"`
}

// GetAuditLog returns one page of the group's audit log.
//
// With a specific action type a single request is made and entries keep the
// order the API returned. Without one (or with ActionAll) three requests are
// made: unfiltered, joinGroup and leaveGroup, because the unfiltered query
// omits membership changes. Their entries are merged and sorted newest first
// whatever SortOrder was requested; cursors come from the unfiltered page.
func (c *Client) GetAuditLog(ctx context.Context, session Session, q AuditLogQuery) (*AuditPage, error) {
	q = q.withDefaults()

	if !q.aggregate() {
		return c.fetchAuditPage(ctx, session, q, q.ActionType)
	}

	filters := []ActionType{"", ActionJoinGroup, ActionLeaveGroup}
	pages := make([]*AuditPage, len(filters))

	g, gctx := errgroup.WithContext(ctx)
	for i, filter := range filters {
		i, filter := i, filter
		g.Go(func() error {
			page, err := c.fetchAuditPage(gctx, session, q, filter)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeAuditPages(pages[0], pages[1:]...)
	c.log.Debug("audit log merged",
		zap.Int64("group_id", q.Group),
		zap.Int("entries", len(merged.Entries)),
	)
	return merged, nil
}

func (c *Client) fetchAuditPage(ctx context.Context, session Session, q AuditLogQuery, actionType ActionType) (*AuditPage, error) {
	resp, err := c.transport.Send(ctx, &Request{
		Method: http.MethodGet,
		URL:    c.auditLogURL(q, actionType),
	}, session)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newRemoteError(resp)
	}

	var wire wireAuditPage
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return nil, fmt.Errorf("decode audit log: %w", err)
	}

	page := &AuditPage{Entries: make([]AuditLogEntry, 0, len(wire.Data))}
	if wire.PreviousPageCursor != nil {
		page.PreviousPageCursor = *wire.PreviousPageCursor
	}
	if wire.NextPageCursor != nil {
		page.NextPageCursor = *wire.NextPageCursor
	}
	for _, w := range wire.Data {
		entry, err := normalizeEntry(w)
		if err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, entry)
	}
	return page, nil
}

func (c *Client) auditLogURL(q AuditLogQuery, actionType ActionType) string {
	userID := ""
	if q.UserID != 0 {
		userID = strconv.FormatInt(q.UserID, 10)
	}

	params := url.Values{}
	params.Set("actionType", string(actionType))
	params.Set("cursor", q.Cursor)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("sortOrder", string(q.SortOrder))
	params.Set("userId", userID)

	return fmt.Sprintf("%s/v1/groups/%d/audit-log?%s", c.groupsURL, q.Group, params.Encode())
}

func normalizeEntry(w wireAuditEntry) (AuditLogEntry, error) {
	created, err := parseCreated(w.Created)
	if err != nil {
		return AuditLogEntry{}, err
	}

	entry := AuditLogEntry{
		ActionType:  w.ActionType,
		UserID:      w.UserID,
		Actor:       w.Actor,
		Description: w.Description,
		Created:     created,
	}
	if entry.UserID == 0 && entry.Actor != nil {
		entry.UserID = entry.Actor.User.UserID
	}
	return entry, nil
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// parseCreated accepts RFC 3339 timestamps and zone-less ones (read as UTC),
// dropping any sub-second part.
func parseCreated(s string) (time.Time, error) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created timestamp %q", s)
}

// mergeAuditPages concatenates the entries of extra onto base and orders the
// result newest first. Equal timestamps keep their concatenation order.
func mergeAuditPages(base *AuditPage, extra ...*AuditPage) *AuditPage {
	merged := &AuditPage{
		PreviousPageCursor: base.PreviousPageCursor,
		NextPageCursor:     base.NextPageCursor,
	}

	entries := make([]AuditLogEntry, 0, len(base.Entries))
	entries = append(entries, base.Entries...)
	for _, p := range extra {
		entries = append(entries, p.Entries...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Created.After(entries[j].Created)
	})

	merged.Entries = entries
	return merged
}
