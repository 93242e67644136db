package roblox

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditBody(next string, entries ...map[string]any) map[string]any {
	return map[string]any{
		"previousPageCursor": nil,
		"nextPageCursor":     next,
		"data":               entries,
	}
}

func TestGetAuditLog_SingleQuery(t *testing.T) {
	ft := &fakeTransport{}
	ft.handle = func(req *Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, auditBody("next-1",
			map[string]any{"actionType": "Change Rank", "userId": 2, "created": "2024-03-01T10:00:05.734Z"},
			map[string]any{"actionType": "Change Rank", "userId": 2, "created": "2024-03-01T09:00:00.120Z"},
		)), nil
	}
	client := newTestClient(ft, nil)

	page, err := client.GetAuditLog(context.Background(), Session{Cookie: "c"}, AuditLogQuery{
		Group:      1,
		ActionType: ActionChangeRank,
		UserID:     2,
		SortOrder:  SortAsc,
	})
	require.NoError(t, err)

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Contains(t, calls[0].URL, "https://groups.example.com/v1/groups/1/audit-log?")

	q := queryOf(t, calls[0])
	assert.Equal(t, url.Values{
		"actionType": {"ChangeRank"},
		"userId":     {"2"},
		"sortOrder":  {"Asc"},
		"limit":      {"100"},
		"cursor":     {""},
	}, q)

	require.Len(t, page.Entries, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC), page.Entries[0].Created.UTC())
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), page.Entries[1].Created.UTC())
	assert.Equal(t, "next-1", page.NextPageCursor)
	assert.Equal(t, "", page.PreviousPageCursor)
	assert.Equal(t, Session{Cookie: "c"}, ft.sessions[0])
}

func TestGetAuditLog_Defaults(t *testing.T) {
	ft := &fakeTransport{}
	ft.handle = func(req *Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, auditBody("")), nil
	}
	client := newTestClient(ft, nil)

	_, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 7, ActionType: ActionDeletePost})
	require.NoError(t, err)

	q := queryOf(t, ft.calls()[0])
	assert.Equal(t, "Asc", q.Get("sortOrder"))
	assert.Equal(t, "100", q.Get("limit"))
	assert.Equal(t, "", q.Get("userId"))
	assert.Equal(t, "", q.Get("cursor"))
}

func TestGetAuditLog_AggregateMergesNewestFirst(t *testing.T) {
	t0 := "2024-01-01T00:00:00.900Z"
	t1 := "2024-01-02T00:00:00.100Z"
	t2 := "2024-01-03T00:00:00.500Z"

	ft := &fakeTransport{}
	ft.handle = func(req *Request) (*Response, error) {
		u, _ := url.Parse(req.URL)
		switch u.Query().Get("actionType") {
		case "":
			return jsonResponse(t, http.StatusOK, auditBody("base-next",
				map[string]any{"actionType": "Delete Post", "userId": 10, "created": t0},
			)), nil
		case "joinGroup":
			return jsonResponse(t, http.StatusOK, auditBody("join-next",
				map[string]any{"actionType": "Join Group", "userId": 11, "created": t2},
			)), nil
		case "leaveGroup":
			return jsonResponse(t, http.StatusOK, auditBody("leave-next",
				map[string]any{"actionType": "Leave Group", "userId": 12, "created": t1},
			)), nil
		}
		t.Errorf("unexpected actionType in %s", req.URL)
		return jsonResponse(t, http.StatusBadRequest, map[string]any{}), nil
	}
	client := newTestClient(ft, nil)

	page, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{
		Group:     1,
		UserID:    5,
		SortOrder: SortAsc,
		Limit:     25,
		Cursor:    "abc",
	})
	require.NoError(t, err)

	calls := ft.calls()
	require.Len(t, calls, 3)

	seen := map[string]bool{}
	for _, c := range calls {
		q := queryOf(t, c)
		seen[q.Get("actionType")] = true
		assert.Equal(t, "5", q.Get("userId"))
		assert.Equal(t, "Asc", q.Get("sortOrder"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "abc", q.Get("cursor"))
		assert.Contains(t, c.URL, "/v1/groups/1/audit-log?")
	}
	assert.Equal(t, map[string]bool{"": true, "joinGroup": true, "leaveGroup": true}, seen)

	require.Len(t, page.Entries, 3)
	assert.Equal(t, int64(11), page.Entries[0].UserID)
	assert.Equal(t, int64(12), page.Entries[1].UserID)
	assert.Equal(t, int64(10), page.Entries[2].UserID)
	assert.Equal(t, "base-next", page.NextPageCursor)
	for _, e := range page.Entries {
		assert.Zero(t, e.Created.Nanosecond())
	}
}

func TestGetAuditLog_AllSentinelUsesAggregatePath(t *testing.T) {
	ft := &fakeTransport{}
	ft.handle = func(req *Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, auditBody("")), nil
	}
	client := newTestClient(ft, nil)

	page, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1, ActionType: ActionAll})
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Len(t, ft.calls(), 3)
	for _, c := range ft.calls() {
		assert.NotEqual(t, "all", queryOf(t, c).Get("actionType"))
	}
}

func TestGetAuditLog_AggregateFailsWhenAnySubQueryFails(t *testing.T) {
	ft := &fakeTransport{}
	ft.handle = func(req *Request) (*Response, error) {
		if queryOf(t, req).Get("actionType") == "leaveGroup" {
			return jsonResponse(t, http.StatusForbidden, map[string]any{
				"errors": []map[string]any{{"code": 23, "message": "Insufficient permissions"}},
			}), nil
		}
		return jsonResponse(t, http.StatusOK, auditBody("",
			map[string]any{"actionType": "Delete Post", "userId": 1, "created": "2024-01-01T00:00:00Z"},
		)), nil
	}
	client := newTestClient(ft, nil)

	page, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1})
	require.Error(t, err)
	assert.Nil(t, page)

	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusForbidden, rerr.StatusCode)
	assert.Equal(t, "Insufficient permissions", err.Error())
}

func TestGetAuditLog_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"joined", `{"errors":[{"message":"first"},{"message":"second"}]}`, "first\nsecond"},
		{"no errors field", `{}`, UnknownErrorMessage},
		{"empty errors", `{"errors":[]}`, UnknownErrorMessage},
		{"not json", `<html>oops</html>`, UnknownErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handle: func(req *Request) (*Response, error) {
				return &Response{StatusCode: http.StatusBadRequest, Body: []byte(tt.body)}, nil
			}}
			client := newTestClient(ft, nil)

			_, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1, ActionType: ActionChangeRank})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestGetAuditLog_TransportErrorSurfacesUnchanged(t *testing.T) {
	netErr := errors.New("connection refused")
	ft := &fakeTransport{handle: func(req *Request) (*Response, error) {
		return nil, netErr
	}}
	client := newTestClient(ft, nil)

	_, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1, ActionType: ActionChangeRank})
	assert.ErrorIs(t, err, netErr)

	_, err = client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1})
	assert.ErrorIs(t, err, netErr)
}

func TestGetAuditLog_ActorUserIDFallback(t *testing.T) {
	ft := &fakeTransport{handle: func(req *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{
			"previousPageCursor": null,
			"nextPageCursor": null,
			"data": [{
				"actor": {"user": {"userId": 99, "username": "mod"}, "role": {"id": 3, "name": "Admin", "rank": 254}},
				"actionType": "Remove Member",
				"description": {"TargetId": 42},
				"created": "2024-05-05T05:05:05.555Z"
			}]
		}`)}, nil
	}}
	client := newTestClient(ft, nil)

	page, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1, ActionType: ActionRemoveMember})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)

	e := page.Entries[0]
	assert.Equal(t, int64(99), e.UserID)
	require.NotNil(t, e.Actor.Role)
	assert.Equal(t, 254, e.Actor.Role.Rank)
	assert.JSONEq(t, `{"TargetId": 42}`, string(e.Description))
	assert.Equal(t, "", page.NextPageCursor)
}

func TestGetAuditLog_InvalidCreatedFails(t *testing.T) {
	ft := &fakeTransport{handle: func(req *Request) (*Response, error) {
		return jsonResponse(t, http.StatusOK, auditBody("",
			map[string]any{"actionType": "Delete Post", "userId": 1, "created": "yesterday"},
		)), nil
	}}
	client := newTestClient(ft, nil)

	_, err := client.GetAuditLog(context.Background(), Session{}, AuditLogQuery{Group: 1, ActionType: ActionDeletePost})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday")
}

func TestParseCreated(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-01T10:00:05Z", time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)},
		{"2024-03-01T10:00:05.999Z", time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)},
		{"2024-03-01T10:00:05.1234567+02:00", time.Date(2024, 3, 1, 8, 0, 5, 0, time.UTC)},
		{"2024-03-01T10:00:05.5", time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCreated(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Zero(t, got.Nanosecond())
		})
	}

	_, err := parseCreated("")
	assert.Error(t, err)
}

func TestMergeAuditPages_TiesKeepConcatenationOrder(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := &AuditPage{
		NextPageCursor: "n",
		Entries: []AuditLogEntry{
			{UserID: 1, Created: ts},
			{UserID: 2, Created: ts.Add(-time.Hour)},
		},
	}
	joins := &AuditPage{NextPageCursor: "ignored", Entries: []AuditLogEntry{{UserID: 3, Created: ts}}}
	leaves := &AuditPage{Entries: []AuditLogEntry{{UserID: 4, Created: ts.Add(time.Hour)}}}

	merged := mergeAuditPages(base, joins, leaves)

	ids := make([]int64, 0, len(merged.Entries))
	for _, e := range merged.Entries {
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []int64{4, 1, 3, 2}, ids)
	assert.Equal(t, "n", merged.NextPageCursor)
	assert.Len(t, base.Entries, 2)
}

func TestActionTypes(t *testing.T) {
	all := ActionTypes()
	assert.Len(t, all, 44)
	assert.Contains(t, all, ActionJoinGroup)
	assert.NotContains(t, all, ActionAll)

	assert.True(t, ActionAll.IsKnown())
	assert.True(t, ActionChangeRank.IsKnown())
	assert.False(t, ActionType("BanEveryone").IsKnown())

	all[0] = "mutated"
	assert.Equal(t, ActionDeletePost, ActionTypes()[0])
}
