package roblox

import "net/http"

// CookieName is the session cookie the remote API authenticates with.
const CookieName = ".ROBLOSECURITY"

// Session is the caller-owned credential context for a single actor.
// It is passed into every call and never retained by the client.
type Session struct {
	Cookie string
}

func (s Session) apply(req *http.Request) {
	if s.Cookie == "" {
		return
	}
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.Cookie})
}
