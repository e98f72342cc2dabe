package models

import "github.com/nullsec/nkauth/internal/timex"

// Session is the persisted session record, keyed by its token.
type Session struct {
	ID         string          `json:"id,omitempty"`
	Username   string          `json:"username"`
	CreatedAt  timex.Timestamp `json:"created_at"`
	ExpiresAt  timex.Timestamp `json:"expires_at"`
	LastActive timex.Timestamp `json:"last_active"`
}

// SessionSummary describes a session for listings. Token holds only a
// redacted prefix of the real token.
type SessionSummary struct {
	ID         string          `json:"id"`
	Token      string          `json:"token"`
	CreatedAt  timex.Timestamp `json:"created_at"`
	ExpiresAt  timex.Timestamp `json:"expires_at"`
	LastActive timex.Timestamp `json:"last_active"`
}
