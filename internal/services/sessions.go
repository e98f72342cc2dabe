package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/models"
	"github.com/nullsec/nkauth/internal/repositories"
	"github.com/nullsec/nkauth/internal/timex"
)

const (
	// TokenSize is the number of random bytes behind a session token.
	TokenSize = 64
	// DefaultSessionTTL is used when a non-positive TTL is configured.
	DefaultSessionTTL = 24 * time.Hour

	tokenPrefixLen = 16
	sessionsName   = "sessions"
)

// RedactToken keeps the first 16 characters of token. Tokens too short to
// keep a prefix are hidden entirely.
func RedactToken(token string) string {
	if utf8.RuneCountInString(token) <= tokenPrefixLen {
		return "..."
	}
	return string([]rune(token)[:tokenPrefixLen]) + "..."
}

// SessionManager issues, validates and revokes bearer tokens.
//
// A session is active until its expires_at passes. Expired sessions are
// purged lazily, at load time and whenever Validate or ListForUser meets
// them; a purged token never becomes valid again.
type SessionManager struct {
	mu       sync.Mutex
	repo     repositories.Repository
	log      logging.Logger
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]models.Session
	status   LoadStatus
}

// NewSessionManager loads the sessions collection from repo and drops
// expired records.
func NewSessionManager(ctx context.Context, repo repositories.Repository, ttl time.Duration, log logging.Logger) *SessionManager {
	return newSessionManager(ctx, repo, ttl, log, time.Now)
}

func newSessionManager(ctx context.Context, repo repositories.Repository, ttl time.Duration, log logging.Logger, now func() time.Time) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &SessionManager{
		repo: repo,
		log:  log.With("component", "sessions"),
		ttl:  ttl,
		now:  now,
	}
	m.sessions, m.repo, m.status = loadCollection[models.Session](ctx, sessionsName, repo, m.log)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Expired = m.sweepLocked(ctx)
	m.status.Loaded = len(m.sessions)

	for token, s := range m.sessions {
		if s.ID != "" {
			continue
		}
		s.ID = uuid.NewString()
		m.sessions[token] = s
		if err := putRecord(ctx, m.repo, sessionsName, token, s); err != nil {
			m.log.Warn(ctx, "failed to store session id", "username", s.Username, "error", err)
		}
	}
	return m
}

// LoadStatus reports how the collection was loaded.
func (m *SessionManager) LoadStatus() LoadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// TTL returns the lifetime given to new sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for username and returns its token.
func (m *SessionManager) Create(ctx context.Context, username string) (string, error) {
	token, err := common.MakeRandHexString(TokenSize)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	now := m.now()
	s := models.Session{
		ID:         uuid.NewString(),
		Username:   username,
		CreatedAt:  timex.NewTimestamp(now),
		ExpiresAt:  timex.NewTimestamp(now.Add(m.ttl)),
		LastActive: timex.NewTimestamp(now),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := putRecord(ctx, m.repo, sessionsName, token, s); err != nil {
		return "", err
	}
	m.sessions[token] = s

	m.log.Debug(ctx, "session created", "username", username, "session_id", s.ID)
	return token, nil
}

// Validate returns the owner of token. It fails with common.ErrInvalidToken
// for unknown tokens and common.ErrTokenExpired for expired ones, which are
// purged on the spot.
func (m *SessionManager) Validate(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", common.ErrInvalidToken
	}

	now := m.now()
	if m.expired(s, now) {
		m.purgeLocked(ctx, token, s)
		return "", common.ErrTokenExpired
	}

	s.LastActive = timex.NewTimestamp(now)
	m.sessions[token] = s
	if err := putRecord(ctx, m.repo, sessionsName, token, s); err != nil {
		m.log.Warn(ctx, "failed to persist last_active", "username", s.Username, "error", err)
	}
	return s.Username, nil
}

// Destroy removes token. Unknown tokens are ignored.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	delete(m.sessions, token)

	m.log.Debug(ctx, "session destroyed", "username", s.Username, "session_id", s.ID)
	return nil
}

// ListForUser returns the live sessions of username, oldest first, with
// tokens redacted.
func (m *SessionManager) ListForUser(ctx context.Context, username string) []models.SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(ctx)

	out := make([]models.SessionSummary, 0)
	for token, s := range m.sessions {
		if s.Username != username {
			continue
		}
		out = append(out, models.SessionSummary{
			ID:         s.ID,
			Token:      RedactToken(token),
			CreatedAt:  s.CreatedAt,
			ExpiresAt:  s.ExpiresAt,
			LastActive: s.LastActive,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt.Time)
	})
	return out
}

// RevokeByID destroys the session of username whose summary id is id.
// Sessions of other users are reported as common.ErrorNotFound.
func (m *SessionManager) RevokeByID(ctx context.Context, username, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, s := range m.sessions {
		if s.ID != id || s.Username != username {
			continue
		}
		if err := m.repo.Delete(ctx, token); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		delete(m.sessions, token)
		m.log.Info(ctx, "session revoked", "username", username, "session_id", id)
		return nil
	}
	return common.ErrorNotFound
}

func (m *SessionManager) expired(s models.Session, now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// sweepLocked purges every expired session and returns how many it found.
func (m *SessionManager) sweepLocked(ctx context.Context) int {
	now := m.now()
	n := 0
	for token, s := range m.sessions {
		if m.expired(s, now) {
			m.purgeLocked(ctx, token, s)
			n++
		}
	}
	return n
}

func (m *SessionManager) purgeLocked(ctx context.Context, token string, s models.Session) {
	delete(m.sessions, token)
	if err := m.repo.Delete(ctx, token); err != nil {
		m.log.Error(ctx, "failed to delete expired session", "username", s.Username, "error", err)
		return
	}
	m.log.Debug(ctx, "expired session purged", "username", s.Username, "session_id", s.ID)
}
