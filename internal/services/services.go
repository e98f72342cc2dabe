package services

import (
	"context"
	"time"

	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/repositories"
)

// Services bundles the three managers over one set of repositories.
type Services struct {
	Users    *UserManager
	Sessions *SessionManager
	Licenses *LicenseManager
}

// Stores is the set of collections the managers persist to.
type Stores struct {
	Users    repositories.Repository
	Sessions repositories.Repository
	Licenses repositories.Repository
}

// New loads all three collections and wires the managers together.
func New(ctx context.Context, stores Stores, sessionTTL time.Duration, log logging.Logger) *Services {
	sessions := NewSessionManager(ctx, stores.Sessions, sessionTTL, log)
	licenses := NewLicenseManager(ctx, stores.Licenses, log)
	users := NewUserManager(ctx, stores.Users, sessions, licenses, log)
	return &Services{Users: users, Sessions: sessions, Licenses: licenses}
}

// LoadStatuses returns the load outcome of every collection.
func (s *Services) LoadStatuses() []LoadStatus {
	return []LoadStatus{
		s.Users.LoadStatus(),
		s.Sessions.LoadStatus(),
		s.Licenses.LoadStatus(),
	}
}
