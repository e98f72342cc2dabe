package cli

import (
	"context"

	"github.com/nullsec/nkauth/internal/services"
)

// Sessions lists the current user's live sessions.
func (a *App) Sessions(ctx context.Context) error {
	heading("🔐 Active Sessions")

	list := a.sessions.ListForUser(ctx, a.userName)
	if len(list) == 0 {
		info("No active sessions")
		return nil
	}

	current := services.RedactToken(a.token)
	for _, s := range list {
		id := s.ID
		if s.Token == current {
			id += " (current)"
		}
		field("ID", id)
		field("Token", s.Token)
		field("Created", s.CreatedAt.Local().Format(timeLayout))
		field("Expires", s.ExpiresAt.Local().Format(timeLayout))
		field("Last Active", s.LastActive.Local().Format(timeLayout))
		printlnFn()
	}
	return nil
}

// Revoke ends one of the current user's sessions by id. Revoking the
// current session logs the user out.
func (a *App) Revoke(ctx context.Context, id string) error {
	current := services.RedactToken(a.token)
	isCurrent := false
	for _, s := range a.sessions.ListForUser(ctx, a.userName) {
		if s.ID == id && s.Token == current {
			isCurrent = true
			break
		}
	}

	if err := a.sessions.RevokeByID(ctx, a.userName, id); err != nil {
		return err
	}

	if isCurrent {
		a.clearSession()
		success("Current session revoked, logged out")
		return nil
	}
	success("Session revoked")
	return nil
}
