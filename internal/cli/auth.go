package cli

import (
	"bytes"
	"context"

	"github.com/nullsec/nkauth/internal/common"
)

// Register asks for username, email and a confirmed password and creates
// the account. Passwords are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	heading("📝 Registration")

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		failure("Passwords do not match")
		return nil
	}

	if err := a.users.Register(ctx, username, password, email); err != nil {
		return err
	}

	success("Registration successful")
	return nil
}

// Login asks for credentials and keeps the issued session token.
func (a *App) Login(ctx context.Context) error {
	heading("🔐 Login")

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.users.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.token = token
	a.userName = username
	success("Welcome back, " + username + "!")
	return nil
}

// Logout destroys the current session. Local state is cleared even if the
// store could not be updated.
func (a *App) Logout(ctx context.Context) error {
	token := a.token
	a.clearSession()

	if token != "" {
		if err := a.users.Logout(ctx, token); err != nil {
			return err
		}
	}
	success("Logged out successfully")
	return nil
}
