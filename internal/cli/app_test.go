package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nullsec/nkauth/internal/config"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/repositories/memory"
	"github.com/nullsec/nkauth/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects the print seams into a buffer and disables colors.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origLn, origPrint, origColor := printlnFn, printFn, colorEnabled
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&buf, a...) }
	colorEnabled = false
	t.Cleanup(func() {
		printlnFn, printFn, colorEnabled = origLn, origPrint, origColor
	})
	return &buf
}

// scriptInputs answers text prompts and password prompts from the given
// queues. An exhausted queue yields io.EOF.
func scriptInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func newTestApp(t *testing.T) (*App, *services.Services) {
	t.Helper()
	svc := services.New(context.Background(), services.Stores{
		Users:    memory.NewRepository(),
		Sessions: memory.NewRepository(),
		Licenses: memory.NewRepository(),
	}, time.Hour, logging.NewNop())

	return &App{
		log:      logging.NewNop(),
		users:    svc.Users,
		sessions: svc.Sessions,
		licenses: svc.Licenses,
		reader:   rdr(""),
		out:      io.Discard,
	}, svc
}

func loginAs(t *testing.T, a *App, username, password string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.users.Register(ctx, username, []byte(password), ""))
	scriptInputs(t, []string{username}, []string{password})
	require.NoError(t, a.Login(ctx))
	require.True(t, a.isLoggedIn())
}

func TestApp_Register(t *testing.T) {
	out := captureOutput(t)
	a, svc := newTestApp(t)

	scriptInputs(t, []string{"neo", "neo@zion.io"}, []string{"redpill", "redpill"})
	require.NoError(t, a.Register(context.Background()))

	assert.Contains(t, out.String(), "Registration successful")
	info := svc.Users.GetUserInfo("neo")
	require.NotNil(t, info)
	assert.Equal(t, "neo@zion.io", info.Email)
	assert.False(t, a.isLoggedIn(), "registering does not log in")
}

func TestApp_RegisterPasswordMismatch(t *testing.T) {
	out := captureOutput(t)
	a, svc := newTestApp(t)

	scriptInputs(t, []string{"neo", ""}, []string{"redpill", "bluepill"})
	require.NoError(t, a.Register(context.Background()))

	assert.Contains(t, out.String(), "Passwords do not match")
	assert.Nil(t, svc.Users.GetUserInfo("neo"))
}

func TestApp_RegisterValidationError(t *testing.T) {
	a, _ := newTestApp(t)

	scriptInputs(t, []string{"ab", ""}, []string{"redpill", "redpill"})
	err := a.Register(context.Background())
	require.Error(t, err)
	assert.Equal(t, "username must be at least 3 characters", err.Error())
}

func TestApp_LoginFailure(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.users.Register(context.Background(), "neo", []byte("redpill"), ""))

	scriptInputs(t, []string{"neo"}, []string{"bluepill"})
	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "nkauth> ", a.prompt())
}

func TestApp_LoginPromptAndProfile(t *testing.T) {
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	assert.Equal(t, "nkauth (neo free)> ", a.prompt())
	require.NoError(t, svc.Licenses.Register(context.Background(), "neo", "NKIA-EN01-ABCD-EFGH-IJKL"))
	assert.Equal(t, "nkauth (neo enterprise)> ", a.prompt())

	require.NoError(t, a.Profile(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Welcome back, neo!")
	assert.Contains(t, s, "Username: neo")
	assert.Contains(t, s, "Email: Not set")
	assert.Contains(t, s, "License Tier: ENTERPRISE")
	assert.Contains(t, s, "License Key: NKIA-EN01-****-****-****")
	assert.Contains(t, s, "Premium: Yes")
	assert.NotContains(t, s, "Last Login: Never")
	assert.NotContains(t, s, a.token)
}

func TestApp_EditProfile(t *testing.T) {
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	scriptInputs(t, []string{"The One", "", "", "thomas-anderson"}, nil)
	require.NoError(t, a.EditProfile(context.Background()))

	p := svc.Users.GetUserInfo("neo").Profile
	assert.Equal(t, "The One", p.DisplayName)
	assert.Equal(t, "default", p.Avatar)
	assert.Equal(t, "thomas-anderson", p.Github)
	assert.Contains(t, out.String(), "Profile updated")

	scriptInputs(t, []string{"", "", "", ""}, nil)
	require.NoError(t, a.EditProfile(context.Background()))
	assert.Contains(t, out.String(), "No changes made")
}

func TestApp_ChangePassword(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	scriptInputs(t, nil, []string{"redpill", "bluepill", "greenpill"})
	require.NoError(t, a.ChangePassword(ctx))
	assert.Contains(t, out.String(), "Passwords do not match")

	scriptInputs(t, nil, []string{"wrong", "bluepill", "bluepill"})
	err := a.ChangePassword(ctx)
	require.Error(t, err)
	assert.Equal(t, "current password is incorrect", err.Error())

	scriptInputs(t, nil, []string{"redpill", "bluepill", "bluepill"})
	require.NoError(t, a.ChangePassword(ctx))
	assert.Contains(t, out.String(), "Password changed successfully")

	_, err = svc.Users.Login(ctx, "neo", []byte("bluepill"))
	assert.NoError(t, err)
}

func TestApp_License(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	a, _ := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	scriptInputs(t, []string{""}, nil)
	require.NoError(t, a.License(ctx))
	assert.Contains(t, out.String(), "Current Tier: FREE")
	assert.Contains(t, out.String(), "Get premium at x.com/AnonAntics")

	scriptInputs(t, []string{"BAD-KEY"}, nil)
	err := a.License(ctx)
	require.Error(t, err)
	assert.Equal(t, "invalid license key", err.Error())

	scriptInputs(t, []string{"NKIA-PR01-AAAA-AAAA-AAAA"}, nil)
	require.NoError(t, a.License(ctx))
	assert.Contains(t, out.String(), "License activated! Tier: PREMIUM")
	assert.Equal(t, "nkauth (neo premium)> ", a.prompt())
}

func TestApp_SessionsAndRevoke(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	otherToken, err := svc.Users.Login(ctx, "neo", []byte("redpill"))
	require.NoError(t, err)

	require.NoError(t, a.Sessions(ctx))
	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "(current)"))
	assert.Equal(t, 2, strings.Count(s, "Token: "))
	assert.NotContains(t, s, a.token)
	assert.NotContains(t, s, otherToken)

	var otherID, currentID string
	for _, sum := range svc.Sessions.ListForUser(ctx, "neo") {
		if sum.Token == services.RedactToken(otherToken) {
			otherID = sum.ID
		} else {
			currentID = sum.ID
		}
	}
	require.NotEmpty(t, otherID)
	require.NotEmpty(t, currentID)

	require.NoError(t, a.Revoke(ctx, otherID))
	assert.True(t, a.isLoggedIn())
	_, err = svc.Users.Authenticate(ctx, otherToken)
	assert.Error(t, err)

	err = a.Revoke(ctx, "no-such-id")
	assert.Error(t, err)

	require.NoError(t, a.Revoke(ctx, currentID))
	assert.False(t, a.isLoggedIn(), "revoking the current session logs out")
	assert.Contains(t, out.String(), "Current session revoked, logged out")
}

func TestApp_CheckSessionAfterExternalRevoke(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")

	assert.True(t, a.checkSession(ctx))

	for _, sum := range svc.Sessions.ListForUser(ctx, "neo") {
		require.NoError(t, svc.Sessions.RevokeByID(ctx, "neo", sum.ID))
	}

	assert.False(t, a.checkSession(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Session is no longer valid")
}

func TestApp_Logout(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	a, svc := newTestApp(t)
	loginAs(t, a, "neo", "redpill")
	token := a.token

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out successfully")

	_, err := svc.Users.Authenticate(ctx, token)
	assert.Error(t, err)
}

func TestNewApp_RunScriptedSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(`{"neo": `), 0o600))

	out := captureOutput(t)
	cfg := &config.Config{
		DataDir:    dir,
		Backend:    "json",
		SessionTTL: time.Hour,
		LogLevel:   "warn",
		LogFormat:  "text",
	}

	a, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Users data could not be read, starting empty")
	b, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"neo": `, string(b), "opening the shell does not rewrite the store")

	scriptInputs(t, []string{"trinity", "", "trinity"}, []string{"follow", "follow", "follow"})
	a.reader = rdr("register\nlogin\nabout\nlogout\nquit\n")
	require.NoError(t, a.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "NULLKIA AUTHENTICATION")
	assert.Contains(t, s, "Registration successful")
	assert.Contains(t, s, "Welcome back, trinity!")
	assert.Contains(t, s, "NullKia Authentication System v2.0.0")
	assert.Contains(t, s, "nkauth (trinity free)> ")
	assert.Contains(t, s, "Logged out successfully")
	assert.Contains(t, s, "Premium: x.com/AnonAntics")

	b, err = os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"trinity"`)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), Backend: "redis", SessionTTL: time.Hour}
	_, err := NewApp(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewApp_MemoryBackendWritesNothing(t *testing.T) {
	dir := t.TempDir()
	captureOutput(t)
	cfg := &config.Config{DataDir: dir, Backend: "memory", SessionTTL: time.Hour}

	a, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	scriptInputs(t, []string{"trinity", ""}, []string{"follow", "follow"})
	require.NoError(t, a.Register(context.Background()))
	require.NoError(t, a.closer.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
