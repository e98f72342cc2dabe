package services

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/cryptox"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/models"
	"github.com/nullsec/nkauth/internal/repositories"
	"github.com/nullsec/nkauth/internal/timex"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 6

	usersName = "users"
)

// UserManager owns user records and composes the password hasher with the
// session and license managers.
type UserManager struct {
	mu       sync.Mutex
	repo     repositories.Repository
	log      logging.Logger
	now      func() time.Time
	users    map[string]models.User
	status   LoadStatus
	sessions *SessionManager
	licenses *LicenseManager

	// verified against for unknown usernames
	dummyHash string
	dummySalt string
}

func NewUserManager(ctx context.Context, repo repositories.Repository, sessions *SessionManager, licenses *LicenseManager, log logging.Logger) *UserManager {
	m := &UserManager{
		repo:     repo,
		log:      log.With("component", "users"),
		now:      time.Now,
		sessions: sessions,
		licenses: licenses,
	}
	m.users, m.repo, m.status = loadCollection[models.User](ctx, usersName, repo, m.log)
	m.dummyHash, m.dummySalt = cryptox.HashPassword(common.GenerateRandByteArray(16), nil)
	return m
}

func (m *UserManager) LoadStatus() LoadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Register creates a user. Validation errors are checked in order: short
// username, short password, taken username.
func (m *UserManager) Register(ctx context.Context, username string, password []byte, email string) error {
	if utf8.RuneCountInString(username) < MinUsernameLen {
		return common.ErrUsernameTooShort
	}
	if utf8.RuneCount(password) < MinPasswordLen {
		return common.ErrPasswordTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; ok {
		return common.ErrUsernameTaken
	}

	digest, salt := cryptox.HashPassword(password, nil)
	u := models.User{
		PasswordHash: digest,
		Salt:         salt,
		Email:        email,
		CreatedAt:    timex.NewTimestamp(m.now()),
		Profile: models.Profile{
			DisplayName: username,
			Avatar:      models.DefaultAvatar,
		},
	}
	if err := putRecord(ctx, m.repo, usersName, username, u); err != nil {
		return err
	}
	m.users[username] = u

	m.log.Info(ctx, "user registered", "username", username)
	return nil
}

// Login verifies the credentials and opens a session. Unknown users and
// wrong passwords both yield common.ErrInvalidCredentials.
func (m *UserManager) Login(ctx context.Context, username string, password []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[username]
	if !ok {
		cryptox.VerifyPassword(password, m.dummyHash, m.dummySalt)
		m.log.Debug(ctx, "login failed", "username", username)
		return "", common.ErrInvalidCredentials
	}
	if !cryptox.VerifyPassword(password, u.PasswordHash, u.Salt) {
		m.log.Debug(ctx, "login failed", "username", username)
		return "", common.ErrInvalidCredentials
	}

	now := timex.NewTimestamp(m.now())
	u.LastLogin = &now
	if err := putRecord(ctx, m.repo, usersName, username, u); err != nil {
		return "", err
	}
	m.users[username] = u

	token, err := m.sessions.Create(ctx, username)
	if err != nil {
		return "", err
	}

	m.log.Info(ctx, "user logged in", "username", username)
	return token, nil
}

// Logout ends the session behind token.
func (m *UserManager) Logout(ctx context.Context, token string) error {
	return m.sessions.Destroy(ctx, token)
}

// Authenticate returns the user behind a live session token. Sessions of
// users that no longer exist are destroyed and reported as invalid.
func (m *UserManager) Authenticate(ctx context.Context, token string) (string, error) {
	username, err := m.sessions.Validate(ctx, token)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	_, ok := m.users[username]
	m.mu.Unlock()

	if !ok {
		if err := m.sessions.Destroy(ctx, token); err != nil {
			m.log.Warn(ctx, "failed to destroy orphan session", "username", username, "error", err)
		}
		return "", common.ErrInvalidToken
	}
	return username, nil
}

// ChangePassword replaces the password of username after checking the
// current one. The new digest uses a fresh salt.
func (m *UserManager) ChangePassword(ctx context.Context, username string, oldPassword, newPassword []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[username]
	if !ok {
		return common.ErrUserNotFound
	}
	if !cryptox.VerifyPassword(oldPassword, u.PasswordHash, u.Salt) {
		return common.ErrIncorrectPassword
	}
	if utf8.RuneCount(newPassword) < MinPasswordLen {
		return common.ErrNewPasswordTooShort
	}

	u.PasswordHash, u.Salt = cryptox.HashPassword(newPassword, nil)
	if err := putRecord(ctx, m.repo, usersName, username, u); err != nil {
		return err
	}
	m.users[username] = u

	m.log.Info(ctx, "password changed", "username", username)
	return nil
}

// UpdateProfile merges the recognised keys of fields into the profile of
// username. Unknown keys are ignored.
func (m *UserManager) UpdateProfile(ctx context.Context, username string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[username]
	if !ok {
		return common.ErrorNotFound
	}

	for k, v := range fields {
		switch k {
		case models.ProfileDisplayName:
			u.Profile.DisplayName = v
		case models.ProfileAvatar:
			u.Profile.Avatar = v
		case models.ProfileDiscord:
			u.Profile.Discord = v
		case models.ProfileGithub:
			u.Profile.Github = v
		default:
			m.log.Debug(ctx, "ignoring unknown profile field", "field", k)
		}
	}

	if err := putRecord(ctx, m.repo, usersName, username, u); err != nil {
		return err
	}
	m.users[username] = u
	return nil
}

// GetUserInfo returns the secret-free view of username, or nil.
func (m *UserManager) GetUserInfo(username string) *models.UserInfo {
	m.mu.Lock()
	u, ok := m.users[username]
	m.mu.Unlock()

	if !ok {
		return nil
	}

	info := &models.UserInfo{
		Username:    username,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		Profile:     u.Profile,
		LicenseTier: m.licenses.TierOf(username),
	}
	info.IsPremium = info.LicenseTier.IsPremium()
	if u.LastLogin != nil {
		ll := *u.LastLogin
		info.LastLogin = &ll
	}
	if l := m.licenses.LicenseOf(username); l != nil {
		info.LicenseKey = MaskLicenseKey(l.Key)
	}
	return info
}

// IsValidationError reports whether err is one of the user-facing
// validation or authentication errors, whose text can be shown as is.
func IsValidationError(err error) bool {
	for _, target := range []error{
		common.ErrUsernameTooShort,
		common.ErrPasswordTooShort,
		common.ErrUsernameTaken,
		common.ErrUserNotFound,
		common.ErrIncorrectPassword,
		common.ErrNewPasswordTooShort,
		common.ErrInvalidCredentials,
		common.ErrInvalidLicenseKey,
		common.ErrInvalidToken,
		common.ErrTokenExpired,
		common.ErrorNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
