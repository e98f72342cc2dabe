package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/config"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/models"
	"github.com/nullsec/nkauth/internal/repositories/repomanager"
	"github.com/nullsec/nkauth/internal/services"
)

type userService interface {
	Register(ctx context.Context, username string, password []byte, email string) error
	Login(ctx context.Context, username string, password []byte) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (string, error)
	ChangePassword(ctx context.Context, username string, oldPassword, newPassword []byte) error
	UpdateProfile(ctx context.Context, username string, fields map[string]string) error
	GetUserInfo(username string) *models.UserInfo
}

type sessionService interface {
	ListForUser(ctx context.Context, username string) []models.SessionSummary
	RevokeByID(ctx context.Context, username, id string) error
}

type licenseService interface {
	Register(ctx context.Context, username, key string) error
	TierOf(username string) models.Tier
}

type App struct {
	config   *config.Config
	log      logging.Logger
	users    userService
	sessions sessionService
	licenses licenseService
	closer   io.Closer
	reader   *bufio.Reader
	out      io.Writer

	userName string
	token    string
}

// NewApp opens the store selected by cfg and loads the managers.
// Collections that had to be reset are reported to the user.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := repomanager.Open(ctx, cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	svc := services.New(ctx, services.Stores{
		Users:    repos.Users,
		Sessions: repos.Sessions,
		Licenses: repos.Licenses,
	}, cfg.SessionTTL, log)
	log.Debug(ctx, "store opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	for _, st := range svc.LoadStatuses() {
		if st.Recovered {
			warning(fmt.Sprintf("%s data could not be read, starting empty", st.Collection))
		}
		if st.Skipped > 0 {
			warning(fmt.Sprintf("%d unreadable %s record(s) ignored", st.Skipped, st.Collection))
		}
	}

	return &App{
		config:   cfg,
		log:      log,
		users:    svc.Users,
		sessions: svc.Sessions,
		licenses: svc.Licenses,
		closer:   repos,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run shows the banner, serves the REPL until exit and releases the store.
func (a *App) Run(ctx context.Context) error {
	showBanner()
	runREPL(ctx, a, a.prompt, a.reader)
	showFooter()

	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}

func (a *App) logError(ctx context.Context, cmd string, err error) {
	a.log.Error(ctx, "command failed", "command", cmd, "error", err)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) prompt() string {
	if !a.isLoggedIn() {
		return "nkauth> "
	}
	return fmt.Sprintf("nkauth (%s %s)> ", a.userName, a.licenses.TierOf(a.userName))
}

// checkSession re-validates the current token. On failure the local login
// state is cleared and the user is told why.
func (a *App) checkSession(ctx context.Context) bool {
	username, err := a.users.Authenticate(ctx, a.token)
	if err != nil {
		a.clearSession()
		if errors.Is(err, common.ErrTokenExpired) {
			warning("Session expired, please login again")
		} else {
			warning("Session is no longer valid, please login again")
		}
		return false
	}
	a.userName = username
	return true
}

func (a *App) clearSession() {
	a.token = ""
	a.userName = ""
}
