package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/services"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	checkSession(ctx context.Context) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	About(ctx context.Context) error

	Profile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	License(ctx context.Context) error
	Sessions(ctx context.Context) error
	Revoke(ctx context.Context, id string) error
	EditProfile(ctx context.Context) error
	Logout(ctx context.Context) error

	logError(ctx context.Context, cmd string, err error)
}

// commands that need a live session
var sessionCommands = map[string]bool{
	"profile":  true,
	"passwd":   true,
	"license":  true,
	"sessions": true,
	"revoke":   true,
	"edit":     true,
	"logout":   true,
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first word of a line is the command, the rest are its arguments.
// Logged-in commands re-validate the session before running. Validation and
// authentication errors are shown as is; anything else is logged and the user
// sees a generic message. The loop goes on either way.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		printFn(promptFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if sessionCommands[cmd] {
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				continue
			}
			if !a.checkSession(ctx) {
				continue
			}
		}

		var cmdErr error
		switch cmd {
		case "help":
			printHelp(a.isLoggedIn())

		case "register", "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in, logout first.")
				continue
			}
			if cmd == "register" {
				cmdErr = a.Register(ctx)
			} else {
				cmdErr = a.Login(ctx)
			}

		case "about":
			cmdErr = a.About(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "license":
			cmdErr = a.License(ctx)

		case "sessions":
			cmdErr = a.Sessions(ctx)

		case "revoke":
			if len(args) != 1 {
				printlnFn("Usage: revoke <id>")
				continue
			}
			cmdErr = a.Revoke(ctx, args[0])

		case "edit":
			cmdErr = a.EditProfile(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			reportError(ctx, a, cmd, cmdErr)
		}
	}
}

func reportError(ctx context.Context, a execIface, cmd string, err error) {
	if services.IsValidationError(err) {
		failure(err.Error())
		return
	}
	a.logError(ctx, cmd, err)
	failure(common.ErrorInternal.Error())
}

func printHelp(loggedIn bool) {
	if loggedIn {
		printlnFn("Available commands: profile, passwd, license, sessions, revoke <id>, edit, logout, about, exit")
		return
	}
	printlnFn("Available commands: register, login, about, exit")
}
