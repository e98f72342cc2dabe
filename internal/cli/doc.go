// Package cli provides the interactive nkauth terminal client.
//
// It opens the configured store, loads the user, session and license
// managers and runs a REPL on top of them. Typical flow: register, login,
// inspect or edit the profile, manage the license and sessions, logout.
//
//	Logged out: help, register, login, about, exit | quit
//	Logged in:  help, profile, passwd, license, sessions, revoke <id>,
//	            edit, logout, about, exit | quit
//
// Every logged-in command first re-validates the session token, so an
// expired or revoked session drops the user back to the logged-out menu.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
