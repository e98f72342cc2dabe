package cli

import (
	"context"

	"github.com/nullsec/nkauth/internal/buildinfo"
)

const banner = `
╭──────────────────────────────────────────╮
│        📱 NULLKIA AUTHENTICATION         │
│       ════════════════════════════       │
│                                          │
│   🔐 Secure Session Management           │
│   🔑 License Key Validation              │
│   👤 User Profile System                 │
│                                          │
│            bad-antics | NullSec          │
╰──────────────────────────────────────────╯`

const (
	author  = "bad-antics"
	discord = "x.com/AnonAntics"
)

func showBanner() {
	printlnFn(paint(colorCyan, banner))
	printlnFn("Type 'help' for commands.")
}

func showFooter() {
	printlnFn("\n─────────────────────────────────────────")
	printlnFn("📱 NullKia Authentication")
	printlnFn("🔑 Premium: " + premiumURL)
	printlnFn("🐦 GitHub: " + author)
	printlnFn("─────────────────────────────────────────")
}

// About prints version and author information.
func (a *App) About(ctx context.Context) error {
	printlnFn(paint(colorBold, "\n📱 NullKia Authentication System v"+buildinfo.Version))
	printlnFn("   Author: " + author)
	printlnFn("   Discord: " + discord)
	printlnFn("   GitHub: " + author)
	printlnFn()
	printlnFn("   Premium features available at " + premiumURL)
	return nil
}
