package cli

import (
	"context"
	"strings"

	"github.com/nullsec/nkauth/internal/models"
)

const premiumURL = "x.com/AnonAntics"

// License shows the current tier and optionally activates a new key.
func (a *App) License(ctx context.Context) error {
	heading("🔑 License Management")

	tier := a.licenses.TierOf(a.userName)
	field("Current Tier", strings.ToUpper(string(tier)))
	if tier == models.TierFree {
		printlnFn("\n  Get premium at " + premiumURL)
	}
	printlnFn()

	key, err := getSimpleText(a.reader, "Enter license key (empty to go back)", a.out)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}

	if err := a.licenses.Register(ctx, a.userName, key); err != nil {
		return err
	}
	success("License activated! Tier: " + strings.ToUpper(string(a.licenses.TierOf(a.userName))))
	return nil
}
