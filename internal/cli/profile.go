package cli

import (
	"bytes"
	"context"
	"strings"

	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Profile prints the current user's account details.
func (a *App) Profile(ctx context.Context) error {
	u := a.users.GetUserInfo(a.userName)
	if u == nil {
		return common.ErrUserNotFound
	}

	heading("👤 Profile")
	field("Username", u.Username)
	field("Display Name", u.Profile.DisplayName)
	field("Email", orDefault(u.Email, "Not set"))
	field("Created", u.CreatedAt.Local().Format(timeLayout))

	lastLogin := "Never"
	if u.LastLogin != nil {
		lastLogin = u.LastLogin.Local().Format(timeLayout)
	}
	field("Last Login", lastLogin)
	field("License Tier", strings.ToUpper(string(u.LicenseTier)))
	if u.LicenseKey != "" {
		field("License Key", u.LicenseKey)
	}
	premium := "No"
	if u.IsPremium {
		premium = "Yes"
	}
	field("Premium", premium)
	field("Avatar", u.Profile.Avatar)

	if u.Profile.Discord != "" {
		field("Discord", u.Profile.Discord)
	}
	if u.Profile.Github != "" {
		field("GitHub", u.Profile.Github)
	}
	return nil
}

// ChangePassword asks for the current password and a confirmed new one.
func (a *App) ChangePassword(ctx context.Context) error {
	heading("🔑 Change Password")

	oldPassword, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(newPassword, confirm) {
		failure("Passwords do not match")
		return nil
	}

	if err := a.users.ChangePassword(ctx, a.userName, oldPassword, newPassword); err != nil {
		return err
	}
	success("Password changed successfully")
	return nil
}

// EditProfile prompts for each editable profile field. Empty answers keep
// the current value.
func (a *App) EditProfile(ctx context.Context) error {
	heading("📝 Update Profile")
	printlnFn("  (Press Enter to skip)")
	printlnFn()

	prompts := []struct {
		key   string
		label string
	}{
		{models.ProfileDisplayName, "Display Name"},
		{models.ProfileAvatar, "Avatar"},
		{models.ProfileDiscord, "Discord Username"},
		{models.ProfileGithub, "GitHub Handle"},
	}

	fields := make(map[string]string)
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			fields[p.key] = v
		}
	}

	if len(fields) == 0 {
		info("No changes made")
		return nil
	}
	if err := a.users.UpdateProfile(ctx, a.userName, fields); err != nil {
		return err
	}
	success("Profile updated")
	return nil
}
