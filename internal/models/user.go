// Package models declares the records nkauth persists and the views it hands
// to the presentation layer.
package models

import "github.com/nullsec/nkauth/internal/timex"

// Profile keys accepted by profile updates.
const (
	ProfileDisplayName = "display_name"
	ProfileAvatar      = "avatar"
	ProfileDiscord     = "discord"
	ProfileGithub      = "github"
)

// DefaultAvatar is assigned at registration.
const DefaultAvatar = "default"

type Profile struct {
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Discord     string `json:"discord"`
	Github      string `json:"github"`
}

// User is the persisted user record, keyed by username.
type User struct {
	PasswordHash string           `json:"password_hash"`
	Salt         string           `json:"salt"`
	Email        string           `json:"email"`
	CreatedAt    timex.Timestamp  `json:"created_at"`
	LastLogin    *timex.Timestamp `json:"last_login"`
	Profile      Profile          `json:"profile"`
}

// UserInfo is the secret-free view of a user returned to callers.
type UserInfo struct {
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	CreatedAt   timex.Timestamp  `json:"created_at"`
	LastLogin   *timex.Timestamp `json:"last_login"`
	Profile     Profile          `json:"profile"`
	LicenseTier Tier             `json:"license_tier"`
	IsPremium   bool             `json:"is_premium"`
	LicenseKey  string           `json:"license_key,omitempty"`
}
