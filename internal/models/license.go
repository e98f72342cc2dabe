package models

import "github.com/nullsec/nkauth/internal/timex"

// Tier is a license level.
type Tier string

const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// IsPremium reports whether t unlocks premium features.
func (t Tier) IsPremium() bool {
	return t == TierPremium || t == TierEnterprise
}

// License is the persisted license record, keyed by username.
type License struct {
	Key          string          `json:"key"`
	Tier         Tier            `json:"tier"`
	RegisteredAt timex.Timestamp `json:"registered_at"`
	Valid        bool            `json:"valid"`
}
