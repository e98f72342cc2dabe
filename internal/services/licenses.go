package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nullsec/nkauth/internal/common"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/models"
	"github.com/nullsec/nkauth/internal/repositories"
	"github.com/nullsec/nkauth/internal/timex"
)

// License key layout: NKIA-TTxx-xxxx-xxxx-xxxx.
const (
	LicenseKeyLen    = 24
	LicenseKeyPrefix = "NKIA-"
	licenseGroups    = 5

	licensesName = "licenses"
)

var tierCodes = map[string]models.Tier{
	"PR": models.TierPremium,
	"EN": models.TierEnterprise,
}

// ValidateLicenseFormat checks the shape of key and derives its tier from
// the first two characters of the second group. A well-formed key with an
// unknown tier code is valid and free.
func ValidateLicenseFormat(key string) (bool, models.Tier) {
	if utf8.RuneCountInString(key) != LicenseKeyLen || !strings.HasPrefix(key, LicenseKeyPrefix) {
		return false, models.TierFree
	}
	parts := strings.Split(key, "-")
	if len(parts) != licenseGroups {
		return false, models.TierFree
	}

	code := []rune(parts[1])
	if len(code) > 2 {
		code = code[:2]
	}
	if tier, ok := tierCodes[string(code)]; ok {
		return true, tier
	}
	return true, models.TierFree
}

// MaskLicenseKey keeps the first two groups of key and masks the rest.
func MaskLicenseKey(key string) string {
	parts := strings.Split(key, "-")
	if len(parts) < 3 {
		return "****"
	}
	for i := 2; i < len(parts); i++ {
		parts[i] = "****"
	}
	return strings.Join(parts, "-")
}

// LicenseManager owns the license record of each user.
type LicenseManager struct {
	mu       sync.Mutex
	repo     repositories.Repository
	log      logging.Logger
	now      func() time.Time
	licenses map[string]models.License
	status   LoadStatus
}

func NewLicenseManager(ctx context.Context, repo repositories.Repository, log logging.Logger) *LicenseManager {
	m := &LicenseManager{
		repo: repo,
		log:  log.With("component", "licenses"),
		now:  time.Now,
	}
	m.licenses, m.repo, m.status = loadCollection[models.License](ctx, licensesName, repo, m.log)
	return m
}

func (m *LicenseManager) LoadStatus() LoadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// ValidateFormat is ValidateLicenseFormat.
func (m *LicenseManager) ValidateFormat(key string) (bool, models.Tier) {
	return ValidateLicenseFormat(key)
}

// Register stores key for username, replacing any previous license.
// Malformed keys fail with common.ErrInvalidLicenseKey.
func (m *LicenseManager) Register(ctx context.Context, username, key string) error {
	valid, tier := ValidateLicenseFormat(key)
	if !valid {
		return common.ErrInvalidLicenseKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l := models.License{
		Key:          key,
		Tier:         tier,
		RegisteredAt: timex.NewTimestamp(m.now()),
		Valid:        true,
	}
	if err := putRecord(ctx, m.repo, licensesName, username, l); err != nil {
		return err
	}
	m.licenses[username] = l

	m.log.Info(ctx, "license registered", "username", username, "tier", tier, "key", MaskLicenseKey(key))
	return nil
}

// TierOf returns the tier of username, free when there is no license.
func (m *LicenseManager) TierOf(username string) models.Tier {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.licenses[username]
	if !ok || l.Tier == "" {
		return models.TierFree
	}
	return l.Tier
}

func (m *LicenseManager) IsPremium(username string) bool {
	return m.TierOf(username).IsPremium()
}

// LicenseOf returns a copy of the license of username, or nil.
func (m *LicenseManager) LicenseOf(username string) *models.License {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.licenses[username]
	if !ok {
		return nil
	}
	return &l
}
