// Package settings holds the user preference store (timezone) with the same
// local/remote duality as the entry store: local cache first, remote profile
// authoritative when available, write-through on change.
package settings

import (
	"context"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/localstore"
	"github.com/palpal-apps/work-tracker/internal/logging"
	"github.com/palpal-apps/work-tracker/internal/remote"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// SettingsStore manages user preferences. No locking: concurrent writers to
// the remote profile could race, acceptable for single-user sessions.
type SettingsStore struct {
	local    localstore.Store
	remote   remote.DocumentStore
	timezone string
}

// New creates a settings store over the local cache and optional remote
// document store. Call Load before use.
func New(local localstore.Store, docs remote.DocumentStore) *SettingsStore {
	return &SettingsStore{
		local:    local,
		remote:   docs,
		timezone: timeutil.SystemTimezone(),
	}
}

// Load resolves the timezone preference: system zone as the default, local
// cache next, remote profile last. A remote value found in the profile is
// written back to the local cache.
func (s *SettingsStore) Load(ctx context.Context) error {
	cached, found, err := s.local.Get(localstore.KeyTimezone)
	if err != nil {
		return err
	}
	if found && cached != "" {
		s.timezone = cached
	}

	if !s.authenticated() {
		return nil
	}

	profile, err := s.remote.GetUserProfile(ctx, s.remote.User().UID)
	if err != nil {
		logging.Warnf("failed to load cloud settings: %v", err)
		return nil
	}
	if tz := profileTimezone(profile); tz != "" {
		s.timezone = tz
		if err := s.local.Set(localstore.KeyTimezone, tz); err != nil {
			return err
		}
	}
	return nil
}

// Timezone returns the current IANA zone preference.
func (s *SettingsStore) Timezone() string {
	return s.timezone
}

// SetTimezone stores the preference: local cache synchronously, then a
// best-effort read-modify-write merge into the remote profile that leaves
// unrelated profile fields untouched.
func (s *SettingsStore) SetTimezone(ctx context.Context, timezone string) error {
	s.timezone = timezone
	if err := s.local.Set(localstore.KeyTimezone, timezone); err != nil {
		return err
	}

	if !s.authenticated() {
		return nil
	}

	uid := s.remote.User().UID
	profile, err := s.remote.GetUserProfile(ctx, uid)
	if err != nil {
		logging.Warnf("failed to save settings to cloud: %v", err)
		return nil
	}
	if profile == nil {
		profile = domain.Profile{}
	}

	settings, _ := profile["settings"].(map[string]interface{})
	if settings == nil {
		settings = map[string]interface{}{}
	}
	settings["timezone"] = timezone
	profile["settings"] = settings

	if err := s.remote.SetUserProfile(ctx, profile, uid); err != nil {
		logging.Warnf("failed to save settings to cloud: %v", err)
	}
	return nil
}

func (s *SettingsStore) authenticated() bool {
	return s.remote != nil && s.remote.IsAuthenticated() && s.remote.User() != nil
}

func profileTimezone(profile domain.Profile) string {
	if profile == nil {
		return ""
	}
	settings, ok := profile["settings"].(map[string]interface{})
	if !ok {
		return ""
	}
	tz, _ := settings["timezone"].(string)
	return tz
}
