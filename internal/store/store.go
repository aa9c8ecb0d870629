// Package store owns the in-memory entry collection and the single active
// session slot. Every mutation mirrors synchronously to the local cache;
// remote sync is best-effort and never rolls back a local change.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/localstore"
	"github.com/palpal-apps/work-tracker/internal/logging"
	"github.com/palpal-apps/work-tracker/internal/remote"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
	"github.com/palpal-apps/work-tracker/internal/validation"
)

// Update holds the fields UpdateEntry may change. Nil fields are left as-is.
type Update struct {
	Tags     *[]string
	ClockOut *time.Time
}

// EntryStore manages time entries and the active session. Local state is the
// source of truth; the remote document store, when present and authenticated,
// is kept in sync opportunistically.
type EntryStore struct {
	local     localstore.Store
	remote    remote.DocumentStore
	validator *validation.EntryValidator

	entries   []domain.TimeEntry
	active    *domain.TimeEntry
	temporary bool

	now func() time.Time
}

// New creates an entry store over the given local cache and optional remote
// document store (nil for local-only mode). Call Load before use.
func New(local localstore.Store, docs remote.DocumentStore) *EntryStore {
	return &EntryStore{
		local:     local,
		remote:    docs,
		validator: validation.NewEntryValidator(),
		now:       func() time.Time { return timeutil.Clock() },
	}
}

// Load populates the store. With an authenticated remote the cloud collection
// is authoritative, including when it is empty; a remote error falls back to
// the local cache. Without authentication the local cache is loaded and the
// data is flagged temporary. The active session always comes from local.
func (s *EntryStore) Load(ctx context.Context) error {
	s.entries = nil
	s.temporary = false

	if s.authenticated() {
		items, err := s.remote.GetAllItems(ctx, remote.Project, remote.SessionsCollection)
		if err != nil {
			logging.Warnf("failed to load cloud data, using local cache: %v", err)
			cached, _, lerr := s.cachedEntries()
			if lerr != nil {
				return lerr
			}
			s.entries = cached
		} else {
			sortByClockInDesc(items)
			s.entries = items
		}
	} else {
		cached, found, err := s.cachedEntries()
		if err != nil {
			return err
		}
		s.entries = cached
		s.temporary = found && len(cached) > 0
	}

	return s.loadActive()
}

func (s *EntryStore) loadActive() error {
	raw, found, err := s.local.Get(localstore.KeyCurrentSession)
	if err != nil {
		return err
	}
	if !found {
		s.active = nil
		return nil
	}

	var entry domain.TimeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logging.Warnf("failed to parse cached active session, ignoring: %v", err)
		s.active = nil
		return nil
	}
	s.active = &entry
	return nil
}

// cachedEntries reads the local collection. Malformed cache content is logged
// and treated as empty rather than failing the load.
func (s *EntryStore) cachedEntries() ([]domain.TimeEntry, bool, error) {
	raw, found, err := s.local.Get(localstore.KeyTimeSessions)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var entries []domain.TimeEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logging.Warnf("failed to parse cached sessions, starting empty: %v", err)
		return nil, false, nil
	}
	return entries, true, nil
}

// Entries returns a copy of the historical collection, most recent first.
func (s *EntryStore) Entries() []domain.TimeEntry {
	out := make([]domain.TimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Active returns a copy of the running session, or nil.
func (s *EntryStore) Active() *domain.TimeEntry {
	if s.active == nil {
		return nil
	}
	entry := *s.active
	return &entry
}

// Temporary reports whether the loaded data came from the local cache without
// cloud backing.
func (s *EntryStore) Temporary() bool {
	return s.temporary
}

// Find returns the entry with the given id, checking the active slot first.
func (s *EntryStore) Find(id int64) (domain.TimeEntry, bool) {
	if s.active != nil && s.active.ID == id {
		return *s.active, true
	}
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.TimeEntry{}, false
}

// StartSession begins a new active session. A no-op when a session is already
// running.
func (s *EntryStore) StartSession(tags []string) error {
	if s.active != nil {
		return nil
	}
	if err := s.validator.ValidateTags(tags); err != nil {
		return err
	}

	now := s.now()
	s.active = &domain.TimeEntry{
		ID:      domain.NewEntryID(now),
		ClockIn: now,
		Tags:    tags,
	}
	return s.persistActive()
}

// StopSession closes the active session, moves it to the head of the
// collection, and syncs the completed entry best-effort. A no-op when no
// session is running.
func (s *EntryStore) StopSession(ctx context.Context) error {
	if s.active == nil {
		return nil
	}

	now := s.now()
	completed := *s.active
	completed.ClockOut = &now

	s.entries = append([]domain.TimeEntry{completed}, s.entries...)
	s.active = nil

	if err := s.persistEntries(); err != nil {
		return err
	}
	if err := s.persistActive(); err != nil {
		return err
	}

	s.syncEntry(ctx, completed)
	return nil
}

// AddEntry inserts an entry, keeps the collection sorted by clock-in
// descending, and syncs it best-effort.
func (s *EntryStore) AddEntry(ctx context.Context, entry domain.TimeEntry) error {
	s.entries = append([]domain.TimeEntry{entry}, s.entries...)
	sortByClockInDesc(s.entries)

	if err := s.persistEntries(); err != nil {
		return err
	}

	s.syncEntry(ctx, entry)
	return nil
}

// AddManualSubEntry records a tagged sub-interval inside an existing session.
// Clock times are "HH:MM" strings placed on the parent's start date; a
// clock-out at or before the clock-in rolls to the next day. The interval must
// fall within the parent's bounds (now, for a still-open parent).
func (s *EntryStore) AddManualSubEntry(ctx context.Context, parentID int64, tag, clockIn, clockOut string) (domain.TimeEntry, error) {
	parent, ok := s.Find(parentID)
	if !ok {
		return domain.TimeEntry{}, errors.NewNotFoundError("entry", strconv.FormatInt(parentID, 10))
	}

	now := s.now()
	in, err := composeOnDate(parent.ClockIn, clockIn)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	out, err := composeOnDate(parent.ClockIn, clockOut)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if !out.After(in) {
		out = out.AddDate(0, 0, 1)
	}

	if err := s.validator.ValidateManualSubEntry(parent, tag, in, out, now); err != nil {
		return domain.TimeEntry{}, err
	}

	entry := domain.TimeEntry{
		ID:       domain.NewEntryID(now),
		ClockIn:  in,
		ClockOut: &out,
		Tags:     []string{tag},
		ParentID: &parent.ID,
		IsManual: true,
	}
	if err := s.AddEntry(ctx, entry); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

// composeOnDate places an "HH:MM" wall-clock time on base's calendar date, in
// base's zone.
func composeOnDate(base time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("time", hhmm, "must be in HH:MM format")
	}
	return time.Date(base.Year(), base.Month(), base.Day(),
		clock.Hour(), clock.Minute(), 0, 0, base.Location()), nil
}

// UpdateEntry merges the update into the entry with the given id. Changes to
// the active session stay local; changes to a historical entry re-sync that
// entry best-effort.
func (s *EntryStore) UpdateEntry(ctx context.Context, id int64, update Update) error {
	if s.active != nil && s.active.ID == id {
		applyUpdate(s.active, update)
		return s.persistActive()
	}

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		applyUpdate(&s.entries[i], update)
		if err := s.persistEntries(); err != nil {
			return err
		}
		s.syncEntry(ctx, s.entries[i])
		return nil
	}
	return errors.NewNotFoundError("entry", strconv.FormatInt(id, 10))
}

func applyUpdate(entry *domain.TimeEntry, update Update) {
	if update.Tags != nil {
		entry.Tags = *update.Tags
	}
	if update.ClockOut != nil {
		entry.ClockOut = update.ClockOut
	}
}

// AddTags merges tags into the entry's tag list, dropping duplicates.
func (s *EntryStore) AddTags(ctx context.Context, id int64, tags []string) error {
	if err := s.validator.ValidateTags(tags); err != nil {
		return err
	}
	entry, ok := s.Find(id)
	if !ok {
		return errors.NewNotFoundError("entry", strconv.FormatInt(id, 10))
	}
	merged := entry.MergeTags(tags)
	return s.UpdateEntry(ctx, id, Update{Tags: &merged})
}

// RemoveTags drops the given tags from the entry's tag list. Absent tags are
// ignored.
func (s *EntryStore) RemoveTags(ctx context.Context, id int64, tags []string) error {
	entry, ok := s.Find(id)
	if !ok {
		return errors.NewNotFoundError("entry", strconv.FormatInt(id, 10))
	}

	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}
	kept := make([]string, 0, len(entry.Tags))
	for _, t := range entry.Tags {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	return s.UpdateEntry(ctx, id, Update{Tags: &kept})
}

// DeleteEntry removes the entry locally and best-effort remotely. Deleting an
// absent id is a no-op.
func (s *EntryStore) DeleteEntry(ctx context.Context, id int64) error {
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept

	if err := s.persistEntries(); err != nil {
		return err
	}

	s.deleteRemote(ctx, id)
	return nil
}

// ClearAllData empties the collection and the active slot and drops the local
// cached copies. The remote store is left untouched.
func (s *EntryStore) ClearAllData() error {
	s.entries = nil
	s.active = nil

	if err := s.local.Remove(localstore.KeyTimeSessions); err != nil {
		return err
	}
	return s.local.Remove(localstore.KeyCurrentSession)
}

// ClearOnDate removes every entry whose clock-in falls on the given calendar
// date, in date's zone, and returns how many were removed. Local-only, like
// ClearAllData; remote copies are deleted best-effort.
func (s *EntryStore) ClearOnDate(ctx context.Context, date time.Time) (int, error) {
	y, m, d := date.Date()
	kept := s.entries[:0:0]
	var removed []int64
	for _, e := range s.entries {
		ey, em, ed := e.ClockIn.In(date.Location()).Date()
		if ey == y && em == m && ed == d {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return 0, nil
	}
	s.entries = kept

	if err := s.persistEntries(); err != nil {
		return 0, err
	}
	for _, id := range removed {
		s.deleteRemote(ctx, id)
	}
	return len(removed), nil
}

// LoadDemoData merges ~30 days of synthetic sessions into the collection and
// syncs them best-effort.
func (s *EntryStore) LoadDemoData(ctx context.Context) (int, error) {
	demo := GenerateDemoData(s.now())

	s.entries = append(demo, s.entries...)
	sortByClockInDesc(s.entries)

	if err := s.persistEntries(); err != nil {
		return 0, err
	}
	for _, entry := range demo {
		s.syncEntry(ctx, entry)
	}
	return len(demo), nil
}

// DeleteAllDemoSessions removes every entry flagged as demo data, locally and
// best-effort remotely, and returns how many were removed.
func (s *EntryStore) DeleteAllDemoSessions(ctx context.Context) (int, error) {
	kept := s.entries[:0:0]
	var removed []int64
	for _, e := range s.entries {
		if e.IsDemo {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept

	if err := s.persistEntries(); err != nil {
		return 0, err
	}
	for _, id := range removed {
		s.deleteRemote(ctx, id)
	}
	return len(removed), nil
}

func (s *EntryStore) authenticated() bool {
	return s.remote != nil && s.remote.IsAuthenticated()
}

// persistEntries mirrors the collection to the local cache. Runs on every
// collection mutation, before any remote call.
func (s *EntryStore) persistEntries() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return errors.NewStorageError("encode sessions", err)
	}
	return s.local.Set(localstore.KeyTimeSessions, string(data))
}

// persistActive mirrors the active slot to the local cache, removing the key
// when the slot is empty.
func (s *EntryStore) persistActive() error {
	if s.active == nil {
		return s.local.Remove(localstore.KeyCurrentSession)
	}
	data, err := json.Marshal(s.active)
	if err != nil {
		return errors.NewStorageError("encode active session", err)
	}
	return s.local.Set(localstore.KeyCurrentSession, string(data))
}

// syncEntry pushes one entry to the remote store. Failures are logged and
// swallowed; the local mutation has already been committed.
func (s *EntryStore) syncEntry(ctx context.Context, entry domain.TimeEntry) {
	if !s.authenticated() {
		return
	}
	if _, err := s.remote.SaveItem(ctx, remote.Project, remote.SessionsCollection, entry); err != nil {
		logging.Warnf("cloud sync failed, data kept locally: %v", err)
	}
}

// deleteRemote removes one entry from the remote store. Failures are logged
// and swallowed.
func (s *EntryStore) deleteRemote(ctx context.Context, id int64) {
	if !s.authenticated() {
		return
	}
	if err := s.remote.DeleteItem(ctx, remote.Project, remote.SessionsCollection, id); err != nil {
		logging.Warnf("failed to delete cloud copy of entry %d: %v", id, err)
	}
}

func sortByClockInDesc(entries []domain.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ClockIn.After(entries[j].ClockIn)
	})
}
