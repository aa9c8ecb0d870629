package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/localstore"
	"github.com/palpal-apps/work-tracker/internal/remote"
	"github.com/palpal-apps/work-tracker/internal/validation"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, docs remote.DocumentStore) (*EntryStore, localstore.Store) {
	t.Helper()
	local, err := localstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	s := New(local, docs)
	s.now = func() time.Time { return testNow }
	return s, local
}

func closedEntry(id int64, clockIn time.Time, d time.Duration, tags ...string) domain.TimeEntry {
	out := clockIn.Add(d)
	return domain.TimeEntry{ID: id, ClockIn: clockIn, ClockOut: &out, Tags: tags}
}

func TestEntryStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
	s, local := newTestStore(t, docs)

	t.Run("should create an active session on start", func(t *testing.T) {
		require.NoError(t, s.StartSession([]string{"Dev"}))

		active := s.Active()
		require.NotNil(t, active)
		assert.True(t, active.IsOpen())
		assert.Equal(t, testNow, active.ClockIn)
		assert.Equal(t, []string{"Dev"}, active.Tags)

		_, found, err := local.Get(localstore.KeyCurrentSession)
		require.NoError(t, err)
		assert.True(t, found, "active session should be mirrored locally")
	})

	t.Run("should ignore start while a session is running", func(t *testing.T) {
		before := s.Active()
		require.NoError(t, s.StartSession([]string{"Other"}))
		assert.Equal(t, before, s.Active())
		assert.Empty(t, s.Entries())
	})

	t.Run("should close and archive the session on stop", func(t *testing.T) {
		id := s.Active().ID
		require.NoError(t, s.StopSession(ctx))

		assert.Nil(t, s.Active())
		entries := s.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
		require.NotNil(t, entries[0].ClockOut)
		assert.Equal(t, testNow, *entries[0].ClockOut)

		_, found, err := local.Get(localstore.KeyCurrentSession)
		require.NoError(t, err)
		assert.False(t, found, "active key should be removed when the slot empties")

		assert.Equal(t, 1, docs.Count(remote.SessionsCollection))
	})

	t.Run("should ignore stop without an active session", func(t *testing.T) {
		require.NoError(t, s.StopSession(ctx))
		assert.Len(t, s.Entries(), 1)
	})
}

func TestEntryStore_StopKeepsLocalWhenSyncFails(t *testing.T) {
	ctx := context.Background()
	docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
	s, _ := newTestStore(t, docs)

	require.NoError(t, s.StartSession(nil))
	docs.FailNext = true

	require.NoError(t, s.StopSession(ctx), "sync failure must not surface")
	assert.Len(t, s.Entries(), 1)
	assert.Nil(t, s.Active())
}

func TestEntryStore_Load(t *testing.T) {
	ctx := context.Background()

	seedLocal := func(t *testing.T, local localstore.Store, entries []domain.TimeEntry) {
		t.Helper()
		s := &EntryStore{local: local, entries: entries}
		require.NoError(t, s.persistEntries())
	}

	t.Run("should treat an empty cloud collection as authoritative", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, local := newTestStore(t, docs)
		seedLocal(t, local, []domain.TimeEntry{closedEntry(1, testNow.Add(-time.Hour), time.Hour)})

		require.NoError(t, s.Load(ctx))
		assert.Empty(t, s.Entries(), "stale local cache must not shadow an empty cloud collection")
		assert.False(t, s.Temporary())
	})

	t.Run("should sort cloud entries most recent first", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, _ := newTestStore(t, docs)
		_, err := docs.SaveItem(ctx, remote.Project, remote.SessionsCollection,
			closedEntry(1, testNow.Add(-3*time.Hour), time.Hour))
		require.NoError(t, err)
		_, err = docs.SaveItem(ctx, remote.Project, remote.SessionsCollection,
			closedEntry(2, testNow.Add(-time.Hour), time.Hour))
		require.NoError(t, err)

		require.NoError(t, s.Load(ctx))
		entries := s.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, int64(2), entries[0].ID)
		assert.Equal(t, int64(1), entries[1].ID)
	})

	t.Run("should fall back to local cache on cloud error", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, local := newTestStore(t, docs)
		seedLocal(t, local, []domain.TimeEntry{closedEntry(1, testNow.Add(-time.Hour), time.Hour)})
		docs.FailNext = true

		require.NoError(t, s.Load(ctx))
		assert.Len(t, s.Entries(), 1)
		assert.False(t, s.Temporary())
	})

	t.Run("should flag local-only data as temporary", func(t *testing.T) {
		s, local := newTestStore(t, nil)
		seedLocal(t, local, []domain.TimeEntry{closedEntry(1, testNow.Add(-time.Hour), time.Hour)})

		require.NoError(t, s.Load(ctx))
		assert.Len(t, s.Entries(), 1)
		assert.True(t, s.Temporary())
	})

	t.Run("should start empty when nothing is cached", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		require.NoError(t, s.Load(ctx))
		assert.Empty(t, s.Entries())
		assert.False(t, s.Temporary())
	})

	t.Run("should treat malformed cached sessions as empty", func(t *testing.T) {
		s, local := newTestStore(t, nil)
		require.NoError(t, local.Set(localstore.KeyTimeSessions, "{not json"))

		require.NoError(t, s.Load(ctx))
		assert.Empty(t, s.Entries())
		assert.False(t, s.Temporary())
	})

	t.Run("should always load the active session from local", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, local := newTestStore(t, docs)
		require.NoError(t, local.Set(localstore.KeyCurrentSession,
			`{"id":7,"clockIn":"2024-01-15T09:00:00Z","clockOut":null,"tags":["Dev"]}`))

		require.NoError(t, s.Load(ctx))
		active := s.Active()
		require.NotNil(t, active)
		assert.Equal(t, int64(7), active.ID)
	})
}

func TestEntryStore_AddEntrySortsByClockInDesc(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	require.NoError(t, s.AddEntry(ctx, closedEntry(1, testNow.Add(-time.Hour), time.Hour)))
	require.NoError(t, s.AddEntry(ctx, closedEntry(2, testNow.Add(-3*time.Hour), time.Hour)))
	require.NoError(t, s.AddEntry(ctx, closedEntry(3, testNow.Add(-2*time.Hour), time.Hour)))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{1, 3, 2}, []int64{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestEntryStore_AddManualSubEntry(t *testing.T) {
	ctx := context.Background()

	parent := closedEntry(100, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), 8*time.Hour, "Dev")

	t.Run("should place clock times on the parent's date", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		require.NoError(t, s.AddEntry(ctx, parent))

		entry, err := s.AddManualSubEntry(ctx, 100, "Review", "10:00", "11:30")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), entry.ClockIn)
		require.NotNil(t, entry.ClockOut)
		assert.Equal(t, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC), *entry.ClockOut)
		assert.Equal(t, []string{"Review"}, entry.Tags)
		require.NotNil(t, entry.ParentID)
		assert.Equal(t, int64(100), *entry.ParentID)
		assert.True(t, entry.IsManual)
		assert.Len(t, s.Entries(), 2)
	})

	t.Run("should roll clock-out to the next day when not after clock-in", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		overnight := domain.TimeEntry{ID: 200, ClockIn: time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC)}
		end := time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)
		overnight.ClockOut = &end
		require.NoError(t, s.AddEntry(ctx, overnight))

		entry, err := s.AddManualSubEntry(ctx, 200, "Night", "23:00", "01:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC), *entry.ClockOut)
	})

	t.Run("should reject intervals outside the parent bounds", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		require.NoError(t, s.AddEntry(ctx, parent))

		_, err := s.AddManualSubEntry(ctx, 100, "Early", "08:00", "10:00")
		require.Error(t, err)
		assert.True(t, validation.IsValidationError(err))
		assert.Len(t, s.Entries(), 1, "rejected mutation must not change state")
	})

	t.Run("should reject malformed clock times", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		require.NoError(t, s.AddEntry(ctx, parent))

		_, err := s.AddManualSubEntry(ctx, 100, "Dev", "ten", "11:00")
		require.Error(t, err)
	})

	t.Run("should report an unknown parent", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		_, err := s.AddManualSubEntry(ctx, 999, "Dev", "10:00", "11:00")
		require.Error(t, err)
	})
}

func TestEntryStore_UpdateEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("should merge into the active slot without touching the cloud", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, _ := newTestStore(t, docs)
		require.NoError(t, s.StartSession([]string{"Dev"}))
		id := s.Active().ID

		require.NoError(t, s.AddTags(ctx, id, []string{"Review", "Dev"}))
		assert.Equal(t, []string{"Dev", "Review"}, s.Active().Tags, "duplicates merge, first-seen order kept")
		assert.Equal(t, 0, docs.Count(remote.SessionsCollection))
	})

	t.Run("should re-sync a historical entry", func(t *testing.T) {
		docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
		s, _ := newTestStore(t, docs)
		require.NoError(t, s.AddEntry(ctx, closedEntry(1, testNow.Add(-time.Hour), time.Hour, "Dev")))

		require.NoError(t, s.AddTags(ctx, 1, []string{"Review"}))
		assert.Equal(t, []string{"Dev", "Review"}, s.Entries()[0].Tags)

		items, err := docs.GetAllItems(ctx, remote.Project, remote.SessionsCollection)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"Dev", "Review"}, items[0].Tags)
	})

	t.Run("should remove tags", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		require.NoError(t, s.AddEntry(ctx, closedEntry(1, testNow.Add(-time.Hour), time.Hour, "Dev", "Review")))

		require.NoError(t, s.RemoveTags(ctx, 1, []string{"Dev", "Absent"}))
		assert.Equal(t, []string{"Review"}, s.Entries()[0].Tags)
	})

	t.Run("should report an unknown id", func(t *testing.T) {
		s, _ := newTestStore(t, nil)
		err := s.UpdateEntry(ctx, 42, Update{})
		require.Error(t, err)
	})
}

func TestEntryStore_DeleteEntryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
	s, _ := newTestStore(t, docs)

	require.NoError(t, s.AddEntry(ctx, closedEntry(1, testNow.Add(-2*time.Hour), time.Hour)))
	require.NoError(t, s.AddEntry(ctx, closedEntry(2, testNow.Add(-time.Hour), time.Hour)))

	require.NoError(t, s.DeleteEntry(ctx, 1))
	first := s.Entries()

	require.NoError(t, s.DeleteEntry(ctx, 1))
	assert.Equal(t, first, s.Entries())
	assert.Equal(t, 1, docs.Count(remote.SessionsCollection))
}

func TestEntryStore_ClearAllData(t *testing.T) {
	ctx := context.Background()
	s, local := newTestStore(t, nil)

	require.NoError(t, s.AddEntry(ctx, closedEntry(1, testNow.Add(-time.Hour), time.Hour)))
	require.NoError(t, s.StartSession(nil))

	require.NoError(t, s.ClearAllData())
	assert.Empty(t, s.Entries())
	assert.Nil(t, s.Active())

	_, found, err := local.Get(localstore.KeyTimeSessions)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = local.Get(localstore.KeyCurrentSession)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEntryStore_ClearOnDate(t *testing.T) {
	ctx := context.Background()
	docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
	s, _ := newTestStore(t, docs)

	jan14 := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	jan15 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddEntry(ctx, closedEntry(1, jan14, time.Hour)))
	require.NoError(t, s.AddEntry(ctx, closedEntry(2, jan14.Add(3*time.Hour), time.Hour)))
	require.NoError(t, s.AddEntry(ctx, closedEntry(3, jan15, time.Hour)))

	removed, err := s.ClearOnDate(ctx, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ID)
	assert.Equal(t, 1, docs.Count(remote.SessionsCollection))

	removed, err = s.ClearOnDate(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEntryStore_DemoData(t *testing.T) {
	ctx := context.Background()
	docs := remote.NewMemoryStore(&remote.User{UID: "u1"})
	s, _ := newTestStore(t, docs)

	loaded, err := s.LoadDemoData(ctx)
	require.NoError(t, err)
	require.Positive(t, loaded)
	require.Len(t, s.Entries(), loaded)

	for _, e := range s.Entries() {
		assert.True(t, e.IsDemo)
		assert.True(t, e.IsManual)
		require.NotNil(t, e.ClockOut)
		d := e.Duration(testNow)
		assert.GreaterOrEqual(t, d, 30*time.Minute)
		assert.LessOrEqual(t, d, 4*time.Hour)
	}

	removed, err := s.DeleteAllDemoSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, loaded, removed)
	assert.Empty(t, s.Entries())
	assert.Equal(t, 0, docs.Count(remote.SessionsCollection))
}

func TestGenerateDemoData(t *testing.T) {
	entries := GenerateDemoData(testNow)
	require.NotEmpty(t, entries)

	earliest := testNow.AddDate(0, 0, -30)
	for _, e := range entries {
		assert.True(t, e.ClockIn.After(earliest), "entries span the last 30 days")
	}
}
