package remote

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
)

// MemoryStore is an in-memory DocumentStore used in tests. Like the shared
// service it assigns its own document keys, so deletes by logical id walk
// the collection. Failures can be injected to exercise the degrade-gracefully
// paths. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	user     *User
	docs     map[string]map[string]domain.TimeEntry // collection -> doc key -> entry
	profiles map[string]domain.Profile

	// FailNext makes every subsequent operation return a sync error.
	FailNext bool
}

// NewMemoryStore creates an in-memory store. A nil user means unauthenticated.
func NewMemoryStore(user *User) *MemoryStore {
	return &MemoryStore{
		user:     user,
		docs:     make(map[string]map[string]domain.TimeEntry),
		profiles: make(map[string]domain.Profile),
	}
}

// IsAuthenticated reports whether the store has a user identity.
func (m *MemoryStore) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// User returns the authenticated user, or nil.
func (m *MemoryStore) User() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *MemoryStore) failing() error {
	if m.FailNext {
		return errors.NewSyncError("injected failure", nil)
	}
	return nil
}

// SaveItem creates or overwrites the document matching entry.ID.
func (m *MemoryStore) SaveItem(ctx context.Context, project, collection string, entry domain.TimeEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return "", err
	}

	coll := m.docs[collection]
	if coll == nil {
		coll = make(map[string]domain.TimeEntry)
		m.docs[collection] = coll
	}

	for key, existing := range coll {
		if existing.ID == entry.ID {
			coll[key] = entry
			return key, nil
		}
	}

	key := uuid.NewString()
	coll[key] = entry
	return key, nil
}

// GetAllItems returns every document in the collection.
func (m *MemoryStore) GetAllItems(ctx context.Context, project, collection string) ([]domain.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failing(); err != nil {
		return nil, err
	}

	entries := make([]domain.TimeEntry, 0, len(m.docs[collection]))
	for _, entry := range m.docs[collection] {
		entries = append(entries, entry)
	}
	return entries, nil
}

// DeleteItem removes the document whose logical id matches id.
func (m *MemoryStore) DeleteItem(ctx context.Context, project, collection string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}

	for key, entry := range m.docs[collection] {
		if entry.ID == id {
			delete(m.docs[collection], key)
			return nil
		}
	}
	return nil
}

// GetUserProfile returns the stored profile, or nil.
func (m *MemoryStore) GetUserProfile(ctx context.Context, uid string) (domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failing(); err != nil {
		return nil, err
	}
	return m.profiles[uid], nil
}

// SetUserProfile stores the profile document.
func (m *MemoryStore) SetUserProfile(ctx context.Context, profile domain.Profile, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing(); err != nil {
		return err
	}
	m.profiles[uid] = profile
	return nil
}

// Count returns the number of documents in a collection. Test helper.
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[collection])
}
