// Package remote abstracts the optional authenticated document store that
// backs cloud sync. Two production backends exist: the shared PalPal service
// (used when the tracker runs inside the PalPal ecosystem) and a dedicated
// S3 bucket for standalone mode. The backend is chosen once, at startup, by
// the factory; nothing outside this package branches on the implementation.
package remote

import (
	"context"

	"github.com/palpal-apps/work-tracker/internal/domain"
)

// User identifies the authenticated remote user.
type User struct {
	UID   string
	Email string
}

// DocumentStore is the capability interface consumed by the entry and
// settings stores. Save and delete address documents by the entry's own
// logical id field, not the backend's document key; backends whose keys are
// server-assigned locate the document first (query-then-delete).
type DocumentStore interface {
	// IsAuthenticated reports whether the backend has a usable identity.
	IsAuthenticated() bool

	// User returns the authenticated user, or nil.
	User() *User

	// SaveItem creates or overwrites the document whose logical id matches
	// entry.ID and returns the backend document key.
	SaveItem(ctx context.Context, project, collection string, entry domain.TimeEntry) (string, error)

	// GetAllItems returns every document in the collection.
	GetAllItems(ctx context.Context, project, collection string) ([]domain.TimeEntry, error)

	// DeleteItem removes the document whose logical id matches id. Deleting
	// an absent id is not an error.
	DeleteItem(ctx context.Context, project, collection string, id int64) error

	// GetUserProfile returns the user's profile document, or nil when none
	// exists yet.
	GetUserProfile(ctx context.Context, uid string) (domain.Profile, error)

	// SetUserProfile writes the profile document (merge is the caller's
	// responsibility via read-modify-write).
	SetUserProfile(ctx context.Context, profile domain.Profile, uid string) error
}

// Project and collection names used by the work tracker.
const (
	Project            = "work-tracker"
	SessionsCollection = "sessions"
)
