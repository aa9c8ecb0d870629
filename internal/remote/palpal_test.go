package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palpal-apps/work-tracker/internal/config"
	"github.com/palpal-apps/work-tracker/internal/domain"
)

// fakePalPalService is a minimal in-memory stand-in for the shared document
// service.
type fakePalPalService struct {
	docs    map[string]domain.TimeEntry
	deletes []string
}

func newFakeService(t *testing.T) (*fakePalPalService, *httptest.Server) {
	svc := &fakePalPalService{docs: make(map[string]domain.TimeEntry)}
	mux := http.NewServeMux()

	mux.HandleFunc("/projects/work-tracker/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			resp := itemsResponse{}
			for key, data := range svc.docs {
				resp.Items = append(resp.Items, itemDocument{Key: key, Data: data})
			}
			json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var entry domain.TimeEntry
			require.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
			key := "doc-" + time.Now().Format("150405.000000000")
			svc.docs[key] = entry
			json.NewEncoder(w).Encode(keyResponse{Key: key})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/projects/work-tracker/sessions/", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[len("/projects/work-tracker/sessions/"):]
		switch r.Method {
		case http.MethodPut:
			var entry domain.TimeEntry
			require.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
			svc.docs[key] = entry
		case http.MethodDelete:
			delete(svc.docs, key)
			svc.deletes = append(svc.deletes, key)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return svc, server
}

func setupPalPalStore(t *testing.T) (*fakePalPalService, *PalPalStore) {
	svc, server := newFakeService(t)
	store := NewPalPalStore(context.Background(), config.PalPalConfig{
		Endpoint: server.URL,
		Token:    "test-token",
	}, User{UID: "u1", Email: "u1@example.com"})
	return svc, store
}

func TestPalPalStore_SaveCreatesThenOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, store := setupPalPalStore(t)

	first := entry(10)
	key, err := store.SaveItem(ctx, Project, SessionsCollection, first)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.Len(t, svc.docs, 1)

	updated := first
	updated.Tags = []string{"Updated"}
	key2, err := store.SaveItem(ctx, Project, SessionsCollection, updated)
	require.NoError(t, err)
	assert.Equal(t, key, key2)
	assert.Len(t, svc.docs, 1)
	assert.Equal(t, []string{"Updated"}, svc.docs[key].Tags)
}

func TestPalPalStore_DeleteResolvesServerKey(t *testing.T) {
	ctx := context.Background()
	svc, store := setupPalPalStore(t)

	// Seed a document the client has never seen, forcing query-then-delete.
	svc.docs["server-key-1"] = entry(42)

	require.NoError(t, store.DeleteItem(ctx, Project, SessionsCollection, 42))
	assert.Empty(t, svc.docs)
	assert.Equal(t, []string{"server-key-1"}, svc.deletes)
}

func TestPalPalStore_DeleteAbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, store := setupPalPalStore(t)

	require.NoError(t, store.DeleteItem(ctx, Project, SessionsCollection, 999))
	assert.Empty(t, svc.deletes)
}

func TestPalPalStore_GetAllItems(t *testing.T) {
	ctx := context.Background()
	svc, store := setupPalPalStore(t)
	svc.docs["k1"] = entry(1)
	svc.docs["k2"] = entry(2)

	items, err := store.GetAllItems(ctx, Project, SessionsCollection)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPalPalStore_MissingProfileIsNil(t *testing.T) {
	ctx := context.Background()
	_, store := setupPalPalStore(t)

	profile, err := store.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
