package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/palpal-apps/work-tracker/internal/config"
	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
)

// PalPalStore talks to the shared PalPal document service over HTTP. Document
// keys are server-assigned, so saves and deletes addressed by the entry's
// logical id resolve the document key first.
type PalPalStore struct {
	baseURL    string
	httpClient *http.Client
	user       User

	mu   sync.Mutex
	keys map[int64]string // logical entry id -> server document key
}

// NewPalPalStore creates a store backed by the shared PalPal service using a
// bearer token from configuration.
func NewPalPalStore(ctx context.Context, cfg config.PalPalConfig, user User) *PalPalStore {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	return &PalPalStore{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
		user:       user,
		keys:       make(map[int64]string),
	}
}

// IsAuthenticated reports whether the backend has a usable identity.
func (p *PalPalStore) IsAuthenticated() bool {
	return p.user.UID != ""
}

// User returns the authenticated user, or nil.
func (p *PalPalStore) User() *User {
	if !p.IsAuthenticated() {
		return nil
	}
	u := p.user
	return &u
}

// itemDocument is the service's document envelope.
type itemDocument struct {
	Key  string           `json:"key"`
	Data domain.TimeEntry `json:"data"`
}

type itemsResponse struct {
	Items []itemDocument `json:"items"`
}

type keyResponse struct {
	Key string `json:"key"`
}

func (p *PalPalStore) collectionURL(project, collection string) string {
	return fmt.Sprintf("%s/projects/%s/%s", p.baseURL, project, collection)
}

// SaveItem creates or overwrites the document matching entry.ID.
func (p *PalPalStore) SaveItem(ctx context.Context, project, collection string, entry domain.TimeEntry) (string, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return "", errors.NewSyncError("encode entry", err)
	}

	key, err := p.resolveKey(ctx, project, collection, entry.ID)
	if err != nil {
		return "", err
	}

	if key != "" {
		// Overwrite the existing document.
		if err := p.do(ctx, http.MethodPut, p.collectionURL(project, collection)+"/"+key, body, nil); err != nil {
			return "", err
		}
		return key, nil
	}

	var created keyResponse
	if err := p.do(ctx, http.MethodPost, p.collectionURL(project, collection), body, &created); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.keys[entry.ID] = created.Key
	p.mu.Unlock()
	return created.Key, nil
}

// GetAllItems returns every document in the collection.
func (p *PalPalStore) GetAllItems(ctx context.Context, project, collection string) ([]domain.TimeEntry, error) {
	var resp itemsResponse
	if err := p.do(ctx, http.MethodGet, p.collectionURL(project, collection), nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.TimeEntry, 0, len(resp.Items))
	p.mu.Lock()
	for _, item := range resp.Items {
		p.keys[item.Data.ID] = item.Key
		entries = append(entries, item.Data)
	}
	p.mu.Unlock()
	return entries, nil
}

// DeleteItem removes the document whose logical id matches id.
func (p *PalPalStore) DeleteItem(ctx context.Context, project, collection string, id int64) error {
	key, err := p.resolveKey(ctx, project, collection, id)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}

	if err := p.do(ctx, http.MethodDelete, p.collectionURL(project, collection)+"/"+key, nil, nil); err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.keys, id)
	p.mu.Unlock()
	return nil
}

// GetUserProfile returns the user's profile document, or nil when none exists.
func (p *PalPalStore) GetUserProfile(ctx context.Context, uid string) (domain.Profile, error) {
	var profile domain.Profile
	err := p.do(ctx, http.MethodGet, p.baseURL+"/profiles/"+uid, nil, &profile)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// SetUserProfile writes the profile document.
func (p *PalPalStore) SetUserProfile(ctx context.Context, profile domain.Profile, uid string) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return errors.NewSyncError("encode profile", err)
	}
	return p.do(ctx, http.MethodPut, p.baseURL+"/profiles/"+uid, body, nil)
}

// resolveKey maps a logical entry id to the server document key, listing the
// collection when the key has not been seen yet.
func (p *PalPalStore) resolveKey(ctx context.Context, project, collection string, id int64) (string, error) {
	p.mu.Lock()
	key, ok := p.keys[id]
	p.mu.Unlock()
	if ok {
		return key, nil
	}

	if _, err := p.GetAllItems(ctx, project, collection); err != nil {
		return "", err
	}

	p.mu.Lock()
	key = p.keys[id]
	p.mu.Unlock()
	return key, nil
}

// do executes one JSON request. Non-2xx responses map to sync errors, 404 to
// not-found.
func (p *PalPalStore) do(ctx context.Context, method, url string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.NewSyncError("create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.NewSyncError(method+" "+url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewSyncError("read response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError("document", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewSyncError(method+" "+url, fmt.Errorf("service returned %d: %s", resp.StatusCode, string(respBody)))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.NewSyncError("decode response", err)
		}
	}
	return nil
}
