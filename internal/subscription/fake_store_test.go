package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"
)

// fakeStore mimics the uniqueness rules of the SQL schema: token values are
// unique and a (user, kind) pair has at most one active token.
type fakeStore struct {
	mu       sync.Mutex
	settings map[string]store.IntegrationSettings
	tokens   []store.FeedToken

	// beforeCreate runs before an insert is checked; used to simulate a
	// concurrent writer.
	beforeCreate func(t *store.FeedToken)
	createErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]store.IntegrationSettings)}
}

func (f *fakeStore) GetIntegrationSettings(_ context.Context, userID string) (*store.IntegrationSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStore) UpsertIntegrationSettings(_ context.Context, settings *store.IntegrationSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[settings.UserID] = *settings
	return nil
}

func (f *fakeStore) CreateFeedToken(_ context.Context, token *store.FeedToken) error {
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook(token)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, t := range f.tokens {
		if t.Token == token.Token {
			return store.ErrAlreadyExists
		}
		if token.IsActive && t.IsActive && t.UserID == token.UserID && t.Kind == token.Kind {
			return store.ErrAlreadyExists
		}
	}
	f.tokens = append(f.tokens, *token)
	return nil
}

func (f *fakeStore) ListActiveFeedTokens(_ context.Context, userID string) ([]store.FeedToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.FeedToken
	for _, t := range f.tokens {
		if t.UserID == userID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) RevokeFeedToken(_ context.Context, token string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		if f.tokens[i].Token == token && f.tokens[i].IsActive {
			f.tokens[i].IsActive = false
			revokedAt := at
			f.tokens[i].RevokedAt = &revokedAt
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) insert(t store.FeedToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, t)
}

func (f *fakeStore) token(value string) (store.FeedToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == value {
			return t, true
		}
	}
	return store.FeedToken{}, false
}
