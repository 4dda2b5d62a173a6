package subscription

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/metrics"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultTimezone        = "Asia/Tokyo"
	DefaultScope           = "selected_term"
	DefaultAssignmentsRule = "incomplete_only"

	StatusConnected    = "connected"
	StatusNotConnected = "not_connected"

	tokenBytes       = 32
	maxTokenAttempts = 6
)

// Store is the persistence the manager needs. The one-active-token-per-kind
// rule and token uniqueness are enforced by the store, which reports a
// violation as store.ErrAlreadyExists.
type Store interface {
	GetIntegrationSettings(ctx context.Context, userID string) (*store.IntegrationSettings, error)
	UpsertIntegrationSettings(ctx context.Context, settings *store.IntegrationSettings) error
	CreateFeedToken(ctx context.Context, token *store.FeedToken) error
	ListActiveFeedTokens(ctx context.Context, userID string) ([]store.FeedToken, error)
	RevokeFeedToken(ctx context.Context, token string, at time.Time) error
}

type Settings struct {
	FeedMode        store.FeedMode `json:"feedMode"`
	Timezone        string         `json:"timezone"`
	Scope           string         `json:"scope"`
	AssignmentsRule string         `json:"assignmentsRule"`
}

type Feed struct {
	Kind               store.FeedKind `json:"kind"`
	HTTPSURL           string         `json:"httpsUrl"`
	WebcalURL          string         `json:"webcalUrl"`
	GoogleSubscribeURL string         `json:"googleSubscribeUrl"`
}

type State struct {
	Status   string    `json:"status"`
	Settings *Settings `json:"settings"`
	Feeds    []Feed    `json:"feeds"`
}

// Manager owns the lifecycle of feed tokens. It holds no per-user state;
// every call reads what it needs from the store.
type Manager struct {
	store   Store
	baseURL string
	logger  *zap.Logger
	metrics metrics.Recorder

	now      func() time.Time
	generate func() (string, error)
}

func NewManager(s Store, baseURL string, logger *zap.Logger, rec metrics.Recorder) *Manager {
	return &Manager{
		store:    s,
		baseURL:  baseURL,
		logger:   logger,
		metrics:  rec,
		now:      func() time.Time { return time.Now().UTC() },
		generate: generateToken,
	}
}

// RequiredKinds returns the kinds that must have an active token in mode.
func RequiredKinds(mode store.FeedMode) []store.FeedKind {
	if mode == store.FeedModeCombined {
		return []store.FeedKind{store.FeedKindCombined}
	}
	return []store.FeedKind{store.FeedKindCourses, store.FeedKindAssignments}
}

// CurrentMode returns the stored feed mode, or separate when the user has
// never connected.
func (m *Manager) CurrentMode(ctx context.Context, userID string) (store.FeedMode, error) {
	settings, err := m.store.GetIntegrationSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.FeedModeSeparate, nil
	}
	if err != nil {
		return "", err
	}
	if !settings.FeedMode.Valid() {
		return store.FeedModeSeparate, nil
	}
	return settings.FeedMode, nil
}

// EnsureFeeds stores mode and makes the set of active kinds match it. Kinds
// that already have an active token keep it, so calling EnsureFeeds again
// never changes a URL a calendar client is subscribed to.
func (m *Manager) EnsureFeeds(ctx context.Context, userID string, mode store.FeedMode) (*State, error) {
	if !mode.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid feedMode %q", mode)}
	}

	if err := m.saveMode(ctx, userID, mode); err != nil {
		return nil, err
	}

	active, err := m.store.ListActiveFeedTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}

	required := RequiredKinds(mode)
	have := make(map[store.FeedKind]bool, len(active))
	for _, t := range active {
		if !containsKind(required, t.Kind) {
			if err := m.revoke(ctx, t, "mode_change"); err != nil {
				return nil, err
			}
			continue
		}
		have[t.Kind] = true
	}

	for _, kind := range required {
		if have[kind] {
			continue
		}
		if _, err := m.createToken(ctx, userID, kind); err != nil {
			return nil, err
		}
	}

	return m.BuildState(ctx, userID)
}

// RotateFeeds replaces the active tokens of kinds with fresh ones. With no
// kinds it rotates every kind the current mode requires. A user without a
// stored mode gets the default one persisted.
func (m *Manager) RotateFeeds(ctx context.Context, userID string, kinds []store.FeedKind) (*State, error) {
	mode := store.FeedModeSeparate
	stored := false
	settings, err := m.store.GetIntegrationSettings(ctx, userID)
	switch {
	case err == nil:
		if settings.FeedMode.Valid() {
			mode, stored = settings.FeedMode, true
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load feed mode: %w", err)
	}
	required := RequiredKinds(mode)

	targets, err := rotationTargets(kinds, required, mode)
	if err != nil {
		return nil, err
	}

	if !stored {
		if err := m.saveMode(ctx, userID, mode); err != nil {
			return nil, err
		}
	}

	active, err := m.store.ListActiveFeedTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}

	for _, kind := range targets {
		for _, t := range active {
			if t.Kind != kind {
				continue
			}
			if err := m.revoke(ctx, t, "rotated"); err != nil {
				return nil, err
			}
		}
		if _, err := m.createToken(ctx, userID, kind); err != nil {
			return nil, err
		}
	}

	return m.BuildState(ctx, userID)
}

// DisconnectAll revokes every active token of the user. Settings are kept.
func (m *Manager) DisconnectAll(ctx context.Context, userID string) (*State, error) {
	active, err := m.store.ListActiveFeedTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}
	for _, t := range active {
		if err := m.revoke(ctx, t, "disconnected"); err != nil {
			return nil, err
		}
	}
	return m.BuildState(ctx, userID)
}

func (m *Manager) BuildState(ctx context.Context, userID string) (*State, error) {
	state := &State{Status: StatusNotConnected, Feeds: []Feed{}}

	settings, err := m.store.GetIntegrationSettings(ctx, userID)
	switch {
	case err == nil:
		state.Settings = &Settings{
			FeedMode:        settings.FeedMode,
			Timezone:        settings.Timezone,
			Scope:           settings.Scope,
			AssignmentsRule: settings.AssignmentsRule,
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load integration settings: %w", err)
	}

	active, err := m.store.ListActiveFeedTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}

	for _, kind := range store.AllFeedKinds {
		for _, t := range active {
			if t.Kind != kind {
				continue
			}
			httpsURL := FeedURL(m.baseURL, t.Token)
			state.Feeds = append(state.Feeds, Feed{
				Kind:               kind,
				HTTPSURL:           httpsURL,
				WebcalURL:          WebcalURL(httpsURL),
				GoogleSubscribeURL: GoogleSubscribeURL(httpsURL),
			})
		}
	}
	if len(state.Feeds) > 0 {
		state.Status = StatusConnected
	}
	return state, nil
}

func (m *Manager) saveMode(ctx context.Context, userID string, mode store.FeedMode) error {
	now := m.now()
	createdAt := now
	existing, err := m.store.GetIntegrationSettings(ctx, userID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("load integration settings: %w", err)
	}

	settings := &store.IntegrationSettings{
		UserID:          userID,
		FeedMode:        mode,
		Timezone:        DefaultTimezone,
		Scope:           DefaultScope,
		AssignmentsRule: DefaultAssignmentsRule,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}
	if err := m.store.UpsertIntegrationSettings(ctx, settings); err != nil {
		return fmt.Errorf("save integration settings: %w", err)
	}
	return nil
}

// createToken inserts a new active token for kind. A uniqueness rejection
// either means the random value collided or another request created this
// kind's token first; the latter is adopted, the former redrawn.
func (m *Manager) createToken(ctx context.Context, userID string, kind store.FeedKind) (*store.FeedToken, error) {
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		value, err := m.generate()
		if err != nil {
			return nil, err
		}

		t := &store.FeedToken{
			Token:     value,
			UserID:    userID,
			Kind:      kind,
			IsActive:  true,
			CreatedAt: m.now(),
		}
		err = m.store.CreateFeedToken(ctx, t)
		if err == nil {
			m.metrics.RecordTokenIssued(string(kind))
			return t, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create %s token: %w", kind, err)
		}

		m.metrics.RecordTokenCollision()
		existing, err := m.activeToken(ctx, userID, kind)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		m.logger.Warn("feed token insert collided, retrying",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Int("attempt", attempt),
		)
	}
	return nil, ErrTokenGenerationExhausted
}

func (m *Manager) activeToken(ctx context.Context, userID string, kind store.FeedKind) (*store.FeedToken, error) {
	active, err := m.store.ListActiveFeedTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}
	for i := range active {
		if active[i].Kind == kind {
			return &active[i], nil
		}
	}
	return nil, nil
}

func (m *Manager) revoke(ctx context.Context, t store.FeedToken, reason string) error {
	err := m.store.RevokeFeedToken(ctx, t.Token, m.now())
	if errors.Is(err, store.ErrNotFound) {
		// already revoked by a concurrent request
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke %s token: %w", t.Kind, err)
	}
	m.metrics.RecordTokenRevoked(string(t.Kind), reason)
	return nil
}

func rotationTargets(kinds, required []store.FeedKind, mode store.FeedMode) ([]store.FeedKind, error) {
	if len(kinds) == 0 {
		return required, nil
	}

	seen := make(map[store.FeedKind]bool, len(kinds))
	targets := make([]store.FeedKind, 0, len(kinds))
	for _, kind := range kinds {
		if !kind.Valid() {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid feed kind %q", kind)}
		}
		if !containsKind(required, kind) {
			return nil, &ValidationError{Message: fmt.Sprintf("feed kind %q is not used in %s mode", kind, mode)}
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		targets = append(targets, kind)
	}
	return targets, nil
}

func containsKind(kinds []store.FeedKind, kind store.FeedKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
