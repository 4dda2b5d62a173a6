package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Store interface {
	GetIntegrationSettings(ctx context.Context, userID string) (*IntegrationSettings, error)
	UpsertIntegrationSettings(ctx context.Context, settings *IntegrationSettings) error

	CreateFeedToken(ctx context.Context, token *FeedToken) error
	GetFeedToken(ctx context.Context, token string) (*FeedToken, error)
	ListActiveFeedTokens(ctx context.Context, userID string) ([]FeedToken, error)
	RevokeFeedToken(ctx context.Context, token string, at time.Time) error

	// Read-only views over data owned by the surrounding application.
	GetSelectedTerm(ctx context.Context, userID string) (string, error)
	ListSelectedCourses(ctx context.Context, userID string, year int) ([]CourseScheduleEntry, error)
	ListAssignments(ctx context.Context, userID string) ([]AssignmentEntry, error)

	Migrate(ctx context.Context) error
	Close() error
}

// supported DSN formats:
//
//	Local sqlite: "file:./data/calendar.db" or ":memory:"
//	TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
//
// NOTE: all formats are handled by the libsql driver which supports both local and remote.
func NewStore(dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "file:"), strings.HasPrefix(dsn, ":memory:"), strings.HasPrefix(dsn, "libsql://"):
		return NewSQLStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN: %s (expected file:, :memory:, or libsql://)", dsn)
	}
}
