package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

//go:embed schema.sql
var schemaSQL string

type SQLStore struct {
	db *sql.DB
}

// Local sqlite: "file:./data/calendar.db" or ":memory:"
// TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every connection to :memory: is a separate database
	if strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// returns the database connection for migrations and tests
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// --- Integration settings ---

func (s *SQLStore) GetIntegrationSettings(ctx context.Context, userID string) (*IntegrationSettings, error) {
	query := `
		SELECT user_id, feed_mode, timezone, scope, assignments_rule, created_at, updated_at
		FROM calendar_integration_settings WHERE user_id = ?
	`
	var settings IntegrationSettings
	var mode, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&mode,
		&settings.Timezone,
		&settings.Scope,
		&settings.AssignmentsRule,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan integration settings: %w", err)
	}
	settings.FeedMode = FeedMode(mode)
	settings.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	settings.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &settings, nil
}

func (s *SQLStore) UpsertIntegrationSettings(ctx context.Context, settings *IntegrationSettings) error {
	query := `
		INSERT INTO calendar_integration_settings
			(user_id, feed_mode, timezone, scope, assignments_rule, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			feed_mode = excluded.feed_mode,
			timezone = excluded.timezone,
			scope = excluded.scope,
			assignments_rule = excluded.assignments_rule,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		settings.UserID,
		string(settings.FeedMode),
		settings.Timezone,
		settings.Scope,
		settings.AssignmentsRule,
		settings.CreatedAt.Format(time.RFC3339),
		settings.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert integration settings: %w", err)
	}
	return nil
}

// --- Feed tokens ---

func (s *SQLStore) CreateFeedToken(ctx context.Context, token *FeedToken) error {
	query := `
		INSERT INTO calendar_feed_tokens (token, user_id, feed_kind, is_active, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`
	_, err := s.db.ExecContext(ctx, query,
		token.Token,
		token.UserID,
		string(token.Kind),
		boolToInt(token.IsActive),
		token.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert feed token: %w", err)
	}
	return nil
}

func (s *SQLStore) GetFeedToken(ctx context.Context, token string) (*FeedToken, error) {
	query := `
		SELECT token, user_id, feed_kind, is_active, created_at, revoked_at
		FROM calendar_feed_tokens WHERE token = ?
	`
	return scanFeedToken(s.db.QueryRowContext(ctx, query, token))
}

func (s *SQLStore) ListActiveFeedTokens(ctx context.Context, userID string) ([]FeedToken, error) {
	query := `
		SELECT token, user_id, feed_kind, is_active, created_at, revoked_at
		FROM calendar_feed_tokens WHERE user_id = ? AND is_active = 1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query feed tokens: %w", err)
	}
	defer rows.Close()

	var tokens []FeedToken
	for rows.Next() {
		t, err := scanFeedToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

func (s *SQLStore) RevokeFeedToken(ctx context.Context, token string, at time.Time) error {
	query := `
		UPDATE calendar_feed_tokens
		SET is_active = 0, revoked_at = ?
		WHERE token = ? AND is_active = 1
	`
	result, err := s.db.ExecContext(ctx, query, at.Format(time.RFC3339), token)
	if err != nil {
		return fmt.Errorf("revoke feed token: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedToken(row rowScanner) (*FeedToken, error) {
	var t FeedToken
	var kind, createdAt string
	var active int
	var revokedAt sql.NullString

	err := row.Scan(&t.Token, &t.UserID, &kind, &active, &createdAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan feed token: %w", err)
	}

	t.Kind = FeedKind(kind)
	t.IsActive = active == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if revokedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, revokedAt.String); err == nil {
			t.RevokedAt = &ts
		}
	}
	return &t, nil
}

// --- Course catalog and assignments (read-only) ---

func (s *SQLStore) GetSelectedTerm(ctx context.Context, userID string) (string, error) {
	query := `SELECT selected_term FROM user_preferences WHERE user_id = ?`
	var term sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&term)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("scan selected term: %w", err)
	}
	return term.String, nil
}

func (s *SQLStore) ListSelectedCourses(ctx context.Context, userID string, year int) ([]CourseScheduleEntry, error) {
	query := `
		SELECT c.course_code, c.academic_year, c.term, c.title, c.professor, c.location, c.type, c.time_slot
		FROM user_course_selections sel
		JOIN courses c
			ON c.course_code = sel.course_code
			AND c.academic_year = sel.academic_year
			AND c.term = sel.term
		WHERE sel.user_id = ? AND sel.academic_year = ?
		ORDER BY c.course_code ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, year)
	if err != nil {
		return nil, fmt.Errorf("query selected courses: %w", err)
	}
	defer rows.Close()

	var courses []CourseScheduleEntry
	for rows.Next() {
		var c CourseScheduleEntry
		if err := rows.Scan(
			&c.CourseCode,
			&c.Year,
			&c.Term,
			&c.Title,
			&c.Professor,
			&c.Location,
			&c.Type,
			&c.TimeSlotRaw,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *SQLStore) ListAssignments(ctx context.Context, userID string) ([]AssignmentEntry, error) {
	query := `
		SELECT id, title, due_date, status, course_code, course_tag_name, course_year, course_term, instructions
		FROM assignments WHERE user_id = ?
		ORDER BY due_date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []AssignmentEntry
	for rows.Next() {
		var a AssignmentEntry
		var dueDate, courseTerm sql.NullString
		var courseYear sql.NullInt64
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&dueDate,
			&a.Status,
			&a.CourseCode,
			&a.CourseTagName,
			&courseYear,
			&courseTerm,
			&a.Instructions,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if dueDate.Valid {
			a.DueDate = &dueDate.String
		}
		if courseYear.Valid {
			y := int(courseYear.Int64)
			a.CourseYear = &y
		}
		if courseTerm.Valid {
			a.CourseTerm = &courseTerm.String
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// isUniqueConstraintError checks if the error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

// boolToInt converts a boolean to SQLite integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
