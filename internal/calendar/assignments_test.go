package calendar

import (
	"testing"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/schedule"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestBuildAssignmentEvents(t *testing.T) {
	fall := schedule.TermDateRange("Fall", 2025)
	assignments := []store.AssignmentEntry{
		{
			ID:            "a-1",
			Title:         "Argumentative Essay",
			DueDate:       strPtr("2025-11-10"),
			Status:        "in_progress",
			CourseCode:    "12001104-003",
			CourseTagName: "Academic Writing",
			CourseYear:    intPtr(2025),
			CourseTerm:    strPtr("Fall"),
			Instructions:  "1500 words, APA style",
		},
	}

	events := BuildAssignmentEvents(assignments, fall)
	require.Len(t, events, 1)
	ev := events[0]

	assert.True(t, ev.AllDay)
	assert.Equal(t, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC), ev.End)
	assert.Equal(t, "Due: Argumentative Essay", ev.Summary)
	assert.Equal(t, "Course: Academic Writing\n\n1500 words, APA style", ev.Description)
	assert.Equal(t, "assignment-a-1@calendar-feed.syllabus.app", ev.UID)
}

func TestBuildAssignmentEvents_Filters(t *testing.T) {
	fall := schedule.TermDateRange("Fall", 2025)
	assignments := []store.AssignmentEntry{
		{ID: "done", Title: "Done", DueDate: strPtr("2025-10-01"), Status: "completed"},
		{ID: "no-due", Title: "Someday", Status: "not_started"},
		{ID: "bad-due", Title: "Broken", DueDate: strPtr("next week"), Status: "not_started"},
		{ID: "old-year", Title: "Last year", DueDate: strPtr("2024-11-01"), Status: "not_started", CourseYear: intPtr(2024), CourseTerm: strPtr("Fall")},
		{ID: "spring", Title: "Spring", DueDate: strPtr("2025-05-01"), Status: "not_started", CourseYear: intPtr(2025), CourseTerm: strPtr("Spring")},
		{ID: "untagged", Title: "Any term", DueDate: strPtr("2025-03-01"), Status: "not_started"},
		{ID: "year-only", Title: "Year only", DueDate: strPtr("2023-03-01"), Status: "not_started", CourseYear: intPtr(2023)},
		{ID: "localized", Title: "Localized term", DueDate: strPtr("2025-12-01"), Status: "not_started", CourseYear: intPtr(2025), CourseTerm: strPtr("2025/秋学期")},
	}

	events := BuildAssignmentEvents(assignments, fall)

	var uids []string
	for _, ev := range events {
		uids = append(uids, ev.UID)
	}
	assert.Equal(t, []string{
		AssignmentUID("untagged"),
		AssignmentUID("year-only"),
		AssignmentUID("localized"),
	}, uids)
}

func TestBuildAssignmentEvents_TitleAndDescriptionFallbacks(t *testing.T) {
	fall := schedule.TermDateRange("Fall", 2025)
	assignments := []store.AssignmentEntry{
		{ID: "blank", Title: "   ", DueDate: strPtr("2025-10-01"), Status: "not_started", CourseCode: "X-1"},
		{ID: "bare", Title: "Bare", DueDate: strPtr("2025-10-02"), Status: "not_started"},
	}

	events := BuildAssignmentEvents(assignments, fall)
	require.Len(t, events, 2)
	assert.Equal(t, "Due: Untitled assignment", events[0].Summary)
	assert.Equal(t, "Course: X-1", events[0].Description)
	assert.Empty(t, events[1].Description)
}

func TestParseDueDate(t *testing.T) {
	loc := Institution.Location()

	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{raw: "2025-11-10", want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ok: true},
		// 20:00Z on the 9th is already the 10th in Tokyo
		{raw: "2025-11-09T20:00:00Z", want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "2025-11-10T23:59:00+09:00", want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "2025-11-10 23:59:00", want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "", ok: false},
		{raw: "soon", ok: false},
		{raw: "2025-11-10garbage", ok: false},
		{raw: "2025-11-1", ok: false},
		{raw: "2025-11-10T", want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDueDate(tt.raw, loc)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAssignmentUID_Deterministic(t *testing.T) {
	assert.Equal(t, AssignmentUID("8f14e45f-ceea-467a-9575-2a2c1f3b8f0e"), AssignmentUID("8f14e45f-ceea-467a-9575-2a2c1f3b8f0e"))
	assert.NotEqual(t, AssignmentUID("1"), AssignmentUID("2"))
}

func TestAssignmentUID_DistinctIDsDoNotCollide(t *testing.T) {
	pairs := [][2]string{
		{"a/b", "a_b"},
		{"a b", "a_b"},
		{"課題1", "課題2"},
		{"a%2Fb", "a/b"},
	}
	for _, p := range pairs {
		assert.NotEqual(t, AssignmentUID(p[0]), AssignmentUID(p[1]), "%q vs %q", p[0], p[1])
	}

	assert.Equal(t, "assignment-a%2Fb@calendar-feed.syllabus.app", AssignmentUID("a/b"))
	assert.Equal(t, "assignment-essay-1@calendar-feed.syllabus.app", AssignmentUID(" essay-1 "))
}
