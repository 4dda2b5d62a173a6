package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/ical"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/schedule"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"
)

const (
	statusCompleted  = "completed"
	untitledFallback = "Untitled assignment"
)

// BuildAssignmentEvents emits an all-day event on the due date of every
// incomplete assignment that belongs to the window's term. Assignments
// without both a term and a year tag are shown in every term.
func BuildAssignmentEvents(assignments []store.AssignmentEntry, w schedule.Window) []ical.Event {
	loc := Institution.Location()

	events := make([]ical.Event, 0, len(assignments))
	for _, a := range assignments {
		if strings.EqualFold(strings.TrimSpace(a.Status), statusCompleted) {
			continue
		}
		if a.DueDate == nil {
			continue
		}
		due, ok := parseDueDate(*a.DueDate, loc)
		if !ok {
			continue
		}
		if !inTerm(a, w) {
			continue
		}

		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = untitledFallback
		}

		events = append(events, ical.Event{
			UID:         AssignmentUID(a.ID),
			Summary:     "Due: " + title,
			Description: assignmentDescription(a),
			Start:       due,
			End:         due.AddDate(0, 0, 1),
			AllDay:      true,
		})
	}
	return events
}

func AssignmentUID(id string) string {
	return fmt.Sprintf("assignment-%s@%s", uidPart(id), uidDomain)
}

func inTerm(a store.AssignmentEntry, w schedule.Window) bool {
	if a.CourseTerm == nil || a.CourseYear == nil || strings.TrimSpace(*a.CourseTerm) == "" {
		return true
	}
	return *a.CourseYear == w.Year && schedule.NormalizeTerm(*a.CourseTerm) == w.Term
}

func assignmentDescription(a store.AssignmentEntry) string {
	label := strings.TrimSpace(a.CourseTagName)
	if label == "" {
		label = strings.TrimSpace(a.CourseCode)
	}
	instructions := strings.TrimSpace(a.Instructions)

	var parts []string
	if label != "" {
		parts = append(parts, "Course: "+label)
	}
	if instructions != "" {
		parts = append(parts, instructions)
	}
	return strings.Join(parts, "\n\n")
}

// parseDueDate accepts a plain date or an RFC 3339 timestamp. Timestamps
// are moved into loc before the date is taken. A date followed by a 'T' or
// space keeps only the date part. The result is a UTC
// midnight used purely as a calendar date.
func parseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		ts = ts.In(loc)
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	}
	const dateLen = len("2006-01-02")
	if len(raw) == dateLen || (len(raw) > dateLen && (raw[dateLen] == 'T' || raw[dateLen] == ' ')) {
		if d, err := time.Parse("2006-01-02", raw[:dateLen]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
