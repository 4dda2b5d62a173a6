package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/ical"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/schedule"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"
)

const (
	ProductID = "-//University Syllabus//Calendar Feed 1.0//EN"
	uidDomain = "calendar-feed.syllabus.app"
)

// Institution is the fixed zone course times are recorded in. It has no
// daylight-saving rules.
var Institution = ical.Zone{ID: "Asia/Tokyo", Abbrev: "JST", Offset: 9 * 60 * 60}

var calendarNames = map[store.FeedKind]string{
	store.FeedKindCourses:     "Class Schedule",
	store.FeedKindAssignments: "Assignment Deadlines",
	store.FeedKindCombined:    "Classes & Assignments",
}

func CalendarName(kind store.FeedKind) string {
	return calendarNames[kind]
}

func IncludesCourses(kind store.FeedKind) bool {
	return kind == store.FeedKindCourses || kind == store.FeedKindCombined
}

func IncludesAssignments(kind store.FeedKind) bool {
	return kind == store.FeedKindAssignments || kind == store.FeedKindCombined
}

// Source is the read-only data a feed is built from.
type Source interface {
	GetSelectedTerm(ctx context.Context, userID string) (string, error)
	ListSelectedCourses(ctx context.Context, userID string, year int) ([]store.CourseScheduleEntry, error)
	ListAssignments(ctx context.Context, userID string) ([]store.AssignmentEntry, error)
}

type Feed struct {
	Kind   store.FeedKind
	Window schedule.Window
	Events int
	Body   []byte
}

type Service struct {
	source Source
	now    func() time.Time
}

func NewService(src Source) *Service {
	return &Service{
		source: src,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ResolveUserSelectedTerm returns the window of the term the user picked in
// the app, or of the term implied by today's date.
func (s *Service) ResolveUserSelectedTerm(ctx context.Context, userID string) (schedule.Window, error) {
	pref, err := s.source.GetSelectedTerm(ctx, userID)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("load selected term: %w", err)
	}
	term, year := schedule.ResolveSelectedTerm(pref, s.now())
	return schedule.TermDateRange(term, year), nil
}

// Build loads only the data kind needs and assembles the document. It does
// not write anything, so a cancelled request leaves no trace.
func (s *Service) Build(ctx context.Context, userID string, kind store.FeedKind) (*Feed, error) {
	window, err := s.ResolveUserSelectedTerm(ctx, userID)
	if err != nil {
		return nil, err
	}

	var courseEvents, assignmentEvents []ical.Event

	if IncludesCourses(kind) {
		courses, err := s.source.ListSelectedCourses(ctx, userID, window.Year)
		if err != nil {
			return nil, fmt.Errorf("load courses: %w", err)
		}
		courseEvents = BuildCourseEvents(coursesInTerm(courses, window), window)
	}

	if IncludesAssignments(kind) {
		assignments, err := s.source.ListAssignments(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load assignments: %w", err)
		}
		assignmentEvents = BuildAssignmentEvents(assignments, window)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Feed{
		Kind:   kind,
		Window: window,
		Events: len(courseEvents) + len(assignmentEvents),
		Body:   Assemble(kind, s.now(), courseEvents, assignmentEvents),
	}, nil
}

// Assemble wraps course events followed by assignment events in a calendar
// named after kind.
func Assemble(kind store.FeedKind, stamp time.Time, courseEvents, assignmentEvents []ical.Event) []byte {
	events := make([]ical.Event, 0, len(courseEvents)+len(assignmentEvents))
	if IncludesCourses(kind) {
		events = append(events, courseEvents...)
	}
	if IncludesAssignments(kind) {
		events = append(events, assignmentEvents...)
	}

	return ical.Render(ical.Calendar{
		ProductID: ProductID,
		Name:      CalendarName(kind),
		Zone:      Institution,
		Stamp:     stamp,
		Events:    events,
	})
}

func coursesInTerm(courses []store.CourseScheduleEntry, w schedule.Window) []store.CourseScheduleEntry {
	out := make([]store.CourseScheduleEntry, 0, len(courses))
	for _, c := range courses {
		if c.Year == w.Year && schedule.NormalizeTerm(c.Term) == w.Term {
			out = append(out, c)
		}
	}
	return out
}
