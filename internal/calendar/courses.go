package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/ical"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/schedule"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"

	"github.com/teambition/rrule-go"
)

var rruleDays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
}

// BuildCourseEvents emits one weekly recurring event per course whose time
// slot can be parsed. Courses with unknown or weekend slots are skipped, as
// are courses whose weekday never occurs inside the term window.
func BuildCourseEvents(courses []store.CourseScheduleEntry, w schedule.Window) []ical.Event {
	loc := Institution.Location()
	// 14:59:59Z is 23:59:59 in the institution zone on the last term day
	until := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 14, 59, 59, 0, time.UTC)

	events := make([]ical.Event, 0, len(courses))
	for _, c := range courses {
		slot := schedule.ParseCourseSchedule(c.TimeSlotRaw)
		if slot == nil {
			continue
		}
		period, ok := schedule.PeriodByNumber(slot.Period)
		if !ok {
			continue
		}

		delta := (int(slot.Day) - int(w.Start.Weekday()) + 7) % 7
		first := w.Start.AddDate(0, 0, delta)
		if first.After(w.End) {
			continue
		}

		rule := rrule.ROption{
			Freq:      rrule.WEEKLY,
			Interval:  1,
			Until:     until,
			Byweekday: []rrule.Weekday{rruleDays[slot.Day]},
		}

		events = append(events, ical.Event{
			UID:         CourseUID(c.CourseCode, w, slot),
			Summary:     courseSummary(c),
			Description: courseDescription(c, period),
			Location:    strings.TrimSpace(c.Location),
			Start:       atClock(first, period.Start, loc),
			End:         atClock(first, period.End, loc),
			RRule:       rule.RRuleString(),
		})
	}
	return events
}

// CourseUID is stable for a course, term and slot so that a refreshed feed
// updates existing events instead of duplicating them.
func CourseUID(courseCode string, w schedule.Window, slot *schedule.ParsedSchedule) string {
	return fmt.Sprintf("course-%s-%d-%s-%s-p%d@%s",
		uidPart(courseCode),
		w.Year,
		uidPart(strings.ToLower(w.Term)),
		strings.ToLower(slot.ICalByDay),
		slot.Period,
		uidDomain,
	)
}

func courseSummary(c store.CourseScheduleEntry) string {
	if title := strings.TrimSpace(c.Title); title != "" {
		return title
	}
	return c.CourseCode
}

func courseDescription(c store.CourseScheduleEntry, p schedule.Period) string {
	lines := []string{"Course code: " + c.CourseCode}
	if prof := strings.TrimSpace(c.Professor); prof != "" {
		lines = append(lines, "Instructor: "+prof)
	}
	if typ := strings.TrimSpace(c.Type); typ != "" {
		lines = append(lines, "Type: "+typ)
	}
	lines = append(lines, fmt.Sprintf("Period %d (%s-%s)", p.Number, p.Start, p.End))
	return strings.Join(lines, "\n")
}

// atClock places an HH:MM wall-clock time on the calendar date of day.
func atClock(day time.Time, hhmm string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// uidPart percent-encodes every byte outside [A-Za-z0-9.-] so distinct
// inputs stay distinct inside a UID.
func uidPart(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
