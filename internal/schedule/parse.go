package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// Period is one of the five daily class slots.
type Period struct {
	Number int
	Start  string // HH:MM
	End    string // HH:MM
}

var periods = []Period{
	{Number: 1, Start: "09:00", End: "10:30"},
	{Number: 2, Start: "10:45", End: "12:15"},
	{Number: 3, Start: "13:10", End: "14:40"},
	{Number: 4, Start: "14:55", End: "16:25"},
	{Number: 5, Start: "16:40", End: "18:10"},
}

// PeriodByNumber returns the canonical clock times of period n.
func PeriodByNumber(n int) (Period, bool) {
	if n < 1 || n > len(periods) {
		return Period{}, false
	}
	return periods[n-1], true
}

// ParsedSchedule is a weekday + period slot that can be turned into a
// weekly recurring event.
type ParsedSchedule struct {
	Day       time.Weekday
	Period    int
	ICalByDay string
}

var icalByDay = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
}

var glyphDays = map[string]time.Weekday{
	"月": time.Monday,
	"火": time.Tuesday,
	"水": time.Wednesday,
	"木": time.Thursday,
	"金": time.Friday,
	"土": time.Saturday,
	"日": time.Sunday,
}

var englishDays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

var (
	// (月)3(講時), 月3限, 木曜4時限
	compactRe = regexp.MustCompile(`^\(?([月火水木金土日])(?:曜日?)?\)?\s*([0-9]{1,2})\s*(?:\(?(?:講時|時限|限)\)?)?$`)
	// Thu 14:55 - 16:25
	spelledRe = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)\s+([0-9]{1,2}):([0-9]{2})\s*-\s*([0-9]{1,2}):([0-9]{2})$`)
)

// ParseCourseSchedule recognises the compact localized form and the
// spelled-out "<Day> HH:MM - HH:MM" form. It returns nil for anything it
// cannot place on a weekday period, including weekend slots.
func ParseCourseSchedule(raw string) *ParsedSchedule {
	s := strings.TrimSpace(width.Narrow.String(raw))
	if s == "" {
		return nil
	}

	if m := compactRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil
		}
		return newParsed(glyphDays[m[1]], n)
	}

	if m := spelledRe.FindStringSubmatch(s); m != nil {
		day := englishDays[strings.ToLower(m[1])]
		start := clock(m[2], m[3])
		for _, p := range periods {
			if p.Start == start {
				return newParsed(day, p.Number)
			}
		}
		return nil
	}

	return nil
}

func newParsed(day time.Weekday, period int) *ParsedSchedule {
	byDay, ok := icalByDay[day]
	if !ok {
		return nil
	}
	if _, ok := PeriodByNumber(period); !ok {
		return nil
	}
	return &ParsedSchedule{Day: day, Period: period, ICalByDay: byDay}
}

func clock(h, m string) string {
	if len(h) == 1 {
		h = "0" + h
	}
	return h + ":" + m
}
