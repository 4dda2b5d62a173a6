package schedule

import (
	"strconv"
	"strings"
	"time"
)

const (
	TermFall   = "Fall"
	TermSpring = "Spring"
)

// NormalizeTerm maps catalog term labels ("2025/Fall", "秋学期", "spring")
// onto Fall or Spring. Labels it does not recognise are returned unchanged.
func NormalizeTerm(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}

	lower := strings.ToLower(s)
	switch {
	case lower == "fall", lower == "autumn", strings.Contains(s, "秋"):
		return TermFall
	case lower == "spring", strings.Contains(s, "春"):
		return TermSpring
	}
	return raw
}

// Window is the date range that belongs to a term of a given year.
type Window struct {
	Term  string
	Year  int
	Start time.Time
	End   time.Time
}

// Label renders the window as "<Term>-<Year>".
func (w Window) Label() string {
	return w.Term + "-" + strconv.Itoa(w.Year)
}

// TermDateRange returns the term boundaries at UTC midnight. Terms other
// than Fall and Spring cover the whole calendar year.
func TermDateRange(term string, year int) Window {
	norm := NormalizeTerm(term)
	w := Window{Term: norm, Year: year}
	switch norm {
	case TermSpring:
		w.Start = utcDate(year, time.April, 1)
		w.End = utcDate(year, time.August, 15)
	case TermFall:
		w.Start = utcDate(year, time.September, 1)
		w.End = utcDate(year+1, time.January, 31)
	default:
		w.Start = utcDate(year, time.January, 1)
		w.End = utcDate(year, time.December, 31)
	}
	return w
}

// ResolveSelectedTerm parses a stored "<Term>-<Year>" preference. When the
// preference is missing or unusable it falls back to the term implied by
// the current UTC month: August through February is Fall, the rest Spring.
func ResolveSelectedTerm(pref string, now time.Time) (term string, year int) {
	if term, year, ok := parsePreference(pref); ok {
		return term, year
	}

	now = now.UTC()
	switch now.Month() {
	case time.August, time.September, time.October, time.November, time.December,
		time.January, time.February:
		return TermFall, now.Year()
	default:
		return TermSpring, now.Year()
	}
}

func parsePreference(pref string) (string, int, bool) {
	pref = strings.TrimSpace(pref)
	i := strings.LastIndex(pref, "-")
	if i <= 0 {
		return "", 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(pref[i+1:]))
	if err != nil || year <= 0 {
		return "", 0, false
	}
	term := NormalizeTerm(pref[:i])
	if term != TermFall && term != TermSpring {
		return "", 0, false
	}
	return term, year, true
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
