package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Fall", want: TermFall},
		{raw: "fall", want: TermFall},
		{raw: "AUTUMN", want: TermFall},
		{raw: "2025/Fall", want: TermFall},
		{raw: "terms/2025/spring", want: TermSpring},
		{raw: "秋学期", want: TermFall},
		{raw: "春", want: TermSpring},
		{raw: "Spring", want: TermSpring},
		{raw: "Summer", want: "Summer"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.raw))
		})
	}
}

func TestTermDateRange(t *testing.T) {
	spring := TermDateRange("Spring", 2025)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), spring.Start)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), spring.End)
	assert.Equal(t, "Spring-2025", spring.Label())

	fall := TermDateRange("2025/秋", 2025)
	assert.Equal(t, TermFall, fall.Term)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), fall.Start)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), fall.End)

	other := TermDateRange("Intensive", 2025)
	assert.Equal(t, "Intensive", other.Term)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), other.Start)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), other.End)
}

func TestResolveSelectedTerm(t *testing.T) {
	october := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pref     string
		now      time.Time
		wantTerm string
		wantYear int
	}{
		{name: "stored fall", pref: "Fall-2025", now: october, wantTerm: TermFall, wantYear: 2025},
		{name: "stored spring lower case", pref: "spring-2024", now: october, wantTerm: TermSpring, wantYear: 2024},
		{name: "empty in october", pref: "", now: october, wantTerm: TermFall, wantYear: 2026},
		{name: "garbage year", pref: "Fall-next", now: october, wantTerm: TermFall, wantYear: 2026},
		{name: "unknown term", pref: "Summer-2025", now: october, wantTerm: TermFall, wantYear: 2026},
		{name: "empty in may", pref: "", now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), wantTerm: TermSpring, wantYear: 2026},
		{name: "empty in february", pref: "", now: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), wantTerm: TermFall, wantYear: 2026},
		{name: "empty in august", pref: "", now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), wantTerm: TermFall, wantYear: 2026},
		{name: "empty in july", pref: "", now: time.Date(2026, 7, 31, 23, 0, 0, 0, time.UTC), wantTerm: TermSpring, wantYear: 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, year := ResolveSelectedTerm(tt.pref, tt.now)
			assert.Equal(t, tt.wantTerm, term)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}
