package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourseSchedule(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		day    time.Weekday
		period int
		byDay  string
	}{
		{name: "compact with markers", raw: "(月)3(講時)", day: time.Monday, period: 3, byDay: "MO"},
		{name: "compact bare", raw: "火2", day: time.Tuesday, period: 2, byDay: "TU"},
		{name: "compact with gen suffix", raw: "水1限", day: time.Wednesday, period: 1, byDay: "WE"},
		{name: "compact with youbi", raw: "木曜5時限", day: time.Thursday, period: 5, byDay: "TH"},
		{name: "full-width brackets and digit", raw: "（金）４（講時）", day: time.Friday, period: 4, byDay: "FR"},
		{name: "spelled thursday", raw: "Thu 14:55 - 16:25", day: time.Thursday, period: 4, byDay: "TH"},
		{name: "spelled monday morning", raw: "Mon 09:00 - 10:30", day: time.Monday, period: 1, byDay: "MO"},
		{name: "spelled unpadded hour", raw: "Fri 9:00 - 10:30", day: time.Friday, period: 1, byDay: "FR"},
		{name: "spelled lower case", raw: "wed 16:40-18:10", day: time.Wednesday, period: 5, byDay: "WE"},
		{name: "surrounding whitespace", raw: "  Tue 10:45 - 12:15 ", day: time.Tuesday, period: 2, byDay: "TU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCourseSchedule(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.day, got.Day)
			assert.Equal(t, tt.period, got.Period)
			assert.Equal(t, tt.byDay, got.ICalByDay)
		})
	}
}

func TestParseCourseSchedule_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "saturday spelled", raw: "Sat 10:00 - 11:30"},
		{name: "sunday spelled canonical time", raw: "Sun 09:00 - 10:30"},
		{name: "near miss start time", raw: "Thu 14:50 - 16:20"},
		{name: "saturday glyph", raw: "(土)2(講時)"},
		{name: "sunday glyph", raw: "日1"},
		{name: "period out of range", raw: "月6"},
		{name: "period zero", raw: "月0限"},
		{name: "free text", raw: "TBA"},
		{name: "intensive course", raw: "集中講義"},
		{name: "two slots", raw: "月3・木3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseCourseSchedule(tt.raw))
		})
	}
}

func TestPeriodByNumber(t *testing.T) {
	p, ok := PeriodByNumber(4)
	require.True(t, ok)
	assert.Equal(t, "14:55", p.Start)
	assert.Equal(t, "16:25", p.End)

	_, ok = PeriodByNumber(0)
	assert.False(t, ok)
	_, ok = PeriodByNumber(6)
	assert.False(t, ok)
}
