package ical

import "time"

// Zone is a fixed-offset timezone without daylight-saving rules.
type Zone struct {
	ID     string // TZID, e.g. "Asia/Tokyo"
	Abbrev string // TZNAME, e.g. "JST"
	Offset int    // seconds east of UTC
}

func (z Zone) Location() *time.Location {
	return time.FixedZone(z.ID, z.Offset)
}

type Calendar struct {
	ProductID string
	Name      string
	Zone      Zone
	// Stamp is written as DTSTAMP on every event.
	Stamp  time.Time
	Events []Event
}

// Event is a VEVENT. Timed events are written as local wall-clock time in
// the calendar zone; all-day events use Start/End as dates only.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	RRule       string
}
