package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	localLayout = "20060102T150405"
	zoneEpoch   = "19700101T000000"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Render encodes the calendar as an RFC 5545 document with CRLF line
// endings and content lines folded at 75 octets.
func Render(cal Calendar) []byte {
	doc := ics.NewCalendar()
	doc.SetProductId(cal.ProductID)
	doc.SetCalscale("GREGORIAN")
	doc.SetMethod(ics.MethodPublish)
	if cal.Name != "" {
		doc.SetXWRCalName(text(cal.Name))
	}
	if cal.Zone.ID != "" {
		doc.SetXWRTimezone(cal.Zone.ID)
		addZone(doc, cal.Zone)
	}

	loc := cal.Zone.Location()
	for _, ev := range cal.Events {
		addEvent(doc, ev, cal.Zone.ID, loc, cal.Stamp)
	}

	return []byte(doc.Serialize(ics.WithNewLineWindows))
}

func addZone(doc *ics.Calendar, z Zone) {
	offset := formatOffset(z.Offset)
	std := doc.AddTimezone(z.ID).AddStandard()
	std.SetProperty(ics.ComponentPropertyDtStart, zoneEpoch)
	std.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), offset)
	std.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), offset)
	if z.Abbrev != "" {
		std.SetProperty(ics.ComponentProperty(ics.PropertyTzname), z.Abbrev)
	}
}

func addEvent(doc *ics.Calendar, ev Event, tzid string, loc *time.Location, stamp time.Time) {
	e := doc.AddEvent(ev.UID)
	e.SetDtStampTime(stamp)

	if ev.AllDay {
		e.SetAllDayStartAt(ev.Start)
		e.SetAllDayEndAt(ev.End)
	} else {
		e.SetProperty(ics.ComponentPropertyDtStart, ev.Start.In(loc).Format(localLayout), ics.WithTZID(tzid))
		e.SetProperty(ics.ComponentPropertyDtEnd, ev.End.In(loc).Format(localLayout), ics.WithTZID(tzid))
	}
	if ev.RRule != "" {
		e.AddRrule(ev.RRule)
	}

	e.SetSummary(text(ev.Summary))
	if ev.Description != "" {
		e.SetDescription(text(ev.Description))
	}
	if ev.Location != "" {
		e.SetLocation(text(ev.Location))
	}
	if ev.AllDay {
		e.SetTimeTransparency(ics.TransparencyTransparent)
	}
}

// text normalises line breaks to LF; the encoder escapes LF but not CR.
func text(s string) string {
	return lineBreaks.Replace(s)
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, (seconds%3600)/60)
}
