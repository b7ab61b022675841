// Package export renders scheduled dates as iCalendar data.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

const productID = "-//cadence//Plan Export//EN"

// WriteICS writes one all-day VEVENT per date of plan. Occurrences are
// expanded, so no RRULE is emitted. stamp becomes every event's DTSTAMP.
func WriteICS(w io.Writer, plan *domain.Plan, dates []time.Time, stamp time.Time) error {
	entries := make([]scheduler.AgendaEntry, len(dates))
	for i, d := range dates {
		entries[i] = scheduler.AgendaEntry{Date: d, Plan: plan}
	}
	return WriteAgendaICS(w, entries, stamp)
}

// WriteAgendaICS writes an agenda as all-day VEVENTs.
func WriteAgendaICS(w io.Writer, entries []scheduler.AgendaEntry, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, e := range entries {
		if e.Plan == nil {
			return fmt.Errorf("agenda entry on %s has no plan", e.Date.Format(domain.DateLayout))
		}
		cal.Children = append(cal.Children, newEvent(e.Plan, e.Date, stamp).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func newEvent(p *domain.Plan, date, stamp time.Time) *ical.Event {
	day := domain.DateOf(date)
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, EventUID(p.ID, day))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDate(ical.PropDateTimeStart, day)
	event.Props.SetDate(ical.PropDateTimeEnd, domain.AddDays(day, 1))
	event.Props.SetText(ical.PropSummary, p.Title)
	if p.Description != "" {
		event.Props.SetText(ical.PropDescription, p.Description)
	}
	if p.Rule != nil {
		event.Props.SetText(ical.PropComment, domain.DescribeRule(p.Rule))
	}
	return event
}

// EventUID is stable per plan and date, so re-exporting updates events in
// place instead of duplicating them.
func EventUID(planID string, date time.Time) string {
	return fmt.Sprintf("%s-%s@cadence", planID, date.Format("20060102"))
}
