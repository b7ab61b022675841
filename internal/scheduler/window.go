package scheduler

import (
	"time"

	"github.com/samber/mo"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(d time.Time) bool {
	d = domain.DateOf(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the number of dates in the window, counting both ends.
func (w Window) Days() int {
	return domain.DaysBetween(w.Start, w.End) + 1
}

// EffectiveWindow intersects the plan's own bounds with the query window.
// It is absent when the intersection is empty, when either query bound is
// missing, or for a nil plan. Absent plan bounds do not narrow the query.
func EffectiveWindow(p *domain.Plan, queryStart, queryEnd time.Time) mo.Option[Window] {
	if p == nil || queryStart.IsZero() || queryEnd.IsZero() {
		return mo.None[Window]()
	}

	w := Window{Start: domain.DateOf(queryStart), End: domain.DateOf(queryEnd)}
	if p.StartDate != nil {
		if s := domain.DateOf(*p.StartDate); s.After(w.Start) {
			w.Start = s
		}
	}
	if p.EndDate != nil {
		if e := domain.DateOf(*p.EndDate); e.Before(w.End) {
			w.End = e
		}
	}

	if w.Start.After(w.End) {
		return mo.None[Window]()
	}
	return mo.Some(w)
}
