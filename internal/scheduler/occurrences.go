package scheduler

import (
	"slices"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// OccurrencesWithin lists, in ascending order, every date in the effective
// window (plan bounds intersected with [queryStart, queryEnd]) on which the
// plan's rule fires. An empty window yields an empty result, not an error.
func OccurrencesWithin(p *domain.Plan, queryStart, queryEnd time.Time) ([]time.Time, error) {
	if p == nil || !domain.IsValidRule(p.Rule) {
		return nil, domain.ErrMissingOrInvalidRule
	}

	w, ok := EffectiveWindow(p, queryStart, queryEnd).Get()
	if !ok {
		return []time.Time{}, nil
	}
	return enumerate(p.Rule, w), nil
}

// enumerate jumps straight to aligned dates for daily and weekly rules and
// scans day by day for the calendar-based variants. Every strategy yields
// exactly the dates for which domain.IsOccurrence holds.
func enumerate(r domain.RecurrenceRule, w Window) []time.Time {
	start := w.Start
	if a := r.Anchor(); start.Before(a) {
		start = a
	}
	if start.After(w.End) {
		return []time.Time{}
	}

	switch v := r.(type) {
	case domain.DailyRule:
		return stepDaily(v, start, w.End)
	case domain.WeeklyRule:
		return stepWeekly(v, start, w.End)
	default:
		return scan(r, start, w.End)
	}
}

// stepDaily and stepWeekly work in day offsets from the anchor. Every step
// is compared against the remaining window before it is taken, so an
// interval of any size ends the loop instead of overflowing.
func stepDaily(r domain.DailyRule, start, end time.Time) []time.Time {
	k := r.Interval()
	anchor := r.Anchor()
	off := domain.DaysBetween(anchor, start)
	last := domain.DaysBetween(anchor, end)

	if rem := off % k; rem != 0 {
		if k-rem > last-off {
			return []time.Time{}
		}
		off += k - rem
	}

	out := []time.Time{}
	for {
		out = append(out, domain.AddDays(anchor, off))
		if k > last-off {
			return out
		}
		off += k
	}
}

func stepWeekly(r domain.WeeklyRule, start, end time.Time) []time.Time {
	k := r.Interval()
	anchor := r.Anchor()
	days := r.DaysOfWeek()
	first := domain.DaysBetween(anchor, start)
	last := domain.DaysBetween(anchor, end)
	week, lastWeek := first/7, last/7

	if rem := week % k; rem != 0 {
		if k-rem > lastWeek-week {
			return []time.Time{}
		}
		week += k - rem
	}

	out := []time.Time{}
	for {
		from := max(first, week*7)
		to := min(last, week*7+6)
		for off := from; off <= to; off++ {
			if d := domain.AddDays(anchor, off); slices.Contains(days, d.Weekday()) {
				out = append(out, d)
			}
		}
		if k > lastWeek-week {
			return out
		}
		week += k
	}
}

func scan(r domain.RecurrenceRule, start, end time.Time) []time.Time {
	out := []time.Time{}
	for d := start; !d.After(end); d = domain.AddDays(d, 1) {
		if domain.IsOccurrence(r, d) {
			out = append(out, d)
		}
	}
	return out
}
