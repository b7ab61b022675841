package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/alexanderramin/cadence/internal/domain"
)

const maxOracleInterval = 1000

var rruleWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// toROption maps a rule onto the equivalent RFC 5545 recurrence. Weekly
// interval blocks count from the anchor, so the week start is the anchor's
// weekday.
func toROption(r domain.RecurrenceRule) rrule.ROption {
	p := domain.ParamsOf(r)
	opt := rrule.ROption{
		Dtstart:    p.Anchor,
		Interval:   p.Interval,
		Wkst:       rruleWeekdays[p.Anchor.Weekday()],
		Bymonthday: p.DaysOfMonth,
		Bymonth:    p.MonthsOfYear,
	}
	for _, wd := range p.DaysOfWeek {
		opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
	}
	switch p.Kind {
	case domain.RuleDaily:
		opt.Freq = rrule.DAILY
	case domain.RuleWeekly:
		opt.Freq = rrule.WEEKLY
	case domain.RuleMonthly:
		opt.Freq = rrule.MONTHLY
	case domain.RuleYearly:
		opt.Freq = rrule.YEARLY
	}
	return opt
}

func TestOccurrencesWithin_AgreesWithRRule(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for trial := 0; trial < 200; trial++ {
		rule := randomRule(rng)
		if rule.Interval() > maxOracleInterval {
			// rrule-go adds the interval to calendar fields and overflows.
			continue
		}
		p := rulePlan(rule, ptr(rule.Anchor()), nil)
		qs := domain.AddDays(rule.Anchor(), rng.Intn(90))
		qe := domain.AddDays(qs, rng.Intn(3*365))

		got, err := OccurrencesWithin(p, qs, qe)
		require.NoError(t, err)

		oracle, err := rrule.NewRRule(toROption(rule))
		require.NoError(t, err)
		want := oracle.Between(qs, qe, true)
		if want == nil {
			want = []time.Time{}
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("trial %d %s in %s..%s (-rrule +ours):\n%s", trial, domain.DescribeRule(rule),
				qs.Format(domain.DateLayout), qe.Format(domain.DateLayout), diff)
		}
	}
}
