package scheduler

import (
	"math"
	"math/rand"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

func d(y int, m time.Month, day int) time.Time {
	return domain.Date(y, m, day)
}

func rulePlan(rule domain.RecurrenceRule, start, end *time.Time) *domain.Plan {
	return &domain.Plan{ID: "plan-1", Title: "Plan", StartDate: start, EndDate: end, Rule: rule}
}

func ptr(t time.Time) *time.Time { return &t }

// hugeIntervals stress interval arithmetic near the int limit.
var hugeIntervals = []int{1 << 40, math.MaxInt / 7, math.MaxInt / 3, math.MaxInt / 2, math.MaxInt}

// randomInterval is usually small; one draw in ten is huge.
func randomInterval(rng *rand.Rand) int {
	if rng.Intn(10) == 0 {
		return hugeIntervals[rng.Intn(len(hugeIntervals))]
	}
	return rng.Intn(4) + 1
}

// randomRule returns a valid rule of a random kind and its anchor.
func randomRule(rng *rand.Rand) domain.RecurrenceRule {
	anchor := domain.AddDays(d(2023, 1, 1), rng.Intn(900))
	interval := randomInterval(rng)
	weekdays := func() []time.Weekday {
		n := rng.Intn(3) + 1
		out := make([]time.Weekday, n)
		for i := range out {
			out[i] = time.Weekday(rng.Intn(7))
		}
		return out
	}
	switch rng.Intn(4) {
	case 0:
		return domain.NewDailyRule(anchor, interval)
	case 1:
		return domain.NewWeeklyRule(anchor, interval, weekdays())
	case 2:
		switch rng.Intn(3) {
		case 0:
			return domain.NewMonthlyRule(anchor, interval, weekdays(), nil)
		case 1:
			return domain.NewMonthlyRule(anchor, interval, nil, []int{rng.Intn(31) + 1, rng.Intn(31) + 1})
		default:
			return domain.NewMonthlyRule(anchor, interval, weekdays(), []int{rng.Intn(31) + 1})
		}
	default:
		months := []int{rng.Intn(12) + 1, rng.Intn(12) + 1}
		if rng.Intn(2) == 0 {
			return domain.NewYearlyRule(anchor, interval, months, weekdays(), nil)
		}
		return domain.NewYearlyRule(anchor, interval, months, nil, []int{rng.Intn(31) + 1})
	}
}
