// Package recurrence builds validated recurrence rules from raw parameters.
//
// Every builder is pure: it neither persists nor attaches the rule. The anchor
// date is always supplied by the caller; nothing here reads the clock.
package recurrence

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Build dispatches on p.Kind and returns a valid rule or an error wrapping
// domain.ErrInvalidRuleParameter.
func Build(p domain.RuleParams) (domain.RecurrenceRule, error) {
	switch p.Kind {
	case domain.RuleDaily:
		if len(p.DaysOfWeek) > 0 || len(p.DaysOfMonth) > 0 || len(p.MonthsOfYear) > 0 {
			return nil, invalid("days_of_week/days_of_month/months_of_year", "not supported for daily rules")
		}
		return widen[domain.DailyRule](BuildDaily(p.Anchor, p.Interval))
	case domain.RuleWeekly:
		if len(p.DaysOfMonth) > 0 || len(p.MonthsOfYear) > 0 {
			return nil, invalid("days_of_month/months_of_year", "not supported for weekly rules")
		}
		return widen[domain.WeeklyRule](BuildWeekly(p.Anchor, p.Interval, p.DaysOfWeek))
	case domain.RuleMonthly:
		if len(p.MonthsOfYear) > 0 {
			return nil, invalid("months_of_year", "not supported for monthly rules")
		}
		return widen[domain.MonthlyRule](BuildMonthly(p.Anchor, p.Interval, p.DaysOfWeek, p.DaysOfMonth))
	case domain.RuleYearly:
		return widen[domain.YearlyRule](BuildYearly(p.Anchor, p.Interval, p.MonthsOfYear, p.DaysOfWeek, p.DaysOfMonth))
	default:
		return nil, invalid("rule_type", fmt.Sprintf("unknown rule type %q", p.Kind))
	}
}

// widen converts a concrete variant result so that a failed build yields a
// nil rule instead of a zero-valued variant.
func widen[R domain.RecurrenceRule](r R, err error) (domain.RecurrenceRule, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func BuildDaily(anchor time.Time, interval int) (domain.DailyRule, error) {
	if err := validateBase(anchor, interval); err != nil {
		return domain.DailyRule{}, err
	}
	return domain.NewDailyRule(anchor, interval), nil
}

func BuildWeekly(anchor time.Time, interval int, daysOfWeek []time.Weekday) (domain.WeeklyRule, error) {
	if err := validateBase(anchor, interval); err != nil {
		return domain.WeeklyRule{}, err
	}
	if len(daysOfWeek) == 0 {
		return domain.WeeklyRule{}, invalid("days_of_week", "at least one day of the week must be specified")
	}
	if err := validateDaysOfWeek(daysOfWeek); err != nil {
		return domain.WeeklyRule{}, err
	}
	return domain.NewWeeklyRule(anchor, interval, daysOfWeek), nil
}

// BuildMonthly requires at least one of daysOfWeek and daysOfMonth. When both
// are given a date must match both.
func BuildMonthly(anchor time.Time, interval int, daysOfWeek []time.Weekday, daysOfMonth []int) (domain.MonthlyRule, error) {
	if err := validateBase(anchor, interval); err != nil {
		return domain.MonthlyRule{}, err
	}
	if err := validateDayFilters(daysOfWeek, daysOfMonth); err != nil {
		return domain.MonthlyRule{}, err
	}
	return domain.NewMonthlyRule(anchor, interval, daysOfWeek, daysOfMonth), nil
}

func BuildYearly(anchor time.Time, interval int, monthsOfYear []int, daysOfWeek []time.Weekday, daysOfMonth []int) (domain.YearlyRule, error) {
	if err := validateBase(anchor, interval); err != nil {
		return domain.YearlyRule{}, err
	}
	if len(monthsOfYear) == 0 {
		return domain.YearlyRule{}, invalid("months_of_year", "at least one month must be specified")
	}
	for _, m := range monthsOfYear {
		if m < 1 || m > 12 {
			return domain.YearlyRule{}, invalid("months_of_year", fmt.Sprintf("month %d must be between 1 and 12", m))
		}
	}
	if err := validateDayFilters(daysOfWeek, daysOfMonth); err != nil {
		return domain.YearlyRule{}, err
	}
	return domain.NewYearlyRule(anchor, interval, monthsOfYear, daysOfWeek, daysOfMonth), nil
}

func validateBase(anchor time.Time, interval int) error {
	if interval <= 0 {
		return invalid("interval", fmt.Sprintf("must be greater than 0, got %d", interval))
	}
	if anchor.IsZero() {
		return invalid("anchor_date", "is required")
	}
	return nil
}

func validateDaysOfWeek(days []time.Weekday) error {
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return invalid("days_of_week", fmt.Sprintf("weekday %d is out of range", int(d)))
		}
	}
	return nil
}

func validateDayFilters(daysOfWeek []time.Weekday, daysOfMonth []int) error {
	if len(daysOfWeek) == 0 && len(daysOfMonth) == 0 {
		return invalid("days_of_week/days_of_month", "either days of the week or days of the month must be specified")
	}
	if err := validateDaysOfWeek(daysOfWeek); err != nil {
		return err
	}
	for _, d := range daysOfMonth {
		if d < 1 || d > 31 {
			return invalid("days_of_month", fmt.Sprintf("day %d must be between 1 and 31", d))
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrInvalidRuleParameter, field, reason)
}
