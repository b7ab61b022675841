package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RecurrenceRule is a repeat rule owned by a Plan. The variant set is closed:
// DailyRule, WeeklyRule, MonthlyRule and YearlyRule, always used by value.
// Rules are immutable; changing a plan's schedule means building a new rule.
//
// Validity, description and the occurrence predicate are package functions
// that switch over the variants (IsValidRule, DescribeRule, IsOccurrence).
type RecurrenceRule interface {
	Kind() RuleKind
	Interval() int
	// Anchor is the date interval counting starts from. It is fixed when the
	// rule is built and never derived from the evaluation time.
	Anchor() time.Time
	isRecurrenceRule()
}

// RuleParams is the flat, persisted form of a rule.
type RuleParams struct {
	Kind         RuleKind
	Interval     int
	Anchor       time.Time
	DaysOfWeek   []time.Weekday
	DaysOfMonth  []int
	MonthsOfYear []int
}

// DailyRule repeats every interval days from its anchor.
type DailyRule struct {
	interval int
	anchor   time.Time
}

// WeeklyRule repeats on its weekdays in every interval-th week counted from the anchor.
type WeeklyRule struct {
	interval   int
	anchor     time.Time
	daysOfWeek []time.Weekday
}

// MonthlyRule repeats in every interval-th month, filtered by day of month and weekday.
type MonthlyRule struct {
	interval    int
	anchor      time.Time
	daysOfWeek  []time.Weekday
	daysOfMonth []int
}

// YearlyRule repeats in the listed months of every interval-th year.
type YearlyRule struct {
	interval     int
	anchor       time.Time
	monthsOfYear []int
	daysOfWeek   []time.Weekday
	daysOfMonth  []int
}

// The New*Rule constructors normalize their inputs (date-only anchor,
// sorted and de-duplicated sets) but do not validate them. Use the
// recurrence package to build validated rules.

// NewDailyRule returns an unvalidated daily rule.
func NewDailyRule(anchor time.Time, interval int) DailyRule {
	return DailyRule{interval: interval, anchor: DateOf(anchor)}
}

// NewWeeklyRule returns an unvalidated weekly rule.
func NewWeeklyRule(anchor time.Time, interval int, daysOfWeek []time.Weekday) WeeklyRule {
	return WeeklyRule{interval: interval, anchor: DateOf(anchor), daysOfWeek: normalizeSet(daysOfWeek)}
}

// NewMonthlyRule returns an unvalidated monthly rule.
func NewMonthlyRule(anchor time.Time, interval int, daysOfWeek []time.Weekday, daysOfMonth []int) MonthlyRule {
	return MonthlyRule{
		interval:    interval,
		anchor:      DateOf(anchor),
		daysOfWeek:  normalizeSet(daysOfWeek),
		daysOfMonth: normalizeSet(daysOfMonth),
	}
}

// NewYearlyRule returns an unvalidated yearly rule.
func NewYearlyRule(anchor time.Time, interval int, monthsOfYear []int, daysOfWeek []time.Weekday, daysOfMonth []int) YearlyRule {
	return YearlyRule{
		interval:     interval,
		anchor:       DateOf(anchor),
		monthsOfYear: normalizeSet(monthsOfYear),
		daysOfWeek:   normalizeSet(daysOfWeek),
		daysOfMonth:  normalizeSet(daysOfMonth),
	}
}

func (r DailyRule) Kind() RuleKind      { return RuleDaily }
func (r DailyRule) Interval() int       { return r.interval }
func (r DailyRule) Anchor() time.Time   { return r.anchor }
func (r WeeklyRule) Kind() RuleKind     { return RuleWeekly }
func (r WeeklyRule) Interval() int      { return r.interval }
func (r WeeklyRule) Anchor() time.Time  { return r.anchor }
func (r MonthlyRule) Kind() RuleKind    { return RuleMonthly }
func (r MonthlyRule) Interval() int     { return r.interval }
func (r MonthlyRule) Anchor() time.Time { return r.anchor }
func (r YearlyRule) Kind() RuleKind     { return RuleYearly }
func (r YearlyRule) Interval() int      { return r.interval }
func (r YearlyRule) Anchor() time.Time  { return r.anchor }

func (DailyRule) isRecurrenceRule()   {}
func (WeeklyRule) isRecurrenceRule()  {}
func (MonthlyRule) isRecurrenceRule() {}
func (YearlyRule) isRecurrenceRule()  {}

func (r WeeklyRule) DaysOfWeek() []time.Weekday  { return slices.Clone(r.daysOfWeek) }
func (r MonthlyRule) DaysOfWeek() []time.Weekday { return slices.Clone(r.daysOfWeek) }
func (r MonthlyRule) DaysOfMonth() []int         { return slices.Clone(r.daysOfMonth) }
func (r YearlyRule) MonthsOfYear() []int         { return slices.Clone(r.monthsOfYear) }
func (r YearlyRule) DaysOfWeek() []time.Weekday  { return slices.Clone(r.daysOfWeek) }
func (r YearlyRule) DaysOfMonth() []int          { return slices.Clone(r.daysOfMonth) }

// ParamsOf flattens a rule into its persisted parameters.
// A nil rule yields zero params.
func ParamsOf(r RecurrenceRule) RuleParams {
	switch v := r.(type) {
	case DailyRule:
		return RuleParams{Kind: RuleDaily, Interval: v.interval, Anchor: v.anchor}
	case WeeklyRule:
		return RuleParams{Kind: RuleWeekly, Interval: v.interval, Anchor: v.anchor,
			DaysOfWeek: v.DaysOfWeek()}
	case MonthlyRule:
		return RuleParams{Kind: RuleMonthly, Interval: v.interval, Anchor: v.anchor,
			DaysOfWeek: v.DaysOfWeek(), DaysOfMonth: v.DaysOfMonth()}
	case YearlyRule:
		return RuleParams{Kind: RuleYearly, Interval: v.interval, Anchor: v.anchor,
			MonthsOfYear: v.MonthsOfYear(), DaysOfWeek: v.DaysOfWeek(), DaysOfMonth: v.DaysOfMonth()}
	default:
		return RuleParams{}
	}
}

// IsValidRule reports whether r satisfies its variant's invariants.
func IsValidRule(r RecurrenceRule) bool {
	switch v := r.(type) {
	case DailyRule:
		return validBase(v.interval, v.anchor)
	case WeeklyRule:
		return validBase(v.interval, v.anchor) &&
			len(v.daysOfWeek) > 0 && validWeekdays(v.daysOfWeek)
	case MonthlyRule:
		return validBase(v.interval, v.anchor) &&
			validDayFilters(v.daysOfWeek, v.daysOfMonth)
	case YearlyRule:
		return validBase(v.interval, v.anchor) &&
			len(v.monthsOfYear) > 0 && allInRange(v.monthsOfYear, 1, 12) &&
			validDayFilters(v.daysOfWeek, v.daysOfMonth)
	default:
		return false
	}
}

// IsOccurrence reports whether the rule fires on date. It fails closed:
// a nil or invalid rule, a zero date, or a date before the anchor all
// yield false.
func IsOccurrence(r RecurrenceRule, date time.Time) bool {
	if date.IsZero() || !IsValidRule(r) {
		return false
	}
	d := DateOf(date)
	if d.Before(r.Anchor()) {
		return false
	}

	switch v := r.(type) {
	case DailyRule:
		return DaysBetween(v.anchor, d)%v.interval == 0
	case WeeklyRule:
		weeks := DaysBetween(v.anchor, d) / 7
		return weeks%v.interval == 0 && slices.Contains(v.daysOfWeek, d.Weekday())
	case MonthlyRule:
		return MonthsBetween(v.anchor, d)%v.interval == 0 &&
			matchesDayFilters(v.daysOfWeek, v.daysOfMonth, d)
	case YearlyRule:
		return YearsBetween(v.anchor, d)%v.interval == 0 &&
			slices.Contains(v.monthsOfYear, int(d.Month())) &&
			matchesDayFilters(v.daysOfWeek, v.daysOfMonth, d)
	default:
		return false
	}
}

// DescribeRule renders a short English description such as
// "Every 2 weeks on Monday, Thursday starting 2024-01-01".
func DescribeRule(r RecurrenceRule) string {
	if !IsValidRule(r) {
		return "invalid recurrence rule"
	}

	var b strings.Builder
	b.WriteString(everyN(r.Interval(), r.Kind().Unit()))

	switch v := r.(type) {
	case WeeklyRule:
		b.WriteString(" on " + joinWeekdays(v.daysOfWeek))
	case MonthlyRule:
		writeDayFilters(&b, v.daysOfWeek, v.daysOfMonth)
	case YearlyRule:
		b.WriteString(" in " + joinMonths(v.monthsOfYear))
		writeDayFilters(&b, v.daysOfWeek, v.daysOfMonth)
	}

	b.WriteString(" starting " + r.Anchor().Format(DateLayout))
	return b.String()
}

func validBase(interval int, anchor time.Time) bool {
	return interval >= 1 && !anchor.IsZero()
}

func validWeekdays(days []time.Weekday) bool {
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return false
		}
	}
	return true
}

func validDayFilters(daysOfWeek []time.Weekday, daysOfMonth []int) bool {
	if len(daysOfWeek) == 0 && len(daysOfMonth) == 0 {
		return false
	}
	return validWeekdays(daysOfWeek) && allInRange(daysOfMonth, 1, 31)
}

func matchesDayFilters(daysOfWeek []time.Weekday, daysOfMonth []int, d time.Time) bool {
	if len(daysOfMonth) > 0 && !slices.Contains(daysOfMonth, d.Day()) {
		return false
	}
	if len(daysOfWeek) > 0 && !slices.Contains(daysOfWeek, d.Weekday()) {
		return false
	}
	return true
}

func allInRange(vals []int, lo, hi int) bool {
	for _, v := range vals {
		if v < lo || v > hi {
			return false
		}
	}
	return true
}

func normalizeSet[T ~int](vals []T) []T {
	if len(vals) == 0 {
		return nil
	}
	out := slices.Clone(vals)
	slices.Sort(out)
	return slices.Compact(out)
}

func everyN(n int, unit string) string {
	if n == 1 {
		return "Every " + unit
	}
	return fmt.Sprintf("Every %d %ss", n, unit)
}

func writeDayFilters(b *strings.Builder, daysOfWeek []time.Weekday, daysOfMonth []int) {
	switch {
	case len(daysOfMonth) > 0 && len(daysOfWeek) > 0:
		b.WriteString(" on day " + joinInts(daysOfMonth) + " when a " + joinWeekdays(daysOfWeek))
	case len(daysOfMonth) > 0:
		b.WriteString(" on day " + joinInts(daysOfMonth))
	case len(daysOfWeek) > 0:
		b.WriteString(" on " + joinWeekdays(daysOfWeek))
	}
}

func joinWeekdays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func joinMonths(months []int) string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = time.Month(m).String()
	}
	return strings.Join(names, ", ")
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
