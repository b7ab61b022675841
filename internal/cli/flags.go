package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/recurrence"
)

// dateValue is an optional YYYY-MM-DD flag. It stays nil until set.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (v *dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	v.t = &d
	return nil
}

func (v *dateValue) String() string {
	if v.t == nil {
		return ""
	}
	return v.t.Format(domain.DateLayout)
}

func (v *dateValue) Type() string { return "date" }

// Get returns the parsed date, or nil when the flag was not given.
func (v *dateValue) Get() *time.Time { return v.t }

// OrElse returns the date, or def when unset.
func (v *dateValue) OrElse(def time.Time) time.Time {
	if v.t == nil {
		return def
	}
	return *v.t
}

// listValue is a repeatable, comma-separated flag parsed element-wise.
// Both "--on mon,thu" and "--on mon --on thu" work.
type listValue[T any] struct {
	vals     []T
	parse    func(string) (T, error)
	format   func(T) string
	typeName string
}

var _ pflag.Value = (*listValue[int])(nil)

func (v *listValue[T]) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		x, err := v.parse(part)
		if err != nil {
			return err
		}
		v.vals = append(v.vals, x)
	}
	return nil
}

func (v *listValue[T]) String() string {
	parts := make([]string, len(v.vals))
	for i, x := range v.vals {
		parts[i] = v.format(x)
	}
	return strings.Join(parts, ",")
}

func (v *listValue[T]) Type() string { return v.typeName }

func newWeekdayList() *listValue[time.Weekday] {
	return &listValue[time.Weekday]{
		parse:    recurrence.ParseWeekday,
		format:   func(d time.Weekday) string { return strings.ToLower(d.String()[:3]) },
		typeName: "weekdays",
	}
}

func newMonthList() *listValue[int] {
	return &listValue[int]{
		parse:    recurrence.ParseMonth,
		format:   strconv.Itoa,
		typeName: "months",
	}
}

func newDayList() *listValue[int] {
	return &listValue[int]{
		parse:    recurrence.ParseDayOfMonth,
		format:   strconv.Itoa,
		typeName: "days",
	}
}

// ruleFlags collects the flags shared by "plan add" and "plan rule set".
type ruleFlags struct {
	repeat string
	every  int
	on     *listValue[time.Weekday]
	days   *listValue[int]
	months *listValue[int]
	anchor dateValue
}

func newRuleFlags() *ruleFlags {
	return &ruleFlags{on: newWeekdayList(), days: newDayList(), months: newMonthList()}
}

func (f *ruleFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.repeat, "repeat", "", "Rule type: daily, weekly, monthly or yearly")
	fs.IntVar(&f.every, "every", 1, "Repeat every N days/weeks/months/years")
	fs.Var(f.on, "on", "Days of the week, e.g. mon,thu")
	fs.Var(f.days, "day", "Days of the month, e.g. 1,15")
	fs.Var(f.months, "month", "Months of the year, e.g. jan,jul or 1,7")
	fs.Var(&f.anchor, "anchor", "Date interval counting starts from (YYYY-MM-DD)")
}

// params converts the flags to rule parameters. It returns nil when no
// rule type was given.
func (f *ruleFlags) params() (*domain.RuleParams, error) {
	if f.repeat == "" {
		return nil, nil
	}
	kind, err := recurrence.ParseKind(f.repeat)
	if err != nil {
		return nil, err
	}
	p := &domain.RuleParams{
		Kind:         kind,
		Interval:     f.every,
		DaysOfWeek:   f.on.vals,
		DaysOfMonth:  f.days.vals,
		MonthsOfYear: f.months.vals,
	}
	if a := f.anchor.Get(); a != nil {
		p.Anchor = *a
	}
	return p, nil
}

