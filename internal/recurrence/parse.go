package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/alexanderramin/cadence/internal/domain"
)

// canonical folds user input so "Monday", "MONDAY" and "monday " compare equal.
func canonical(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// ParseKind accepts a rule kind name in any case.
func ParseKind(s string) (domain.RuleKind, error) {
	k := canonical(s)
	if !domain.ValidRuleKinds[k] {
		return "", invalid("rule_type", fmt.Sprintf("%q must be one of daily, weekly, monthly, yearly", s))
	}
	return domain.RuleKind(k), nil
}

// ParseWeekday accepts full English names ("thursday") and three-letter
// abbreviations ("thu").
func ParseWeekday(s string) (time.Weekday, error) {
	c := canonical(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := canonical(d.String())
		if c == name || (len(c) == 3 && c == name[:3]) {
			return d, nil
		}
	}
	return 0, invalid("days_of_week", fmt.Sprintf("unknown weekday %q", s))
}

// ParseMonth accepts a month number (1-12), full English name or
// three-letter abbreviation.
func ParseMonth(s string) (int, error) {
	c := canonical(s)
	if n, err := strconv.Atoi(c); err == nil {
		if n < 1 || n > 12 {
			return 0, invalid("months_of_year", fmt.Sprintf("month %d must be between 1 and 12", n))
		}
		return n, nil
	}
	for m := time.January; m <= time.December; m++ {
		name := canonical(m.String())
		if c == name || (len(c) == 3 && c == name[:3]) {
			return int(m), nil
		}
	}
	return 0, invalid("months_of_year", fmt.Sprintf("unknown month %q", s))
}

// ParseDayOfMonth accepts 1-31.
func ParseDayOfMonth(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 31 {
		return 0, invalid("days_of_month", fmt.Sprintf("%q must be a day between 1 and 31", s))
	}
	return n, nil
}

func ParseWeekdays(vals []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(vals))
	for _, v := range vals {
		d, err := ParseWeekday(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func ParseMonths(vals []string) ([]int, error) {
	return parseAll(vals, ParseMonth)
}

func ParseDaysOfMonth(vals []string) ([]int, error) {
	return parseAll(vals, ParseDayOfMonth)
}

func parseAll(vals []string, parse func(string) (int, error)) ([]int, error) {
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		n, err := parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
