package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/recurrence"
)

// cadenceHuhTheme returns a huh theme matching the formatter palette.
func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// ruleWizard holds the answers of the interactive rule form.
type ruleWizard struct {
	kind     string
	every    string
	weekdays []time.Weekday
	days     string
	months   []int
	anchor   string
}

func (w *ruleWizard) form() *huh.Form {
	kindOptions := []huh.Option[string]{
		huh.NewOption("Daily", string(domain.RuleDaily)),
		huh.NewOption("Weekly", string(domain.RuleWeekly)),
		huh.NewOption("Monthly", string(domain.RuleMonthly)),
		huh.NewOption("Yearly", string(domain.RuleYearly)),
	}
	weekdayOptions := make([]huh.Option[time.Weekday], 0, 7)
	for d := time.Monday; d <= time.Saturday; d++ {
		weekdayOptions = append(weekdayOptions, huh.NewOption(d.String(), d))
	}
	weekdayOptions = append(weekdayOptions, huh.NewOption(time.Sunday.String(), time.Sunday))
	monthOptions := make([]huh.Option[int], 0, 12)
	for m := time.January; m <= time.December; m++ {
		monthOptions = append(monthOptions, huh.NewOption(m.String(), int(m)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Repeats").
				Options(kindOptions...).
				Value(&w.kind),
			huh.NewInput().
				Title("Every how many units").
				Placeholder("1").
				Value(&w.every).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Months").
				Options(monthOptions...).
				Value(&w.months),
		).WithHideFunc(func() bool { return w.kind != string(domain.RuleYearly) }),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Days of the week").
				Options(weekdayOptions...).
				Value(&w.weekdays),
			huh.NewInput().
				Title("Days of the month (e.g. 1,15; blank for none)").
				Value(&w.days).
				Validate(validateDayList),
		).WithHideFunc(func() bool { return w.kind == string(domain.RuleDaily) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Anchor date (YYYY-MM-DD, blank for the plan's start)").
				Placeholder("2024-01-01").
				Value(&w.anchor).
				Validate(validateOptionalDate),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}

// params turns the answers into rule parameters. Answers from groups hidden
// for the chosen kind are dropped.
func (w *ruleWizard) params() (domain.RuleParams, error) {
	kind, err := recurrence.ParseKind(w.kind)
	if err != nil {
		return domain.RuleParams{}, err
	}
	p := domain.RuleParams{Kind: kind, Interval: 1}

	if s := strings.TrimSpace(w.every); s != "" {
		if p.Interval, err = strconv.Atoi(s); err != nil {
			return domain.RuleParams{}, fmt.Errorf("invalid interval %q", s)
		}
	}
	if kind != domain.RuleDaily {
		p.DaysOfWeek = w.weekdays
		if kind != domain.RuleWeekly && strings.TrimSpace(w.days) != "" {
			if p.DaysOfMonth, err = recurrence.ParseDaysOfMonth(strings.Split(w.days, ",")); err != nil {
				return domain.RuleParams{}, err
			}
		}
	}
	if kind == domain.RuleYearly {
		p.MonthsOfYear = w.months
	}
	if s := strings.TrimSpace(w.anchor); s != "" {
		if p.Anchor, err = domain.ParseDate(s); err != nil {
			return domain.RuleParams{}, err
		}
	}
	return p, nil
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateDayList(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := recurrence.ParseDaysOfMonth(strings.Split(s, ","))
	return err
}
