package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/export"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
)

const (
	defaultQueryDays = 30
	upcomingDays     = 60
	upcomingLimit    = 5
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanUpdateCmd(app),
		newPlanRemoveCmd(app),
		newPlanDoneCmd(app),
		newPlanUndoCmd(app),
		newPlanSomedayCmd(app),
		newPlanRuleCmd(app),
		newPlanActiveCmd(app),
		newPlanOccurrencesCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var desc, category string
	var start, end dateValue
	rule := newRuleFlags()

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a plan; without dates it is a someday plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := rule.params()
			if err != nil {
				return err
			}
			p, err := app.Plans.Create(cmdContext(cmd), service.CreatePlanInput{
				Title:       strings.Join(args, " "),
				Description: desc,
				StartDate:   start.Get(),
				EndDate:     end.Get(),
				Category:    category,
				Rule:        params,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s [%s]\n", p.Title, p.DisplayID())
			if p.Rule != nil {
				fmt.Fprintln(cmd.OutOrStdout(), domain.DescribeRule(p.Rule))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(&end, "end", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Category name")
	rule.register(cmd.Flags())

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var category, tag string
	var open bool
	var from, to dateValue

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			f := repository.PlanFilter{TagName: tag, OpenOnly: open, ActiveFrom: from.Get(), ActiveTo: to.Get()}
			if category != "" {
				id, err := resolveCategoryID(ctx, app, category)
				if err != nil {
					return err
				}
				f.CategoryID = id
			}

			plans, err := app.Plans.List(ctx, f)
			if err != nil {
				return err
			}
			return printPlans(cmd, plans)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only plans in this category")
	cmd.Flags().StringVar(&tag, "tag", "", "Only plans with this tag")
	cmd.Flags().BoolVar(&open, "open", false, "Hide completed plans")
	cmd.Flags().Var(&from, "from", "Only plans whose dates reach this day")
	cmd.Flags().Var(&to, "to", "Only plans whose dates start by this day")

	return cmd
}

func newPlanSomedayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "someday",
		Short: "List plans without any dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListSomeday(cmdContext(cmd))
			if err != nil {
				return err
			}
			return printPlans(cmd, plans)
		},
	}
}

func printPlans(cmd *cobra.Command, plans []*domain.Plan) error {
	if len(plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plans found.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
	return nil
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show plan details and upcoming occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := app.Plans.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			detail := formatter.PlanDetail{Plan: p}
			if detail.Tags, err = app.Tags.ListForPlan(ctx, p.ID); err != nil {
				return err
			}
			if p.CategoryID != nil {
				if detail.Category, err = categoryName(ctx, app, *p.CategoryID); err != nil {
					return err
				}
			}
			if p.Rule != nil {
				today := app.today()
				upcoming, err := app.Plans.Occurrences(ctx, p.ID, today, domain.AddDays(today, upcomingDays-1))
				if err != nil && !errors.Is(err, domain.ErrWindowTooLarge) {
					return err
				}
				if len(upcoming) > upcomingLimit {
					upcoming = upcoming[:upcomingLimit]
				}
				detail.Upcoming = upcoming
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanDetail(detail))
			return nil
		},
	}
}

func newPlanUpdateCmd(app *App) *cobra.Command {
	var title, desc, category string
	var start, end dateValue
	var noStart, noEnd, noCategory bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a plan's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var u service.PlanUpdate
			if flags.Changed("title") {
				u.Title = mo.Some(title)
			}
			if flags.Changed("desc") {
				u.Description = mo.Some(desc)
			}
			switch {
			case noStart:
				u.StartDate = mo.Some[*time.Time](nil)
			case flags.Changed("start"):
				u.StartDate = mo.Some(start.Get())
			}
			switch {
			case noEnd:
				u.EndDate = mo.Some[*time.Time](nil)
			case flags.Changed("end"):
				u.EndDate = mo.Some(end.Get())
			}
			switch {
			case noCategory:
				u.Category = mo.Some("")
			case flags.Changed("category"):
				u.Category = mo.Some(category)
			}

			p, err := app.Plans.Update(cmdContext(cmd), args[0], u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated plan %s [%s]\n", p.Title, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	cmd.Flags().Var(&start, "start", "New start date (YYYY-MM-DD)")
	cmd.Flags().Var(&end, "end", "New end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "New category name")
	cmd.Flags().BoolVar(&noStart, "no-start", false, "Clear the start date")
	cmd.Flags().BoolVar(&noEnd, "no-end", false, "Clear the end date")
	cmd.Flags().BoolVar(&noCategory, "no-category", false, "Clear the category")
	cmd.MarkFlagsMutuallyExclusive("start", "no-start")
	cmd.MarkFlagsMutuallyExclusive("end", "no-end")
	cmd.MarkFlagsMutuallyExclusive("category", "no-category")

	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a plan with its rule and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Delete(cmdContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		},
	}
}

func newPlanDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a plan completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.MarkCompleted(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s [%s]\n", p.Title, p.DisplayID())
			return nil
		},
	}
}

func newPlanUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo ID",
		Short: "Reopen a completed plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.MarkIncomplete(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s [%s]\n", p.Title, p.DisplayID())
			return nil
		},
	}
}

func newPlanActiveCmd(app *App) *cobra.Command {
	var date dateValue

	cmd := &cobra.Command{
		Use:   "active ID",
		Short: "Report whether a plan is active on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on := date.OrElse(app.today())
			active, err := app.Plans.IsActive(cmdContext(cmd), args[0], on)
			if err != nil {
				return err
			}
			state := formatter.StyleDim.Render("not active")
			if active {
				state = formatter.StyleGreen.Render("active")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", formatter.DayLabel(on), state)
			return nil
		},
	}

	cmd.Flags().Var(&date, "date", "Date to check (default today)")
	return cmd
}

// queryWindow reads --from/--to, defaulting to today and the following
// defaultQueryDays days.
func queryWindow(app *App, from, to *dateValue) (time.Time, time.Time) {
	start := from.OrElse(app.today())
	return start, to.OrElse(domain.AddDays(start, defaultQueryDays-1))
}

func newPlanOccurrencesCmd(app *App) *cobra.Command {
	var from, to dateValue

	cmd := &cobra.Command{
		Use:   "occurrences ID",
		Short: "List the dates a recurring plan occurs on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := app.Plans.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			start, end := queryWindow(app, &from, &to)
			dates, err := app.Plans.Occurrences(ctx, p.ID, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOccurrences(p.Title, dates))
			return nil
		},
	}

	cmd.Flags().Var(&from, "from", "First date of the window (default today)")
	cmd.Flags().Var(&to, "to", "Last date of the window (default 30 days on)")
	return cmd
}

func newPlanExportCmd(app *App) *cobra.Command {
	var from, to dateValue
	var out string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a plan's occurrences as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := app.Plans.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			start, end := queryWindow(app, &from, &to)
			dates, err := app.Plans.Occurrences(ctx, p.ID, start, end)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return export.WriteICS(w, p, dates, app.now())
			})
		},
	}

	cmd.Flags().Var(&from, "from", "First date of the window (default today)")
	cmd.Flags().Var(&to, "to", "Last date of the window (default 30 days on)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

// writeOutput runs write against a newly created file at path, or against
// the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func resolveCategoryID(ctx context.Context, app *App, name string) (string, error) {
	categories, err := app.Categories.List(ctx, true)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
}

func categoryName(ctx context.Context, app *App, id string) (string, error) {
	categories, err := app.Categories.List(ctx, true)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name, nil
		}
	}
	return "", nil
}
