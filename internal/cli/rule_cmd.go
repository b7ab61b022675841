package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/domain"
)

func newPlanRuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Attach or remove a plan's recurrence rule",
	}
	cmd.AddCommand(newRuleSetCmd(app), newRuleClearCmd(app))
	return cmd
}

func newRuleSetCmd(app *App) *cobra.Command {
	rule := newRuleFlags()
	var interactive bool

	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Replace a plan's recurrence rule",
		Long: `Replace a plan's recurrence rule.

The anchor is the date interval counting starts from. It defaults to the
plan's start date, or today for plans without one.

Examples:
  cadence plan rule set 1a2b3c4d --repeat weekly --every 2 --on mon,thu
  cadence plan rule set 1a2b3c4d --repeat monthly --day 13 --on fri
  cadence plan rule set 1a2b3c4d --repeat yearly --month mar --day 1
  cadence plan rule set 1a2b3c4d --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)

			var params *domain.RuleParams
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				w := &ruleWizard{kind: string(domain.RuleWeekly), every: "1"}
				if err := app.runForm(w.form()); err != nil {
					return err
				}
				p, err := w.params()
				if err != nil {
					return err
				}
				params = &p
			} else {
				var err error
				if params, err = rule.params(); err != nil {
					return err
				}
				if params == nil {
					return fmt.Errorf("--repeat is required (or use --interactive)")
				}
			}

			p, err := app.Plans.SetRecurrenceRule(ctx, args[0], *params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]: %s\n", p.Title, p.DisplayID(), domain.DescribeRule(p.Rule))
			return nil
		},
	}

	rule.register(cmd.Flags())
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Build the rule with a form")
	cmd.MarkFlagsMutuallyExclusive("interactive", "repeat")

	return cmd
}

func newRuleClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear ID",
		Short: "Remove a plan's recurrence rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.RemoveRecurrenceRule(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] no longer repeats\n", p.Title, p.DisplayID())
			return nil
		},
	}
}
