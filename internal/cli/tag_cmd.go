package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
)

func newTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag plans",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add ID TAG...",
			Short: "Tag a plan, creating tags on first use",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, name := range args[1:] {
					t, err := app.Tags.AddToPlan(cmdContext(cmd), args[0], name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with #%s\n", args[0], t.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID TAG",
			Short: "Remove a tag from a plan",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Tags.RemoveFromPlan(cmdContext(cmd), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%s from %s\n", args[1], args[0])
				return nil
			},
		},
		newTagListCmd(app),
		&cobra.Command{
			Use:   "plans TAG",
			Short: "List plans with a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plans, err := app.Tags.ListPlans(cmdContext(cmd), args[0])
				if err != nil {
					return err
				}
				return printPlans(cmd, plans)
			},
		},
	)

	return cmd
}

func newTagListCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, optionally for one plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tags []*domain.Tag
			var err error
			if planID != "" {
				tags, err = app.Tags.ListForPlan(cmdContext(cmd), planID)
			} else {
				tags, err = app.Tags.List(cmdContext(cmd))
			}
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTagList(tags))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Only tags of this plan")
	return cmd
}
