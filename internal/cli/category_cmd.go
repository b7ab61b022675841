package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.Categories.Create(cmdContext(cmd), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %s\n", c.Name)
				return nil
			},
		},
		newCategoryListCmd(app),
		&cobra.Command{
			Use:   "plans NAME",
			Short: "List the plans in a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plans, err := app.Plans.ListByCategory(cmdContext(cmd), args[0])
				if err != nil {
					return err
				}
				return printPlans(cmd, plans)
			},
		},
		&cobra.Command{
			Use:   "rm NAME",
			Short: "Delete a category; its plans keep it until restored",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Categories.Delete(cmdContext(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore NAME",
			Short: "Restore a deleted category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Categories.Restore(cmdContext(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored category %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := app.Categories.List(cmdContext(cmd), all)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCategoryList(categories))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deleted categories")
	return cmd
}
