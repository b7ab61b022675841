package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/export"
)

func newAgendaCmd(app *App) *cobra.Command {
	var from, to dateValue
	var days int
	var ics string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show what is scheduled, day by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			start := from.OrElse(app.today())
			end := to.OrElse(domain.AddDays(start, days-1))

			entries, err := app.Agenda.Agenda(cmdContext(cmd), start, end)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("ics") {
				path := ics
				if path == "-" {
					path = ""
				}
				return writeOutput(cmd, path, func(w io.Writer) error {
					return export.WriteAgendaICS(w, entries, app.now())
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAgenda(entries))
			return nil
		},
	}

	cmd.Flags().Var(&from, "from", "First day (default today)")
	cmd.Flags().Var(&to, "to", "Last day (overrides --days)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")
	cmd.Flags().StringVar(&ics, "ics", "", "Write the agenda as iCalendar to this file (- for stdout)")

	return cmd
}
