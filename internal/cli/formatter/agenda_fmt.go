package formatter

import (
	"strings"

	"github.com/alexanderramin/cadence/internal/scheduler"
)

// FormatAgenda groups entries under one header per date. Entries must be
// sorted by date.
func FormatAgenda(entries []scheduler.AgendaEntry) string {
	if len(entries) == 0 {
		return Dim("Nothing scheduled.")
	}

	var b strings.Builder
	for i, e := range entries {
		if i == 0 || !e.Date.Equal(entries[i-1].Date) {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(StyleHeader.Render(DayLabel(e.Date)) + "\n")
		}
		b.WriteString("  " + TruncID(e.Plan.ID) + "  " + StyleFg.Render(e.Plan.Title))
		if e.Plan.Rule != nil {
			b.WriteString("  " + StylePurple.Render(string(e.Plan.Rule.Kind())))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + Dim(pluralize(len(entries), "entry", "entries")))
	return b.String()
}
