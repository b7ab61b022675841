package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/cadence/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatDate renders a calendar date as YYYY-MM-DD, or a dim "--" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(domain.DateLayout)
}

// DayLabel renders "Mon 2024-01-01".
func DayLabel(t time.Time) string {
	return t.Format("Mon ") + t.Format(domain.DateLayout)
}

// DateRange renders a plan's window, e.g. "2024-01-01 → 2024-12-31" or
// "from 2024-01-01". Someday plans render as "someday".
func DateRange(p *domain.Plan) string {
	switch {
	case p.StartDate != nil && p.EndDate != nil:
		return FormatDate(p.StartDate) + " → " + FormatDate(p.EndDate)
	case p.StartDate != nil:
		return "from " + FormatDate(p.StartDate)
	case p.EndDate != nil:
		return "until " + FormatDate(p.EndDate)
	default:
		return StyleYellow.Render("someday")
	}
}
