package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// PlanDetail is everything the plan detail card shows.
type PlanDetail struct {
	Plan     *domain.Plan
	Category string
	Tags     []*domain.Tag
	// Upcoming lists the next few occurrences; empty for plans without a rule.
	Upcoming []time.Time
}

// FormatPlanList renders plans as a table inside a box.
func FormatPlanList(plans []*domain.Plan) string {
	headers := []string{"ID", "TITLE", "SCHEDULE", "DATES", "STATUS"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			KindBadge(p),
			DateRange(p),
			StatusPill(p.Status()),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows))
}

func FormatPlanDetail(d PlanDetail) string {
	p := d.Plan
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Title) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value)
	}
	field("ID", p.ID)
	field("STATUS", StatusPill(p.Status()))
	field("DATES", DateRange(p))
	if p.Rule != nil {
		field("REPEATS", StyleFg.Render(domain.DescribeRule(p.Rule)))
	} else {
		field("REPEATS", Dim("--"))
	}
	if d.Category != "" {
		field("CATEGORY", StylePurple.Render(d.Category))
	}
	if len(d.Tags) > 0 {
		names := make([]string, len(d.Tags))
		for i, t := range d.Tags {
			names[i] = "#" + t.Name
		}
		field("TAGS", StyleBlue.Render(strings.Join(names, " ")))
	}

	if len(d.Upcoming) > 0 {
		b.WriteString("\n" + Header("Upcoming") + "\n")
		for _, date := range d.Upcoming {
			b.WriteString("  " + DayLabel(date) + "\n")
		}
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatOccurrences lists dates one per line with a count footer.
func FormatOccurrences(title string, dates []time.Time) string {
	var b strings.Builder
	b.WriteString(Header(title) + "\n")
	for _, d := range dates {
		b.WriteString(DayLabel(d) + "\n")
	}
	b.WriteString(Dim(pluralize(len(dates), "occurrence", "occurrences")))
	return b.String()
}

func FormatCategoryList(categories []*domain.Category) string {
	headers := []string{"NAME", "STATUS"}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		status := StyleGreen.Render("● Active")
		if c.IsDeleted() {
			status = StyleDim.Render("✖ Deleted")
		}
		rows = append(rows, []string{Bold(c.Name), status})
	}
	return RenderBox("Categories", RenderTable(headers, rows))
}

func FormatTagList(tags []*domain.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = StyleBlue.Render("#" + t.Name)
	}
	return strings.Join(names, "  ")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
