package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{
		{"long cell", "x"},
		{"s", StyleRed.Render("y")},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "A          B", lines[0])
	assert.Equal(t, "─────────  ─", lines[1])
	assert.Equal(t, "long cell  x", lines[2])
	assert.Equal(t, "s          y", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestDateRange(t *testing.T) {
	start, end := domain.Date(2024, 1, 1), domain.Date(2024, 12, 31)
	tests := []struct {
		name string
		plan *domain.Plan
		want string
	}{
		{"both", testutil.NewTestPlan("p"), "2024-01-01 → 2024-12-31"},
		{"start only", testutil.NewTestPlan("p", testutil.WithSomeday(), testutil.WithStartDate(start)), "from 2024-01-01"},
		{"end only", testutil.NewTestPlan("p", testutil.WithSomeday(), testutil.WithEndDate(end)), "until 2024-12-31"},
		{"someday", testutil.NewTestPlan("p", testutil.WithSomeday()), "someday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(DateRange(tt.plan)))
		})
	}
}

func TestKindBadge(t *testing.T) {
	weekly := domain.NewWeeklyRule(domain.Date(2024, 1, 1), 1, []time.Weekday{time.Monday})
	assert.Equal(t, "weekly", stripANSI(KindBadge(testutil.NewTestPlan("p", testutil.WithRule(weekly)))))
	assert.Equal(t, "someday", stripANSI(KindBadge(testutil.NewTestPlan("p", testutil.WithSomeday()))))
	assert.Equal(t, "fixed", stripANSI(KindBadge(testutil.NewTestPlan("p"))))
}

func TestFormatPlanList(t *testing.T) {
	done := testutil.NewTestPlan("Taxes", testutil.WithCompleted(time.Now()))
	out := stripANSI(FormatPlanList([]*domain.Plan{testutil.NewTestPlan("Garden"), done}))

	assert.Contains(t, out, "PLANS")
	assert.Contains(t, out, "Garden")
	assert.Contains(t, out, "● Open")
	assert.Contains(t, out, "✔ Done")
	assert.Contains(t, out, done.ID[:8])
}

func TestFormatPlanDetail(t *testing.T) {
	rule := domain.NewWeeklyRule(domain.Date(2024, 1, 1), 2, []time.Weekday{time.Monday, time.Thursday})
	p := testutil.NewTestPlan("Swim", testutil.WithRule(rule), testutil.WithDescription("pool B"))

	out := stripANSI(FormatPlanDetail(PlanDetail{
		Plan:     p,
		Category: "Health",
		Tags:     []*domain.Tag{{Name: "outdoor"}, {Name: "fitness"}},
		Upcoming: []time.Time{domain.Date(2024, 1, 1), domain.Date(2024, 1, 4)},
	}))

	assert.Contains(t, out, "Swim")
	assert.Contains(t, out, "pool B")
	assert.Contains(t, out, p.ID)
	assert.Contains(t, out, "Every 2 weeks on Monday, Thursday starting 2024-01-01")
	assert.Contains(t, out, "Health")
	assert.Contains(t, out, "#outdoor #fitness")
	assert.Contains(t, out, "UPCOMING")
	assert.Contains(t, out, "Thu 2024-01-04")
}

func TestFormatOccurrences(t *testing.T) {
	out := stripANSI(FormatOccurrences("Swim", []time.Time{domain.Date(2024, 1, 1)}))
	assert.Contains(t, out, "SWIM")
	assert.Contains(t, out, "Mon 2024-01-01")
	assert.Contains(t, out, "1 occurrence")

	assert.Contains(t, stripANSI(FormatOccurrences("x", nil)), "0 occurrences")
}

func TestFormatAgenda_GroupsByDate(t *testing.T) {
	a := testutil.NewTestPlan("Conference")
	b := testutil.NewTestPlan("Swim")
	out := stripANSI(FormatAgenda([]scheduler.AgendaEntry{
		{Date: domain.Date(2024, 1, 3), Plan: a},
		{Date: domain.Date(2024, 1, 3), Plan: b},
		{Date: domain.Date(2024, 1, 4), Plan: a},
	}))

	assert.Equal(t, 1, strings.Count(out, "Wed 2024-01-03"))
	assert.Equal(t, 1, strings.Count(out, "Thu 2024-01-04"))
	assert.Equal(t, 2, strings.Count(out, "Conference"))
	assert.Contains(t, out, "3 entries")

	assert.Equal(t, "Nothing scheduled.", stripANSI(FormatAgenda(nil)))
}

func TestFormatCategoryAndTagLists(t *testing.T) {
	deleted := testutil.NewTestCategory("Old")
	now := time.Now()
	deleted.DeletedAt = &now

	out := stripANSI(FormatCategoryList([]*domain.Category{testutil.NewTestCategory("Home"), deleted}))
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "● Active")
	assert.Contains(t, out, "✖ Deleted")

	assert.Equal(t, "#a  #b", stripANSI(FormatTagList([]*domain.Tag{{Name: "a"}, {Name: "b"}})))
}
