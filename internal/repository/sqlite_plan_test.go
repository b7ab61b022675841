package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
)

func TestPlanRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	rule := domain.NewWeeklyRule(domain.Date(2024, 1, 1), 2, []time.Weekday{time.Monday, time.Thursday})
	plan := testutil.NewTestPlan("Run", testutil.WithRule(rule), testutil.WithDescription("5k"))
	require.NoError(t, repo.Create(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, fetched)
}

func TestPlanRepo_RoundTripsEveryRuleKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	rules := []domain.RecurrenceRule{
		domain.NewDailyRule(domain.Date(2024, 1, 5), 3),
		domain.NewWeeklyRule(domain.Date(2024, 1, 1), 1, []time.Weekday{time.Sunday, time.Saturday}),
		domain.NewMonthlyRule(domain.Date(2024, 1, 31), 1, nil, []int{31}),
		domain.NewMonthlyRule(domain.Date(2024, 1, 1), 2, []time.Weekday{time.Friday}, []int{13}),
		domain.NewYearlyRule(domain.Date(2024, 3, 1), 1, []int{3, 9}, nil, []int{1}),
	}
	for _, r := range rules {
		plan := testutil.NewTestPlan(string(r.Kind()), testutil.WithRule(r))
		require.NoError(t, repo.Create(ctx, plan))

		fetched, err := repo.GetByID(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, r, fetched.Rule, "kind=%s", r.Kind())
	}
}

func TestPlanRepo_SomedayPlanHasNullDates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Learn piano", testutil.WithSomeday())
	require.NoError(t, repo.Create(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsSomeday())
	assert.Nil(t, fetched.Rule)
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestPlanRepo_GetByIDPrefix(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	a := testutil.NewTestPlan("A")
	a.ID = "abc11111-0000-0000-0000-000000000000"
	b := testutil.NewTestPlan("B")
	b.ID = "abc22222-0000-0000-0000-000000000000"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByIDPrefix(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.GetByIDPrefix(ctx, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = repo.GetByIDPrefix(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByIDPrefix(ctx, "%")
	assert.ErrorIs(t, err, domain.ErrNotFound, "wildcards are matched literally")
}

func TestPlanRepo_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	tags := NewSQLiteTagRepo(db)
	cats := NewSQLiteCategoryRepo(db)
	ctx := context.Background()

	home := testutil.NewTestCategory("Home")
	require.NoError(t, cats.Create(ctx, home))

	jan := testutil.NewTestPlan("January", testutil.WithDates(domain.Date(2024, 1, 1), domain.Date(2024, 1, 31)),
		testutil.WithCategory(home.ID))
	open := testutil.NewTestPlan("Open ended", testutil.WithDates(domain.Date(2024, 3, 1), domain.Date(2024, 3, 1)))
	open.EndDate = nil
	someday := testutil.NewTestPlan("Someday", testutil.WithSomeday())
	done := testutil.NewTestPlan("Done", testutil.WithCompleted(time.Now()))
	for _, p := range []*domain.Plan{jan, open, someday, done} {
		require.NoError(t, repo.Create(ctx, p))
	}

	garden := testutil.NewTestTag("garden")
	require.NoError(t, tags.Create(ctx, garden))
	require.NoError(t, tags.AttachToPlan(ctx, someday.ID, garden.ID))

	titles := func(f PlanFilter) []string {
		t.Helper()
		plans, err := repo.List(ctx, f)
		require.NoError(t, err)
		var out []string
		for _, p := range plans {
			out = append(out, p.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Done", "January", "Open ended", "Someday"}, titles(PlanFilter{}))
	assert.Equal(t, []string{"Someday"}, titles(PlanFilter{SomedayOnly: true}))
	assert.Equal(t, []string{"January"}, titles(PlanFilter{CategoryID: home.ID}))
	assert.Equal(t, []string{"Someday"}, titles(PlanFilter{TagName: "garden"}))
	assert.Equal(t, []string{"January", "Open ended", "Someday"}, titles(PlanFilter{OpenOnly: true}))

	from, to := domain.Date(2024, 2, 1), domain.Date(2024, 6, 30)
	assert.Equal(t, []string{"Done", "Open ended"}, titles(PlanFilter{ActiveFrom: &from, ActiveTo: &to}))
	assert.Equal(t, []string{"Open ended"}, titles(PlanFilter{ActiveFrom: &from, ActiveTo: &to, OpenOnly: true}))
}

func TestPlanRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Draft")
	require.NoError(t, repo.Create(ctx, plan))

	plan.Title = "Final"
	plan.EndDate = nil
	plan.MarkCompleted(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Update(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", fetched.Title)
	assert.Nil(t, fetched.EndDate)
	assert.True(t, fetched.IsCompleted())

	missing := testutil.NewTestPlan("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrNotFound)
}

func TestPlanRepo_SaveRuleReplacesAndClears(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Stretch", testutil.WithRule(domain.NewDailyRule(domain.Date(2024, 1, 1), 1)))
	require.NoError(t, repo.Create(ctx, plan))

	next := domain.NewMonthlyRule(domain.Date(2024, 2, 1), 1, []time.Weekday{time.Monday}, nil)
	require.NoError(t, repo.SaveRule(ctx, plan.ID, next))
	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, next, fetched.Rule)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM recurrence_rules WHERE plan_id = ?`, plan.ID).Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, repo.SaveRule(ctx, plan.ID, nil))
	fetched, err = repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Rule)
}

func TestPlanRepo_CorruptRuleRowFailsLoad(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Broken", testutil.WithRule(
		domain.NewWeeklyRule(domain.Date(2024, 1, 1), 1, []time.Weekday{time.Monday})))
	require.NoError(t, repo.Create(ctx, plan))

	_, err := db.Exec(`UPDATE recurrence_rules SET days_of_week = '' WHERE plan_id = ?`, plan.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidRuleParameter)
}

func TestPlanRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Temp", testutil.WithRule(domain.NewDailyRule(domain.Date(2024, 1, 1), 1)))
	require.NoError(t, repo.Create(ctx, plan))
	require.NoError(t, repo.Delete(ctx, plan.ID))

	_, err := repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, plan.ID), domain.ErrNotFound)
}
