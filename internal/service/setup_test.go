package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db         *sql.DB
	uow        db.UnitOfWork
	plans      *repository.SQLitePlanRepo
	categories *repository.SQLiteCategoryRepo
	tags       *repository.SQLiteTagRepo
	opts       Options

	planSvc     PlanService
	categorySvc CategoryService
	tagSvc      TagService
	agendaSvc   AgendaService
}

func newTestEnv(t *testing.T, observers ...UseCaseObserver) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:         database,
		uow:        testutil.NewTestUoW(database),
		plans:      repository.NewSQLitePlanRepo(database),
		categories: repository.NewSQLiteCategoryRepo(database),
		tags:       repository.NewSQLiteTagRepo(database),
		opts:       Options{Clock: testutil.FixedClock(testNow)},
	}
	env.planSvc = NewPlanService(env.plans, env.categories, env.uow, env.opts, observers...)
	env.categorySvc = NewCategoryService(env.categories, env.uow, env.opts, observers...)
	env.tagSvc = NewTagService(env.tags, env.plans, env.uow, env.opts, observers...)
	env.agendaSvc = NewAgendaService(env.plans, env.opts, observers...)
	return env
}

func d(y int, m time.Month, day int) time.Time {
	return domain.Date(y, m, day)
}

func ptr(t time.Time) *time.Time {
	return &t
}
