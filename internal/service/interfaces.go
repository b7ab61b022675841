package service

import (
	"context"
	"time"

	"github.com/samber/mo"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// CreatePlanInput describes a new plan. Category is a category name.
// A nil Rule creates a plan without recurrence.
type CreatePlanInput struct {
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Category    string
	Rule        *domain.RuleParams
}

// PlanUpdate lists the fields to change. Absent options are left alone;
// Some(nil) clears a date and Some("") clears the category.
type PlanUpdate struct {
	Title       mo.Option[string]
	Description mo.Option[string]
	StartDate   mo.Option[*time.Time]
	EndDate     mo.Option[*time.Time]
	Category    mo.Option[string]
}

type PlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	// GetByID accepts a full ID or a unique prefix of one.
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, f repository.PlanFilter) ([]*domain.Plan, error)
	ListSomeday(ctx context.Context) ([]*domain.Plan, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Plan, error)
	Update(ctx context.Context, id string, u PlanUpdate) (*domain.Plan, error)
	Delete(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) (*domain.Plan, error)
	MarkIncomplete(ctx context.Context, id string) (*domain.Plan, error)
	// SetRecurrenceRule builds a rule from params and replaces the plan's
	// rule. A zero params.Anchor defaults to the plan's start date, or today.
	SetRecurrenceRule(ctx context.Context, id string, params domain.RuleParams) (*domain.Plan, error)
	RemoveRecurrenceRule(ctx context.Context, id string) (*domain.Plan, error)
	IsActive(ctx context.Context, id string, date time.Time) (bool, error)
	Occurrences(ctx context.Context, id string, start, end time.Time) ([]time.Time, error)
}

type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Category, error)
	Delete(ctx context.Context, name string) error
	Restore(ctx context.Context, name string) error
}

type TagService interface {
	// AddToPlan tags a plan, creating the tag on first use.
	AddToPlan(ctx context.Context, planID, name string) (*domain.Tag, error)
	RemoveFromPlan(ctx context.Context, planID, name string) error
	ListForPlan(ctx context.Context, planID string) ([]*domain.Tag, error)
	ListPlans(ctx context.Context, name string) ([]*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Tag, error)
}

type AgendaService interface {
	// Agenda returns every scheduled (date, plan) pair in [start, end].
	Agenda(ctx context.Context, start, end time.Time) ([]scheduler.AgendaEntry, error)
}
