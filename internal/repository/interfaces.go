package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// PlanFilter narrows PlanRepo.List. Zero values do not filter.
type PlanFilter struct {
	CategoryID  string
	TagName     string
	SomedayOnly bool
	// OpenOnly drops completed plans.
	OpenOnly bool
	// ActiveFrom and ActiveTo keep scheduled plans whose own window overlaps
	// [ActiveFrom, ActiveTo]. Someday plans never overlap.
	ActiveFrom *time.Time
	ActiveTo   *time.Time
}

// PlanRepo persists plans together with their recurrence rule. Plans are
// always returned with the rule loaded.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	// GetByIDPrefix resolves a unique ID prefix such as a DisplayID.
	GetByIDPrefix(ctx context.Context, prefix string) (*domain.Plan, error)
	List(ctx context.Context, f PlanFilter) ([]*domain.Plan, error)
	// Update writes the plan's own fields; the rule is saved separately.
	Update(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
	// SaveRule replaces the plan's rule row, or removes it for a nil rule.
	SaveRule(ctx context.Context, planID string, rule domain.RecurrenceRule) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Category, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string, at time.Time) error
}

type TagRepo interface {
	Create(ctx context.Context, t *domain.Tag) error
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
	AttachToPlan(ctx context.Context, planID, tagID string) error
	DetachFromPlan(ctx context.Context, planID, tagID string) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.Tag, error)
}
