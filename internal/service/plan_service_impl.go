package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/recurrence"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type planService struct {
	plans      repository.PlanRepo
	categories repository.CategoryRepo
	uow        db.UnitOfWork
	opts       Options
	observer   UseCaseObserver
}

func NewPlanService(
	plans repository.PlanRepo,
	categories repository.CategoryRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:      plans,
		categories: categories,
		uow:        uow,
		opts:       opts.withDefaults(),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Create(ctx context.Context, in CreatePlanInput) (plan *domain.Plan, err error) {
	fields := map[string]any{"has_rule": in.Rule != nil}
	defer observe(ctx, s.observer, "create-plan", time.Now(), fields, &err)

	now := s.opts.now()
	plan, err = domain.NewPlan(uuid.New().String(), in.Title, in.Description, in.StartDate, in.EndDate, now)
	if err != nil {
		return nil, err
	}
	if in.Rule != nil {
		if err = s.attachRule(plan, *in.Rule, now); err != nil {
			return nil, err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if in.Category != "" {
			id, err := resolveCategory(ctx, repository.NewSQLiteCategoryRepo(tx), in.Category)
			if err != nil {
				return err
			}
			plan.CategoryID = &id
		}
		return repository.NewSQLitePlanRepo(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	fields["plan_id"] = plan.ID
	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return getPlan(ctx, s.plans, id)
}

func (s *planService) List(ctx context.Context, f repository.PlanFilter) ([]*domain.Plan, error) {
	return s.plans.List(ctx, f)
}

func (s *planService) ListSomeday(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx, repository.PlanFilter{SomedayOnly: true})
}

func (s *planService) ListByCategory(ctx context.Context, category string) ([]*domain.Plan, error) {
	c, err := s.categories.GetByName(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.plans.List(ctx, repository.PlanFilter{CategoryID: c.ID})
}

func (s *planService) Update(ctx context.Context, id string, u PlanUpdate) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan": id}
	defer observe(ctx, s.observer, "update-plan", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		p, err := getPlan(ctx, plans, id)
		if err != nil {
			return err
		}

		title := strings.TrimSpace(u.Title.OrElse(p.Title))
		description := u.Description.OrElse(p.Description)
		start := u.StartDate.OrElse(p.StartDate)
		end := u.EndDate.OrElse(p.EndDate)
		if err := p.UpdateDetails(title, description, start, end, s.opts.now()); err != nil {
			return err
		}

		if name, ok := u.Category.Get(); ok {
			p.CategoryID = nil
			if name != "" {
				cid, err := resolveCategory(ctx, repository.NewSQLiteCategoryRepo(tx), name)
				if err != nil {
					return err
				}
				p.CategoryID = &cid
			}
		}

		plan = p
		return plans.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-plan", time.Now(), map[string]any{"plan": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		p, err := getPlan(ctx, plans, id)
		if err != nil {
			return err
		}
		return plans.Delete(ctx, p.ID)
	})
}

func (s *planService) MarkCompleted(ctx context.Context, id string) (*domain.Plan, error) {
	return s.mutate(ctx, "complete-plan", id, func(p *domain.Plan, now time.Time) error {
		p.MarkCompleted(now)
		return nil
	})
}

func (s *planService) MarkIncomplete(ctx context.Context, id string) (*domain.Plan, error) {
	return s.mutate(ctx, "reopen-plan", id, func(p *domain.Plan, now time.Time) error {
		p.MarkIncomplete(now)
		return nil
	})
}

func (s *planService) SetRecurrenceRule(ctx context.Context, id string, params domain.RuleParams) (*domain.Plan, error) {
	return s.mutate(ctx, "set-recurrence-rule", id, func(p *domain.Plan, now time.Time) error {
		return s.attachRule(p, params, now)
	})
}

func (s *planService) RemoveRecurrenceRule(ctx context.Context, id string) (*domain.Plan, error) {
	return s.mutate(ctx, "remove-recurrence-rule", id, func(p *domain.Plan, now time.Time) error {
		p.DetachRule(now)
		return nil
	})
}

func (s *planService) IsActive(ctx context.Context, id string, date time.Time) (bool, error) {
	p, err := getPlan(ctx, s.plans, id)
	if err != nil {
		return false, err
	}
	return scheduler.IsActive(p, date), nil
}

func (s *planService) Occurrences(ctx context.Context, id string, start, end time.Time) (dates []time.Time, err error) {
	fields := map[string]any{"plan": id}
	defer observe(ctx, s.observer, "list-occurrences", time.Now(), fields, &err)

	if err = s.opts.checkWindow(start, end); err != nil {
		return nil, err
	}
	p, err := getPlan(ctx, s.plans, id)
	if err != nil {
		return nil, err
	}
	dates, err = scheduler.OccurrencesWithin(p, start, end)
	if err != nil {
		return nil, err
	}
	fields["count"] = len(dates)
	return dates, nil
}

// mutate loads, changes and saves a plan in one transaction. The rule row is
// rewritten only when the rule changed.
func (s *planService) mutate(ctx context.Context, name, id string, fn func(p *domain.Plan, now time.Time) error) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, name, time.Now(), map[string]any{"plan": id}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		p, err := getPlan(ctx, plans, id)
		if err != nil {
			return err
		}
		before := p.Rule
		if err := fn(p, s.opts.now()); err != nil {
			return err
		}
		if err := plans.Update(ctx, p); err != nil {
			return err
		}
		if !sameRule(before, p.Rule) {
			if err := plans.SaveRule(ctx, p.ID, p.Rule); err != nil {
				return err
			}
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// attachRule builds the rule, defaulting the anchor to the plan's start date
// and then to today, and attaches it.
func (s *planService) attachRule(p *domain.Plan, params domain.RuleParams, now time.Time) error {
	if p.IsSomeday() {
		return domain.ErrSomedayRecurrence
	}
	if params.Anchor.IsZero() {
		if p.StartDate != nil {
			params.Anchor = *p.StartDate
		} else {
			params.Anchor = domain.DateOf(now)
		}
	}
	rule, err := recurrence.Build(params)
	if err != nil {
		return err
	}
	return p.AttachRule(rule, now)
}

func sameRule(a, b domain.RecurrenceRule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	pa, pb := domain.ParamsOf(a), domain.ParamsOf(b)
	return pa.Kind == pb.Kind && pa.Interval == pb.Interval && pa.Anchor.Equal(pb.Anchor) &&
		slices.Equal(pa.DaysOfWeek, pb.DaysOfWeek) && slices.Equal(pa.DaysOfMonth, pb.DaysOfMonth) &&
		slices.Equal(pa.MonthsOfYear, pb.MonthsOfYear)
}

// getPlan resolves a full ID first and falls back to a unique prefix.
func getPlan(ctx context.Context, plans repository.PlanRepo, id string) (*domain.Plan, error) {
	p, err := plans.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return plans.GetByIDPrefix(ctx, id)
	}
	return p, err
}

// resolveCategory maps a live category name to its ID.
func resolveCategory(ctx context.Context, categories repository.CategoryRepo, name string) (string, error) {
	c, err := categories.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if c.IsDeleted() {
		return "", fmt.Errorf("category %q is deleted: %w", name, domain.ErrNotFound)
	}
	return c.ID, nil
}
