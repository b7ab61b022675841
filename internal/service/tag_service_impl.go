package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type tagService struct {
	tags     repository.TagRepo
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewTagService(tags repository.TagRepo, plans repository.PlanRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) TagService {
	return &tagService{
		tags:     tags,
		plans:    plans,
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *tagService) AddToPlan(ctx context.Context, planID, name string) (tag *domain.Tag, err error) {
	name = strings.TrimSpace(name)
	defer observe(ctx, s.observer, "tag-plan", time.Now(), map[string]any{"plan": planID, "tag": name}, &err)

	if err = domain.ValidateLabel("tag", name); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tags := repository.NewSQLiteTagRepo(tx)
		p, err := getPlan(ctx, repository.NewSQLitePlanRepo(tx), planID)
		if err != nil {
			return err
		}

		t, err := tags.GetByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			t = &domain.Tag{ID: uuid.New().String(), Name: name, CreatedAt: s.opts.now()}
			err = tags.Create(ctx, t)
		}
		if err != nil {
			return err
		}
		tag = t
		return tags.AttachToPlan(ctx, p.ID, t.ID)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// RemoveFromPlan unlinks the tag. The tag itself stays for reuse.
func (s *tagService) RemoveFromPlan(ctx context.Context, planID, name string) (err error) {
	name = strings.TrimSpace(name)
	defer observe(ctx, s.observer, "untag-plan", time.Now(), map[string]any{"plan": planID, "tag": name}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tags := repository.NewSQLiteTagRepo(tx)
		p, err := getPlan(ctx, repository.NewSQLitePlanRepo(tx), planID)
		if err != nil {
			return err
		}
		t, err := tags.GetByName(ctx, name)
		if err != nil {
			return err
		}
		return tags.DetachFromPlan(ctx, p.ID, t.ID)
	})
}

func (s *tagService) ListForPlan(ctx context.Context, planID string) ([]*domain.Tag, error) {
	p, err := getPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}
	return s.tags.ListByPlan(ctx, p.ID)
}

func (s *tagService) ListPlans(ctx context.Context, name string) ([]*domain.Plan, error) {
	name = strings.TrimSpace(name)
	if _, err := s.tags.GetByName(ctx, name); err != nil {
		return nil, err
	}
	return s.plans.List(ctx, repository.PlanFilter{TagName: name})
}

func (s *tagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.tags.List(ctx)
}
