package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type categoryService struct {
	categories repository.CategoryRepo
	uow        db.UnitOfWork
	opts       Options
	observer   UseCaseObserver
}

func NewCategoryService(categories repository.CategoryRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) CategoryService {
	return &categoryService{
		categories: categories,
		uow:        uow,
		opts:       opts.withDefaults(),
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Create adds a category. Names are unique across live and deleted
// categories; a deleted one must be restored instead.
func (s *categoryService) Create(ctx context.Context, name string) (c *domain.Category, err error) {
	name = strings.TrimSpace(name)
	defer observe(ctx, s.observer, "create-category", time.Now(), map[string]any{"category": name}, &err)

	if err = domain.ValidateLabel("category", name); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCategoryRepo(tx)
		existing, err := repo.GetByName(ctx, name)
		switch {
		case err == nil:
			if existing.IsDeleted() {
				return fmt.Errorf("%w: category %q is deleted, restore it instead", domain.ErrAlreadyExists, name)
			}
			return fmt.Errorf("%w: category %q", domain.ErrAlreadyExists, name)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		now := s.opts.now()
		c = &domain.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context, includeDeleted bool) ([]*domain.Category, error) {
	return s.categories.List(ctx, includeDeleted)
}

// Delete soft-deletes the category. Its plans keep the reference.
func (s *categoryService) Delete(ctx context.Context, name string) (err error) {
	defer observe(ctx, s.observer, "delete-category", time.Now(), map[string]any{"category": name}, &err)

	c, err := s.categories.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if c.IsDeleted() {
		return nil
	}
	return s.categories.SoftDelete(ctx, c.ID, s.opts.now())
}

func (s *categoryService) Restore(ctx context.Context, name string) (err error) {
	defer observe(ctx, s.observer, "restore-category", time.Now(), map[string]any{"category": name}, &err)

	c, err := s.categories.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if !c.IsDeleted() {
		return nil
	}
	return s.categories.Restore(ctx, c.ID, s.opts.now())
}
