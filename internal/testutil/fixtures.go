package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithDates(start, end time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = domain.DatePtr(start)
		p.EndDate = domain.DatePtr(end)
	}
}

func WithStartDate(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = domain.DatePtr(d)
	}
}

func WithEndDate(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.EndDate = domain.DatePtr(d)
	}
}

// WithSomeday clears both dates.
func WithSomeday() PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = nil
		p.EndDate = nil
	}
}

func WithRule(r domain.RecurrenceRule) PlanOption {
	return func(p *domain.Plan) {
		p.Rule = r
	}
}

func WithCategory(id string) PlanOption {
	return func(p *domain.Plan) {
		p.CategoryID = &id
	}
}

func WithDescription(s string) PlanOption {
	return func(p *domain.Plan) {
		p.Description = s
	}
}

func WithCompleted(at time.Time) PlanOption {
	return func(p *domain.Plan) {
		at = at.UTC().Truncate(time.Second)
		p.CompletedAt = &at
	}
}

// NewTestPlan returns a plan running for the whole of 2024 with no rule.
// Timestamps are truncated to seconds to survive an RFC 3339 round trip.
func NewTestPlan(title string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Title:     title,
		StartDate: domain.DatePtr(domain.Date(2024, 1, 1)),
		EndDate:   domain.DatePtr(domain.Date(2024, 12, 31)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestCategory(name string) *domain.Category {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestTag(name string) *domain.Tag {
	return &domain.Tag{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
