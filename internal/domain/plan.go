package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// Plan is a scheduled activity. It owns at most one RecurrenceRule; there is
// no back-reference from the rule, and tag membership lives in storage.
type Plan struct {
	ID          string
	Title       string
	Description string
	CategoryID  *string
	StartDate   *time.Time
	EndDate     *time.Time
	Rule        RecurrenceRule
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlan builds a validated plan without a rule. Dates are truncated to
// calendar dates; nil dates are open bounds and two nil dates make a
// someday plan.
func NewPlan(id, title, description string, start, end *time.Time, now time.Time) (*Plan, error) {
	p := &Plan{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Description: description,
		StartDate:   normalizeDatePtr(start),
		EndDate:     normalizeDatePtr(end),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateDateRange checks the optional plan window. Either bound may be
// absent; when both are present start must not be after end.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && DateOf(*start).After(DateOf(*end)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			start.Format(DateLayout), end.Format(DateLayout))
	}
	return nil
}

// Validate checks every invariant of the aggregate.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: plan title is required", ErrInvalidName)
	}
	if len(p.Title) > MaxTitleLen {
		return fmt.Errorf("%w: plan title exceeds %d characters", ErrInvalidName, MaxTitleLen)
	}
	if len(p.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: plan description exceeds %d characters", ErrInvalidName, MaxDescriptionLen)
	}
	if err := ValidateDateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	if p.Rule != nil && p.IsSomeday() {
		return ErrSomedayRecurrence
	}
	return nil
}

// UpdateDetails replaces the editable fields. The attached rule (and its
// anchor) is untouched, so a plan with a rule cannot become a someday plan.
func (p *Plan) UpdateDetails(title, description string, start, end *time.Time, now time.Time) error {
	next := *p
	next.Title = title
	next.Description = description
	next.StartDate = normalizeDatePtr(start)
	next.EndDate = normalizeDatePtr(end)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*p = next
	return nil
}

// IsSomeday reports whether the plan has no dates at all.
func (p *Plan) IsSomeday() bool {
	return p.StartDate == nil && p.EndDate == nil
}

func (p *Plan) HasRecurrenceRule() bool {
	return p.Rule != nil
}

// AttachRule sets or replaces the plan's rule.
func (p *Plan) AttachRule(rule RecurrenceRule, now time.Time) error {
	if rule == nil || !IsValidRule(rule) {
		return fmt.Errorf("%w: rule is missing or invalid", ErrInvalidRuleParameter)
	}
	if p.IsSomeday() {
		return ErrSomedayRecurrence
	}
	p.Rule = rule
	p.UpdatedAt = now
	return nil
}

// DetachRule drops the plan's rule, if any.
func (p *Plan) DetachRule(now time.Time) {
	if p.Rule == nil {
		return
	}
	p.Rule = nil
	p.UpdatedAt = now
}

// WithinBounds reports whether d falls inside the plan's own date window.
// Absent bounds are open.
func (p *Plan) WithinBounds(d time.Time) bool {
	d = DateOf(d)
	if p.StartDate != nil && d.Before(DateOf(*p.StartDate)) {
		return false
	}
	if p.EndDate != nil && d.After(DateOf(*p.EndDate)) {
		return false
	}
	return true
}

func (p *Plan) IsCompleted() bool {
	return p.CompletedAt != nil
}

func (p *Plan) Status() PlanStatus {
	if p.IsCompleted() {
		return PlanCompleted
	}
	return PlanOpen
}

// MarkCompleted is idempotent: an existing completion time is kept.
func (p *Plan) MarkCompleted(now time.Time) {
	if p.CompletedAt != nil {
		return
	}
	p.CompletedAt = &now
	p.UpdatedAt = now
}

func (p *Plan) MarkIncomplete(now time.Time) {
	if p.CompletedAt == nil {
		return
	}
	p.CompletedAt = nil
	p.UpdatedAt = now
}

// DisplayID returns the first 8 characters of the ID.
func (p *Plan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

func normalizeDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return DatePtr(*t)
}
