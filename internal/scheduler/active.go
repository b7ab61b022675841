package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// IsActive reports whether the plan is scheduled on date. A plan without a
// rule is active on every day within its bounds; a plan with a rule also
// needs the rule to fire. Someday plans are never active.
//
// IsActive never fails: a nil plan, a zero date or an invalid rule yield false.
func IsActive(p *domain.Plan, date time.Time) bool {
	if p == nil || date.IsZero() || p.IsSomeday() {
		return false
	}
	if !p.WithinBounds(date) {
		return false
	}
	if p.Rule == nil {
		return true
	}
	return domain.IsOccurrence(p.Rule, date)
}
