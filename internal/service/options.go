package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

const (
	DefaultMaxWindowDays = 1096
	DefaultAgendaWorkers = 4
)

// Options tunes the services. Zero fields take defaults.
type Options struct {
	// MaxWindowDays caps the length of occurrence and agenda queries.
	MaxWindowDays int
	AgendaWorkers int
	// Clock supplies "now"; tests pin it.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxWindowDays <= 0 {
		o.MaxWindowDays = DefaultMaxWindowDays
	}
	if o.AgendaWorkers <= 0 {
		o.AgendaWorkers = DefaultAgendaWorkers
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// now returns the clock time in UTC at storage precision.
func (o Options) now() time.Time {
	return o.Clock().UTC().Truncate(time.Second)
}

// checkWindow rejects query windows longer than MaxWindowDays. Inverted
// windows pass; they simply match nothing.
func (o Options) checkWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: query window needs both a start and an end", domain.ErrInvalidDateRange)
	}
	if days := domain.DaysBetween(start, end) + 1; days > o.MaxWindowDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", domain.ErrWindowTooLarge, days, o.MaxWindowDays)
	}
	return nil
}
