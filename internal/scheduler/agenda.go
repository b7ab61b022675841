package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/cadence/internal/domain"
)

// AgendaEntry is one plan scheduled on one date.
type AgendaEntry struct {
	Date time.Time
	Plan *domain.Plan
}

// Agenda expands plans into dated entries within [start, end]. Completed and
// someday plans are skipped. Rule plans contribute their occurrences; plans
// without a rule contribute every day of their effective window.
//
// Plans are expanded concurrently, at most workers at a time (unbounded when
// workers <= 0). Entries are ordered by date, then title, then plan ID.
func Agenda(ctx context.Context, plans []*domain.Plan, start, end time.Time, workers int) ([]AgendaEntry, error) {
	results := make([][]AgendaEntry, len(plans))

	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, p := range plans {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			entries, err := expandPlan(p, start, end)
			if err != nil {
				return fmt.Errorf("expanding plan %s: %w", p.ID, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []AgendaEntry
	for _, entries := range results {
		all = append(all, entries...)
	}
	SortAgenda(all)
	return all, nil
}

// SortAgenda orders entries by date, then plan title, then plan ID.
func SortAgenda(entries []AgendaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Plan.Title != b.Plan.Title {
			return a.Plan.Title < b.Plan.Title
		}
		return a.Plan.ID < b.Plan.ID
	})
}

func expandPlan(p *domain.Plan, start, end time.Time) ([]AgendaEntry, error) {
	if p == nil || p.IsCompleted() || p.IsSomeday() {
		return nil, nil
	}

	var dates []time.Time
	if p.HasRecurrenceRule() {
		occ, err := OccurrencesWithin(p, start, end)
		if err != nil {
			return nil, err
		}
		dates = occ
	} else if w, ok := EffectiveWindow(p, start, end).Get(); ok {
		for d := w.Start; !d.After(w.End); d = domain.AddDays(d, 1) {
			dates = append(dates, d)
		}
	}

	entries := make([]AgendaEntry, len(dates))
	for i, d := range dates {
		entries[i] = AgendaEntry{Date: d, Plan: p}
	}
	return entries, nil
}
