package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type agendaService struct {
	plans    repository.PlanRepo
	opts     Options
	observer UseCaseObserver
}

func NewAgendaService(plans repository.PlanRepo, opts Options, observers ...UseCaseObserver) AgendaService {
	return &agendaService{
		plans:    plans,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *agendaService) Agenda(ctx context.Context, start, end time.Time) (entries []scheduler.AgendaEntry, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "agenda", time.Now(), fields, &err)

	if err = s.opts.checkWindow(start, end); err != nil {
		return nil, err
	}
	start, end = domain.DateOf(start), domain.DateOf(end)
	if start.After(end) {
		return []scheduler.AgendaEntry{}, nil
	}

	plans, err := s.plans.List(ctx, repository.PlanFilter{
		OpenOnly:   true,
		ActiveFrom: &start,
		ActiveTo:   &end,
	})
	if err != nil {
		return nil, err
	}
	fields["plans"] = len(plans)

	entries, err = scheduler.Agenda(ctx, plans, start, end, s.opts.AgendaWorkers)
	if err != nil {
		return nil, err
	}
	fields["entries"] = len(entries)
	return entries, nil
}
