package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dkotenko/newsdeck/app/cfg"
)

// Scheduler triggers ingestion runs on a fixed interval in server mode.
// Runs execute inline in the scheduling goroutine, so a run can never
// overlap the previous one.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func NewScheduler(orchestrator *Orchestrator) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		orchestrator: orchestrator,
		interval:     time.Duration(cfg.Get().SchedulerInterval) * time.Second,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		slog.Info("Background ingestion disabled (scheduler interval is 0)")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.run()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) run() {
	report := s.orchestrator.Run(s.ctx)

	for source, result := range report.Results {
		slog.Info("Source ingested",
			"source", source,
			"fetched", result.Fetched,
			"saved", result.Saved,
			"duplicates", result.Duplicates,
			"skipped", result.Skipped)
	}
	for source, message := range report.Errors {
		slog.Error("Source ingestion error", "source", source, "error", message)
	}
}
