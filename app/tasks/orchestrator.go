package tasks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dkotenko/newsdeck/app/database"
	"github.com/dkotenko/newsdeck/app/news"
)

// Report is the outcome of one ingestion run across all sources.
type Report struct {
	Results map[string]SourceResult
	Errors  map[string]string
}

// Orchestrator drives one best-effort ingestion pass over all enabled
// sources. Sources run concurrently and are fully independent; a failed
// source never blocks the others. No retries within a run.
type Orchestrator struct {
	sources     []news.Config
	client      *news.Client
	normalizer  *news.Normalizer
	articleRepo database.ArticleRepository
}

func NewOrchestrator(sources []news.Config, client *news.Client,
	articleRepo database.ArticleRepository) *Orchestrator {
	return &Orchestrator{
		sources:     sources,
		client:      client,
		normalizer:  news.NewNormalizer(),
		articleRepo: articleRepo,
	}
}

func (o *Orchestrator) Run(ctx context.Context) Report {
	report := Report{
		Results: make(map[string]SourceResult),
		Errors:  make(map[string]string),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, src := range o.sources {
		if !src.Enabled {
			slog.Debug("Source disabled, skipping", "source", src.Name)
			continue
		}

		wg.Add(1)
		go func(src news.Config) {
			defer wg.Done()

			task := NewIngestSourceTask(src, o.client, o.normalizer, o.articleRepo)
			task.Start()

			result, err := task.Execute(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("Source ingestion failed", "source", src.Name, "error", err)
				report.Errors[src.Name] = err.Error()
				return
			}
			report.Results[src.Name] = result
		}(src)
	}

	wg.Wait()

	return report
}
