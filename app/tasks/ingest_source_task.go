package tasks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkotenko/newsdeck/app/database"
	"github.com/dkotenko/newsdeck/app/news"
)

// SourceResult aggregates per-source ingestion counters.
type SourceResult struct {
	Fetched    int
	Saved      int
	Duplicates int
	Skipped    int
}

// IngestSourceTask runs the fetch → normalize → dedupe → persist
// pipeline for one configured source. A fetch failure aborts the task;
// record-level failures are counted and the loop continues.
type IngestSourceTask struct {
	Task
	SourceConfig news.Config
	client       *news.Client
	normalizer   *news.Normalizer
	articleRepo  database.ArticleRepository
}

func NewIngestSourceTask(src news.Config, client *news.Client, normalizer *news.Normalizer,
	articleRepo database.ArticleRepository) *IngestSourceTask {
	return &IngestSourceTask{
		Task:         NewTask(TaskTypeIngestSource, src.Name),
		SourceConfig: src,
		client:       client,
		normalizer:   normalizer,
		articleRepo:  articleRepo,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) (SourceResult, error) {
	var result SourceResult

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	records, err := t.client.Fetch(ctx, t.SourceConfig)
	if err != nil {
		return result, err
	}
	result.Fetched = len(records)

	for _, record := range records {
		draft, err := t.normalizer.Run(record, t.SourceConfig)
		if err != nil {
			var validationErr *news.ValidationError
			if errors.As(err, &validationErr) {
				slog.Debug("Record rejected", "source", t.Source, "reason", validationErr.Reason)
			} else {
				slog.Warn("Record normalization failed", "source", t.Source, "error", err)
			}
			result.Skipped++
			continue
		}

		if draft.SourceURL != nil {
			isDuplicate, err := t.articleRepo.CheckDuplicate(*draft.SourceURL)
			if err != nil {
				slog.Error("Duplicate check failed", "source", t.Source, "title", draft.Title, "error", err)
				result.Skipped++
				continue
			}
			if isDuplicate {
				slog.Info("Duplicate article found", "source", t.Source, "title", draft.Title)
				result.Duplicates++
				continue
			}
		}

		_, inserted, err := t.articleRepo.InsertArticle(draft)
		if err != nil {
			slog.Error("Failed to save article", "source", t.Source, "title", draft.Title, "error", err)
			result.Skipped++
			continue
		}
		if !inserted {
			// Lost the race to a concurrent run; the unique index on
			// source_url is authoritative.
			slog.Info("Duplicate article found", "source", t.Source, "title", draft.Title)
			result.Duplicates++
			continue
		}
		result.Saved++
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"source", t.Source,
		"duration", t.GetDuration(),
		"fetched", result.Fetched,
		"saved", result.Saved,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped)

	return result, nil
}
