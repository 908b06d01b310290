// Package runner drives the search pipeline: for each keyword it pages
// through the remote search client, pushes every candidate through the
// filter chain and dedup ledger, accumulates survivors and stops early
// on quota exhaustion or cancellation.
package runner

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/config"
	"github.com/Taichi-iskw/yt-finder/internal/duration"
	apperrors "github.com/Taichi-iskw/yt-finder/internal/errors"
	"github.com/Taichi-iskw/yt-finder/internal/filter"
	"github.com/Taichi-iskw/yt-finder/internal/model"
	"github.com/Taichi-iskw/yt-finder/internal/quota"
	"github.com/Taichi-iskw/yt-finder/internal/repository/history"
	"github.com/Taichi-iskw/yt-finder/internal/repository/runlog"
	"github.com/Taichi-iskw/yt-finder/internal/service/search"
)

// SearchClient is the remote search boundary the runner drives
type SearchClient interface {
	Search(ctx context.Context, p search.Params) []*model.VideoRecord
	QuotaUsed() int
}

// ResultsWriter persists the accumulated result set
type ResultsWriter interface {
	Save(records []*model.VideoRecord, asOf time.Time) (string, error)
}

// EventType identifies a progress notification
type EventType string

// Progress event types
const (
	EventKeywordStarted  EventType = "keyword_started"
	EventKeywordFinished EventType = "keyword_finished"
	EventQuotaWarning    EventType = "quota_warning"
)

// Event is one progress notification surfaced during a run
type Event struct {
	Type      EventType
	Keyword   string
	Index     int // 1-based keyword position
	Total     int
	QuotaUsed int
	Stats     model.SearchStats
	Message   string
}

// Result is the outcome of one run
type Result struct {
	Records    []*model.VideoRecord
	Stats      model.SearchStats
	QuotaUsed  int
	Stopped    bool // ended early on quota warning or cancellation
	OutputPath string
}

// Runner orchestrates search runs. One run at a time; a second Run while
// one is active is rejected because the quota meter and ledger are not
// safe for concurrent mutation.
type Runner struct {
	client   SearchClient
	history  history.Repository
	runLogs  runlog.Repository
	writer   ResultsWriter
	logger   *slog.Logger
	progress func(Event)
	running  atomic.Bool
	now      func() time.Time
}

// NewRunner creates a runner. history, runLogs and writer may each be nil;
// the corresponding step then degrades to a no-op.
func NewRunner(client SearchClient, historyRepo history.Repository, runLogs runlog.Repository, writer ResultsWriter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		client:  client,
		history: historyRepo,
		runLogs: runLogs,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}
}

// OnProgress registers a callback invoked synchronously for progress
// events. Callers that want asynchronous delivery bridge it to their own
// channel.
func (r *Runner) OnProgress(fn func(Event)) {
	r.progress = fn
}

// Run executes one search run. Cancellation is cooperative: the context
// is polled between keywords and between candidates, and partial results
// accumulated before the stop are still saved.
func (r *Runner) Run(ctx context.Context, settings *config.Settings) (*Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, apperrors.New(apperrors.CodeConflict, "a search run is already active")
	}
	defer r.running.Store(false)

	keywords := settings.CleanKeywords()
	if len(keywords) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "no keywords to search")
	}

	startedAt := r.now()
	result := &Result{}

	if settings.FreshSearch {
		r.clearHistory(ctx)
	}
	r.pruneHistory(ctx, settings.HistoryKeepDays)

	chain := filter.NewChain(r.seenFunc(ctx))
	warnLimit := quota.WarningThreshold(settings.APIQuotaCap)

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			result.Stopped = true
			break
		}

		r.emit(Event{
			Type: EventKeywordStarted, Keyword: keyword,
			Index: i + 1, Total: len(keywords),
			QuotaUsed: result.QuotaUsed, Stats: result.Stats,
		})

		records := r.client.Search(ctx, search.Params{
			Query:            keyword,
			MaxPages:         settings.PagesPerKeyword,
			Region:           settings.Region,
			Language:         settings.Language,
			DurationCategory: settings.Duration.APICategory(),
			QuotaLimit:       settings.APIQuotaCap - result.QuotaUsed,
			PublishedAfter:   settings.PublishedAfter(),
			PublishedBefore:  settings.PublishedBefore(),
		})
		result.QuotaUsed += r.client.QuotaUsed()

		if warnLimit > 0 && result.QuotaUsed >= warnLimit {
			r.logger.Warn("quota warning threshold reached, stopping run",
				"used", result.QuotaUsed, "cap", settings.APIQuotaCap)
			r.emit(Event{
				Type: EventQuotaWarning, Keyword: keyword,
				Index: i + 1, Total: len(keywords),
				QuotaUsed: result.QuotaUsed, Stats: result.Stats,
				Message: "reached 90% of the daily quota cap",
			})
			result.Stopped = true
			break
		}

		for _, rec := range records {
			if ctx.Err() != nil {
				result.Stopped = true
				break
			}

			result.Stats.Scanned++
			pass, rejectedBy := chain.Evaluate(rec, settings)
			if !pass {
				result.Stats.Skipped++
				r.logger.Debug("candidate rejected",
					"video_id", rec.VideoID, "filter", rejectedBy)
				continue
			}

			rec.Keyword = keyword
			rec.DurationMinutes = duration.Minutes(rec.Duration)
			result.Records = append(result.Records, rec)
			result.Stats.Kept++
		}

		r.emit(Event{
			Type: EventKeywordFinished, Keyword: keyword,
			Index: i + 1, Total: len(keywords),
			QuotaUsed: result.QuotaUsed, Stats: result.Stats,
		})

		if result.QuotaUsed >= settings.APIQuotaCap {
			r.logger.Warn("daily quota cap reached, stopping run",
				"used", result.QuotaUsed, "cap", settings.APIQuotaCap)
			result.Stopped = true
			break
		}
	}

	if len(result.Records) == 0 {
		r.logger.Info("no results matched the criteria", "stats", result.Stats)
		return result, nil
	}

	if r.writer != nil {
		path, err := r.writer.Save(result.Records, r.now())
		if err != nil {
			return result, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save results")
		}
		result.OutputPath = path
	}

	r.recordKeptIDs(ctx, result.Records)
	r.appendRunLog(ctx, startedAt, len(keywords), result)

	return result, nil
}

// seenFunc adapts the ledger to the filter chain's membership test.
// Ledger failures degrade to "not seen" so a broken store never rejects
// candidates or aborts the run.
func (r *Runner) seenFunc(ctx context.Context) filter.SeenFunc {
	if r.history == nil {
		return nil
	}
	return func(videoID string) bool {
		seen, err := r.history.IsSeen(ctx, videoID)
		if err != nil {
			r.logger.Warn("failed to check seen history", "video_id", videoID, "error", err)
			return false
		}
		return seen
	}
}

func (r *Runner) clearHistory(ctx context.Context) {
	if r.history == nil {
		return
	}
	if err := r.history.Clear(ctx); err != nil {
		r.logger.Warn("failed to clear seen history", "error", err)
		return
	}
	r.logger.Info("history cleared for fresh search")
}

func (r *Runner) pruneHistory(ctx context.Context, days int) {
	if r.history == nil || days <= 0 {
		return
	}
	removed, err := r.history.PruneOlderThan(ctx, days)
	if err != nil {
		r.logger.Warn("failed to prune seen history", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Info("pruned old history entries", "removed", removed, "days", days)
	}
}

func (r *Runner) recordKeptIDs(ctx context.Context, records []*model.VideoRecord) {
	if r.history == nil {
		return
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.VideoID
	}
	added, err := r.history.BulkInsert(ctx, ids, r.now())
	if err != nil {
		r.logger.Warn("failed to update seen history", "error", err)
		return
	}
	r.logger.Info("updated seen history", "new_ids", added)
}

func (r *Runner) appendRunLog(ctx context.Context, startedAt time.Time, keywordCount int, result *Result) {
	if r.runLogs == nil {
		return
	}
	err := r.runLogs.Append(ctx, &model.RunLog{
		RunTimestamp:  startedAt.UTC().Format(time.RFC3339),
		QuotaUsed:     result.QuotaUsed,
		KeywordsCount: keywordCount,
		ResultsCount:  len(result.Records),
	})
	if err != nil {
		r.logger.Warn("failed to append run log", "error", err)
	}
}

func (r *Runner) emit(e Event) {
	if r.progress != nil {
		r.progress(e)
	}
}
