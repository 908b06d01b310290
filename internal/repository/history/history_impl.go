package history

import (
	"context"
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/model"
	"github.com/Taichi-iskw/yt-finder/internal/repository/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// historyRepository implements Repository using PostgreSQL
type historyRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &historyRepository{
		pool: pool,
	}
}

// IsSeen reports whether a video id was kept by a previous run
func (r *historyRepository) IsSeen(ctx context.Context, videoID string) (bool, error) {
	sql := "SELECT EXISTS(SELECT 1 FROM seen_videos WHERE video_id = $1)"
	row := r.pool.QueryRow(ctx, sql, videoID)

	var seen bool
	if err := row.Scan(&seen); err != nil {
		return false, common.HandlePgError(err, "failed to check seen history")
	}
	return seen, nil
}

// BulkInsert records video ids first seen on asOf, skipping ids already
// present so their original first-seen date survives
func (r *historyRepository) BulkInsert(ctx context.Context, videoIDs []string, asOf time.Time) (int, error) {
	if len(videoIDs) == 0 {
		return 0, nil
	}

	// Find ids already in the ledger; their dates are immutable
	sql := "SELECT video_id FROM seen_videos WHERE video_id = ANY($1)"
	rows, err := r.pool.Query(ctx, sql, videoIDs)
	if err != nil {
		return 0, common.HandlePgError(err, "failed to get existing seen ids")
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, common.HandlePgError(err, "failed to scan seen id")
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return 0, common.HandlePgError(err, "failed to iterate seen ids")
	}

	date := asOf.Format("2006-01-02")
	newRows := make([][]any, 0, len(videoIDs))
	added := make(map[string]bool, len(videoIDs))
	for _, id := range videoIDs {
		if existing[id] || added[id] {
			continue
		}
		added[id] = true
		newRows = append(newRows, []any{id, date})
	}

	if len(newRows) == 0 {
		return 0, nil
	}

	// COPY FROM for the new ids only
	_, err = r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"seen_videos"},
		[]string{"video_id", "first_seen_date"},
		pgx.CopyFromRows(newRows),
	)
	if err != nil {
		return 0, common.HandlePgError(err, "failed to insert seen ids using COPY FROM")
	}

	return len(newRows), nil
}

// PruneOlderThan removes entries first seen more than days ago
func (r *historyRepository) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	sql := "DELETE FROM seen_videos WHERE first_seen_date < $1"
	tag, err := r.pool.Exec(ctx, sql, cutoff)
	if err != nil {
		return 0, common.HandlePgError(err, "failed to prune seen history")
	}
	return tag.RowsAffected(), nil
}

// Clear deletes the entire ledger
func (r *historyRepository) Clear(ctx context.Context) error {
	sql := "DELETE FROM seen_videos"
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return common.HandlePgError(err, "failed to clear seen history")
	}
	return nil
}

// Stats summarizes the ledger contents
func (r *historyRepository) Stats(ctx context.Context) (*model.HistoryStats, error) {
	sql := "SELECT COUNT(*), COALESCE(MIN(first_seen_date)::text, ''), COALESCE(MAX(first_seen_date)::text, '') FROM seen_videos"
	row := r.pool.QueryRow(ctx, sql)

	var stats model.HistoryStats
	if err := row.Scan(&stats.TotalVideos, &stats.OldestDate, &stats.NewestDate); err != nil {
		return nil, common.HandlePgError(err, "failed to get history stats")
	}
	return &stats, nil
}
