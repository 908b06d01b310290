package runlog

import (
	"context"

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
	Close()
}

// runLogRepository implements Repository using PostgreSQL
type runLogRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &runLogRepository{
		pool: pool,
	}
}

// Append records one completed run
func (r *runLogRepository) Append(ctx context.Context, log *model.RunLog) error {
	sql := "INSERT INTO run_logs (run_timestamp, quota_used, keywords_count, results_count) VALUES ($1, $2, $3, $4)"
	_, err := r.pool.Exec(ctx, sql, log.RunTimestamp, log.QuotaUsed, log.KeywordsCount, log.ResultsCount)
	if err != nil {
		return common.HandlePgError(err, "failed to append run log")
	}
	return nil
}

// List retrieves the most recent runs, newest first
func (r *runLogRepository) List(ctx context.Context, limit int) ([]*model.RunLog, error) {
	sql := "SELECT run_timestamp::text, quota_used, keywords_count, results_count FROM run_logs ORDER BY run_timestamp DESC LIMIT $1"
	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, common.HandlePgError(err, "failed to list run logs")
	}
	defer rows.Close()

	logs := []*model.RunLog{}
	for rows.Next() {
		var log model.RunLog
		if err := rows.Scan(&log.RunTimestamp, &log.QuotaUsed, &log.KeywordsCount, &log.ResultsCount); err != nil {
			return nil, common.HandlePgError(err, "failed to scan run log row")
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePgError(err, "failed to iterate run log rows")
	}

	return logs, nil
}
