// Package history persists the dedup ledger: every video id kept by a
// previous run, with the date it was first seen.
package history

import (
	"context"
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/model"
)

// Repository defines operations for the seen-video ledger
type Repository interface {
	// IsSeen reports whether a video id was kept by a previous run
	IsSeen(ctx context.Context, videoID string) (bool, error)

	// BulkInsert records video ids first seen on asOf. Ids already present
	// keep their original first-seen date. Returns the number of new rows.
	BulkInsert(ctx context.Context, videoIDs []string, asOf time.Time) (int, error)

	// PruneOlderThan removes entries first seen more than days ago;
	// days <= 0 is a no-op. Returns the number of rows removed.
	PruneOlderThan(ctx context.Context, days int) (int64, error)

	// Clear deletes the entire ledger
	Clear(ctx context.Context) error

	// Stats summarizes the ledger contents
	Stats(ctx context.Context) (*model.HistoryStats, error)
}
