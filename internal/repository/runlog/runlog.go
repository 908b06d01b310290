// Package runlog keeps a record of completed search runs.
package runlog

import (
	"context"

	"github.com/Taichi-iskw/yt-finder/internal/model"
)

// Repository defines operations for run log persistence
type Repository interface {
	// Append records one completed run
	Append(ctx context.Context, log *model.RunLog) error

	// List retrieves the most recent runs, newest first
	List(ctx context.Context, limit int) ([]*model.RunLog, error)
}
