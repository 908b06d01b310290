// Package export writes accumulated results to dated CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/model"
)

// resultColumns is the fixed column order of the export contract.
// comments and likes are reserved columns, written empty.
var resultColumns = []string{
	"title", "description", "tags", "video_url", "video_id",
	"channel_title", "channel_id", "subscriber_count", "view_count",
	"comments", "likes", "duration_minutes", "published_at", "keyword",
}

// Writer appends result sets to per-day CSV files in a directory
type Writer struct {
	dir string
}

// NewWriter creates a writer exporting into dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Save appends records to results_YYYY-MM-DD.csv for the asOf date,
// creating the file with a header row when it does not exist yet.
// It returns the path written.
func (w *Writer) Save(records []*model.VideoRecord, asOf time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("results_%s.csv", asOf.Format("2006-01-02")))

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(resultColumns); err != nil {
			return "", fmt.Errorf("failed to write results header: %w", err)
		}
	}

	for _, rec := range records {
		if err := cw.Write(resultRow(rec)); err != nil {
			return "", fmt.Errorf("failed to write result row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush results file: %w", err)
	}

	return path, nil
}

// resultRow renders one record in the fixed column order
func resultRow(rec *model.VideoRecord) []string {
	return []string{
		CleanText(rec.Title),
		CleanText(rec.Description),
		CleanText(strings.Join(rec.Tags, ",")),
		rec.VideoURL,
		rec.VideoID,
		CleanText(rec.ChannelTitle),
		rec.ChannelID,
		strconv.FormatInt(rec.SubscriberCount, 10),
		strconv.FormatInt(rec.ViewCount, 10),
		"", // comments, not fetched
		"", // likes, not fetched
		strconv.FormatFloat(rec.DurationMinutes, 'f', -1, 64),
		rec.PublishedAt,
		CleanText(rec.Keyword),
	}
}

// CleanText flattens text for CSV storage: newlines and tabs become
// spaces and other control characters are dropped.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\n', '\t':
			b.WriteRune(' ')
		case '\r':
			// dropped
		default:
			if r >= 32 {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
