package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-finder/internal/model"
)

var testDate = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func sampleRecord(videoID string) *model.VideoRecord {
	return &model.VideoRecord{
		VideoID:         videoID,
		VideoURL:        "https://www.youtube.com/watch?v=" + videoID,
		Title:           "Sample video",
		Description:     "line one\nline two",
		Tags:            []string{"tech", "review"},
		ChannelTitle:    "Sample channel",
		ChannelID:       "chan-1",
		PublishedAt:     "2024-06-01T00:00:00Z",
		ViewCount:       12345,
		DurationMinutes: 10.5,
		SubscriberCount: 9000,
		Keyword:         "drone review",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_Save_CreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Save([]*model.VideoRecord{sampleRecord("vid1")}, testDate)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "results_2024-06-15.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"title", "description", "tags", "video_url", "video_id",
		"channel_title", "channel_id", "subscriber_count", "view_count",
		"comments", "likes", "duration_minutes", "published_at", "keyword",
	}, rows[0])

	row := rows[1]
	assert.Equal(t, "Sample video", row[0])
	assert.Equal(t, "line one line two", row[1], "newlines flattened")
	assert.Equal(t, "tech,review", row[2])
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", row[3])
	assert.Equal(t, "vid1", row[4])
	assert.Equal(t, "9000", row[7])
	assert.Equal(t, "12345", row[8])
	assert.Equal(t, "", row[9], "comments reserved")
	assert.Equal(t, "", row[10], "likes reserved")
	assert.Equal(t, "10.5", row[11])
	assert.Equal(t, "2024-06-01T00:00:00Z", row[12])
	assert.Equal(t, "drone review", row[13])
}

func TestWriter_Save_AppendsWithoutRepeatingHeader(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	_, err := w.Save([]*model.VideoRecord{sampleRecord("vid1")}, testDate)
	require.NoError(t, err)
	path, err := w.Save([]*model.VideoRecord{sampleRecord("vid2"), sampleRecord("vid3")}, testDate)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 4, "one header plus three records")
	assert.Equal(t, "title", rows[0][0])
	assert.Equal(t, "vid1", rows[1][4])
	assert.Equal(t, "vid2", rows[2][4])
	assert.Equal(t, "vid3", rows[3][4])
}

func TestWriter_Save_NewDayNewFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path1, err := w.Save([]*model.VideoRecord{sampleRecord("vid1")}, testDate)
	require.NoError(t, err)
	path2, err := w.Save([]*model.VideoRecord{sampleRecord("vid2")}, testDate.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.NotEqual(t, path1, path2)
	assert.Len(t, readCSV(t, path1), 2)
	assert.Len(t, readCSV(t, path2), 2)
}

func TestWriter_Save_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "export")
	w := NewWriter(dir)

	path, err := w.Save([]*model.VideoRecord{sampleRecord("vid1")}, testDate)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"newlines to spaces", "a\nb\nc", "a b c"},
		{"tabs to spaces", "a\tb", "a b"},
		{"carriage returns dropped", "a\r\nb", "a b"},
		{"control characters dropped", "a\x00\x1fb", "ab"},
		{"surrounding whitespace trimmed", "  padded  ", "padded"},
		{"unicode preserved", "ドローン レビュー", "ドローン レビュー"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
