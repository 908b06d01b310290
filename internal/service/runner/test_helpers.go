package runner

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/yt-finder/internal/model"
	"github.com/Taichi-iskw/yt-finder/internal/service/search"
)

// mockSearchClient is a mock implementation of SearchClient for testing
type mockSearchClient struct {
	mock.Mock
}

func (m *mockSearchClient) Search(ctx context.Context, p search.Params) []*model.VideoRecord {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*model.VideoRecord)
}

func (m *mockSearchClient) QuotaUsed() int {
	args := m.Called()
	return args.Int(0)
}

// mockHistoryRepository is a mock implementation of history.Repository for testing
type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) IsSeen(ctx context.Context, videoID string) (bool, error) {
	args := m.Called(ctx, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *mockHistoryRepository) BulkInsert(ctx context.Context, videoIDs []string, asOf time.Time) (int, error) {
	args := m.Called(ctx, videoIDs, asOf)
	return args.Int(0), args.Error(1)
}

func (m *mockHistoryRepository) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockHistoryRepository) Stats(ctx context.Context) (*model.HistoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryStats), args.Error(1)
}

// mockRunLogRepository is a mock implementation of runlog.Repository for testing
type mockRunLogRepository struct {
	mock.Mock
}

func (m *mockRunLogRepository) Append(ctx context.Context, log *model.RunLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockRunLogRepository) List(ctx context.Context, limit int) ([]*model.RunLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RunLog), args.Error(1)
}

// mockResultsWriter is a mock implementation of ResultsWriter for testing
type mockResultsWriter struct {
	mock.Mock
}

func (m *mockResultsWriter) Save(records []*model.VideoRecord, asOf time.Time) (string, error) {
	args := m.Called(records, asOf)
	return args.String(0), args.Error(1)
}

// candidate builds a record the way the search client returns them,
// before the runner stamps the keyword
func candidate(videoID string, hidden bool) *model.VideoRecord {
	return &model.VideoRecord{
		VideoID:         videoID,
		VideoURL:        "https://www.youtube.com/watch?v=" + videoID,
		Title:           "Video " + videoID,
		ChannelID:       "chan-" + videoID,
		PublishedAt:     "2024-06-01T00:00:00Z",
		ViewCount:       10000,
		Duration:        "PT10M",
		DurationMinutes: 10,
		SubscriberCount:       5000,
		HiddenSubscriberCount: hidden,
	}
}
