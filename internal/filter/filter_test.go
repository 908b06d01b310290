package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Taichi-iskw/yt-finder/internal/config"
	"github.com/Taichi-iskw/yt-finder/internal/model"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }
func intPtr(v int) *int             { return &v }
func stringPtr(v string) *string    { return &v }

// fixedNow anchors time-dependent filters for reproducible tests
var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testChain(seen SeenFunc) *Chain {
	return newChain(seen, func() time.Time { return fixedNow })
}

func baseRecord() *model.VideoRecord {
	return &model.VideoRecord{
		VideoID:         "vid-1",
		Title:           "Test video",
		ChannelID:       "chan-1",
		PublishedAt:     "2024-06-01T00:00:00Z",
		ViewCount:       10000,
		DurationMinutes: 10,
		SubscriberCount: 5000,
	}
}

func baseSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Keywords = []string{"test"}
	s.SkipHidden = false
	return s
}

func TestPassesDuration(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		filter  config.DurationFilter
		min     *float64
		max     *float64
		want    bool
	}{
		{"any passes everything", 500, config.DurationAny, nil, nil, true},
		{"short under 4", 3.9, config.DurationShort, nil, nil, true},
		{"short rejects 4", 4, config.DurationShort, nil, nil, false},
		{"medium includes 4", 4, config.DurationMedium, nil, nil, true},
		{"medium includes 20", 20, config.DurationMedium, nil, nil, true},
		{"medium rejects 21", 21, config.DurationMedium, nil, nil, false},
		{"long over 20", 20.1, config.DurationLong, nil, nil, true},
		{"long rejects 20", 20, config.DurationLong, nil, nil, false},
		{"custom within range", 10, config.DurationCustom, float64Ptr(5), float64Ptr(15), true},
		{"custom below min", 4, config.DurationCustom, float64Ptr(5), float64Ptr(15), false},
		{"custom above max", 16, config.DurationCustom, float64Ptr(5), float64Ptr(15), false},
		{"custom min only", 100, config.DurationCustom, float64Ptr(5), nil, true},
		{"custom max only", 0.5, config.DurationCustom, nil, float64Ptr(15), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.DurationMinutes = tt.minutes
			cfg := baseSettings()
			cfg.Duration = tt.filter
			cfg.DurationMin = tt.min
			cfg.DurationMax = tt.max
			assert.Equal(t, tt.want, PassesDuration(rec, cfg))
		})
	}
}

func TestPassesViews(t *testing.T) {
	tests := []struct {
		name  string
		views int64
		min   *int64
		max   *int64
		want  bool
	}{
		{"unconstrained", 5, nil, nil, true},
		{"below min", 99, int64Ptr(100), nil, false},
		{"at min", 100, int64Ptr(100), nil, true},
		{"above max", 1001, nil, int64Ptr(1000), false},
		{"at max", 1000, nil, int64Ptr(1000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.ViewCount = tt.views
			cfg := baseSettings()
			cfg.ViewsMin = tt.min
			cfg.ViewsMax = tt.max
			assert.Equal(t, tt.want, PassesViews(rec, cfg))
		})
	}
}

func TestVelocityFilter(t *testing.T) {
	twoDaysAgo := fixedNow.AddDate(0, 0, -2).Format(time.RFC3339)
	twelveHoursAgo := fixedNow.Add(-12 * time.Hour).Format(time.RFC3339)

	tests := []struct {
		name        string
		views       int64
		publishedAt string
		daysBack    *int
		minDaily    *float64
		want        bool
	}{
		{"inactive without days back", 1, twoDaysAgo, nil, float64Ptr(400), true},
		{"inactive without min daily", 1, twoDaysAgo, intPtr(7), nil, true},
		{"inactive with zero min daily", 1, twoDaysAgo, intPtr(7), float64Ptr(0), true},
		{"500 per day meets 400", 1000, twoDaysAgo, intPtr(7), float64Ptr(400), true},
		{"350 per day misses 400", 700, twoDaysAgo, intPtr(7), float64Ptr(400), false},
		{"under a day compares raw views", 450, twelveHoursAgo, intPtr(7), float64Ptr(400), true},
		{"under a day rejects low raw views", 399, twelveHoursAgo, intPtr(7), float64Ptr(400), false},
		{"unparseable timestamp fails open", 1, "yesterday-ish", intPtr(7), float64Ptr(400), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.ViewCount = tt.views
			rec.PublishedAt = tt.publishedAt
			cfg := baseSettings()
			cfg.DaysBack = tt.daysBack
			cfg.MinDailyViews = tt.minDaily

			chain := testChain(nil)
			assert.Equal(t, tt.want, chain.passesVelocity(rec, cfg))
		})
	}
}

func TestUploadDateFilter(t *testing.T) {
	tests := []struct {
		name        string
		publishedAt string
		min         *string
		max         *string
		want        bool
	}{
		{"no bounds", "2024-01-15T10:00:00Z", nil, nil, true},
		{"inside range", "2024-01-15T10:00:00Z", stringPtr("2024-01-01"), stringPtr("2024-01-31"), true},
		{"end date is inclusive", "2024-01-31T23:59:00Z", stringPtr("2024-01-01"), stringPtr("2024-01-31"), true},
		{"day after end date", "2024-02-01T00:00:00Z", stringPtr("2024-01-01"), stringPtr("2024-01-31"), false},
		{"before start date", "2023-12-31T23:59:59Z", stringPtr("2024-01-01"), nil, false},
		{"at start of start date", "2024-01-01T00:00:00Z", stringPtr("2024-01-01"), nil, true},
		{"unparseable timestamp fails open", "not-a-time", stringPtr("2024-01-01"), stringPtr("2024-01-31"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.PublishedAt = tt.publishedAt
			cfg := baseSettings()
			cfg.UploadDateMin = tt.min
			cfg.UploadDateMax = tt.max
			assert.Equal(t, tt.want, PassesUploadDate(rec, cfg))
		})
	}
}

func TestSubscriberFilters(t *testing.T) {
	t.Run("hidden subscribers skipped when enabled", func(t *testing.T) {
		rec := baseRecord()
		rec.HiddenSubscriberCount = true
		cfg := baseSettings()

		cfg.SkipHidden = true
		assert.False(t, PassesHiddenSubscribers(rec, cfg))

		cfg.SkipHidden = false
		assert.True(t, PassesHiddenSubscribers(rec, cfg))
	})

	t.Run("subscriber range", func(t *testing.T) {
		rec := baseRecord()
		rec.SubscriberCount = 5000
		cfg := baseSettings()

		cfg.SubsMin = int64Ptr(10000)
		assert.False(t, PassesSubscribers(rec, cfg))

		cfg.SubsMin = int64Ptr(1000)
		cfg.SubsMax = int64Ptr(4000)
		assert.False(t, PassesSubscribers(rec, cfg))

		cfg.SubsMax = int64Ptr(5000)
		assert.True(t, PassesSubscribers(rec, cfg))
	})
}

func TestChain_Evaluate(t *testing.T) {
	t.Run("passing record", func(t *testing.T) {
		chain := testChain(nil)
		pass, rejectedBy := chain.Evaluate(baseRecord(), baseSettings())
		assert.True(t, pass)
		assert.Equal(t, "", rejectedBy)
	})

	t.Run("seen record rejected first", func(t *testing.T) {
		chain := testChain(func(id string) bool { return id == "vid-1" })
		pass, rejectedBy := chain.Evaluate(baseRecord(), baseSettings())
		assert.False(t, pass)
		assert.Equal(t, "seen", rejectedBy)
	})

	t.Run("nil seen func treats nothing as seen", func(t *testing.T) {
		chain := testChain(nil)
		pass, _ := chain.Evaluate(baseRecord(), baseSettings())
		assert.True(t, pass)
	})
}

// TestChain_ShortCircuit verifies a rejection stops the chain: filters
// after the rejecting one must not run, while the outcome matches an
// unconditional evaluation of every filter.
func TestChain_ShortCircuit(t *testing.T) {
	rec := baseRecord()
	rec.DurationMinutes = 2 // rejected by the Long duration filter
	cfg := baseSettings()
	cfg.Duration = config.DurationLong

	calls := make(map[string]int)
	chain := testChain(nil)
	for i, p := range chain.predicates {
		p := p
		chain.predicates[i].Pass = func(r *model.VideoRecord, c *config.Settings) bool {
			calls[p.Name]++
			return p.Pass(r, c)
		}
	}

	pass, rejectedBy := chain.Evaluate(rec, cfg)
	assert.False(t, pass)
	assert.Equal(t, "duration", rejectedBy)

	assert.Equal(t, 1, calls["seen"])
	assert.Equal(t, 1, calls["duration"])
	for _, later := range []string{"views", "velocity", "upload_date", "hidden_subscribers", "subscribers"} {
		assert.Zero(t, calls[later], "filter %q must not run after rejection", later)
	}

	// outcome agrees with evaluating every filter unconditionally
	all := true
	for _, p := range testChain(nil).predicates {
		if !p.Pass(rec, cfg) {
			all = false
		}
	}
	assert.Equal(t, all, pass)
}
