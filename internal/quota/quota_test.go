package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeter(t *testing.T) {
	m := NewMeter()
	assert.Equal(t, 0, m.Used())
	assert.Equal(t, 9500, m.Remaining(9500))
	assert.False(t, m.WouldExceed(100, 9500))

	m.Charge(9500)
	assert.Equal(t, 9500, m.Used())
	assert.Equal(t, 0, m.Remaining(9500))
	assert.True(t, m.WouldExceed(1, 9500))
	assert.False(t, m.WouldExceed(0, 9500))

	m.Charge(100)
	assert.Equal(t, 0, m.Remaining(9500), "remaining never goes negative")

	m.Reset()
	assert.Equal(t, 0, m.Used())
}

func TestWarningThreshold(t *testing.T) {
	tests := []struct {
		name string
		cap  int
		want int
	}{
		{"default cap", 9500, 8550},
		{"round cap", 10000, 9000},
		{"zero cap", 0, 0},
		{"negative cap", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WarningThreshold(tt.cap))
		})
	}
}

func TestEstimateSearch(t *testing.T) {
	t.Run("two keywords two pages", func(t *testing.T) {
		e := EstimateSearch(2, 2)
		assert.Equal(t, 400, e.SearchQuota)
		assert.Equal(t, 160, e.EstimatedVideos)
		assert.Equal(t, 3, e.VideoQuota)
		assert.Equal(t, 3, e.ChannelQuota)
		assert.Equal(t, 406, e.TotalQuota)
	})

	t.Run("single small search still counts one batch", func(t *testing.T) {
		e := EstimateSearch(1, 1)
		assert.Equal(t, 100, e.SearchQuota)
		assert.Equal(t, 1, e.VideoQuota)
		assert.Equal(t, 1, e.ChannelQuota)
	})

	t.Run("zero keywords", func(t *testing.T) {
		assert.Equal(t, Estimate{}, EstimateSearch(0, 2))
	})
}
