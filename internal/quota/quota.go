// Package quota tracks YouTube API cost units consumed during a run.
//
// The YouTube Data API charges a flat schedule per call: search.list costs
// 100 units, videos.list and channels.list cost 1 unit per batch of up to
// 50 ids. The daily budget is shared across the whole run, so charges are
// serialized by the runner; the meter itself is not safe for concurrent use.
package quota

// Cost constants for the YouTube Data API v3
const (
	SearchCost  = 100 // search.list, per call
	DetailsCost = 1   // videos.list, per batch
	ChannelCost = 1   // channels.list, per batch
	BatchSize   = 50  // maximum ids per videos/channels batch and results per page
)

// Meter counts consumed quota units against a per-run budget
type Meter struct {
	used int
}

// NewMeter creates a meter with zero usage
func NewMeter() *Meter {
	return &Meter{}
}

// Charge adds units to the consumed total
func (m *Meter) Charge(units int) {
	m.used += units
}

// Used returns the units consumed so far
func (m *Meter) Used() int {
	return m.used
}

// Remaining returns the budget left under cap, never negative
func (m *Meter) Remaining(cap int) int {
	if r := cap - m.used; r > 0 {
		return r
	}
	return 0
}

// WouldExceed reports whether charging units would push usage past cap
func (m *Meter) WouldExceed(units, cap int) bool {
	return m.used+units > cap
}

// Reset clears the consumed total at the start of a run
func (m *Meter) Reset() {
	m.used = 0
}

// WarningThreshold returns the 90% soft limit for a daily cap.
// Runs stop once usage reaches this point to avoid burning the whole budget.
func WarningThreshold(cap int) int {
	if cap <= 0 {
		return 0
	}
	return cap * 90 / 100
}

// Estimate is a pre-run projection of quota usage for a search
type Estimate struct {
	SearchQuota     int `json:"search_quota"`
	VideoQuota      int `json:"video_quota"`
	ChannelQuota    int `json:"channel_quota"`
	TotalQuota      int `json:"total_quota"`
	EstimatedVideos int `json:"estimated_videos"`
}

// EstimateSearch projects quota usage for keywordCount keywords at
// pagesPerKeyword pages each, assuming pages come back about 80% full.
func EstimateSearch(keywordCount, pagesPerKeyword int) Estimate {
	if keywordCount <= 0 || pagesPerKeyword <= 0 {
		return Estimate{}
	}

	searchCalls := keywordCount * pagesPerKeyword
	estimatedVideos := int(float64(searchCalls*BatchSize) * 0.8)

	batchCalls := estimatedVideos / BatchSize
	if batchCalls < 1 {
		batchCalls = 1
	}

	e := Estimate{
		SearchQuota:     searchCalls * SearchCost,
		VideoQuota:      batchCalls * DetailsCost,
		ChannelQuota:    batchCalls * ChannelCost,
		EstimatedVideos: estimatedVideos,
	}
	e.TotalQuota = e.SearchQuota + e.VideoQuota + e.ChannelQuota
	return e
}
