package model

// VideoRecord represents one discovered video with its channel statistics
type VideoRecord struct {
	VideoID               string   `json:"video_id" db:"video_id"`
	VideoURL              string   `json:"video_url" db:"video_url"`
	Title                 string   `json:"title" db:"title"`
	Description           string   `json:"description" db:"description"`
	Tags                  []string `json:"tags" db:"tags"`
	ChannelTitle          string   `json:"channel_title" db:"channel_title"`
	ChannelID             string   `json:"channel_id" db:"channel_id"`
	PublishedAt           string   `json:"published_at" db:"published_at"` // RFC 3339, as returned by the API
	ViewCount             int64    `json:"view_count" db:"view_count"`
	Duration              string   `json:"duration" db:"duration"` // ISO 8601 designator form, e.g. PT5M30S
	DurationMinutes       float64  `json:"duration_minutes" db:"duration_minutes"`
	SubscriberCount       int64    `json:"subscriber_count" db:"subscriber_count"`
	HiddenSubscriberCount bool     `json:"hidden_subscriber_count" db:"hidden_subscriber_count"`
	Keyword               string   `json:"keyword" db:"keyword"` // stamped by the runner, not the search client
}

// ChannelStats holds the per-channel fields merged into VideoRecord
type ChannelStats struct {
	SubscriberCount       int64 `json:"subscriber_count"`
	HiddenSubscriberCount bool  `json:"hidden_subscriber_count"`
}

// SeenEntry represents one dedup ledger row
type SeenEntry struct {
	VideoID       string `json:"video_id" db:"video_id"`
	FirstSeenDate string `json:"first_seen_date" db:"first_seen_date"` // calendar date, YYYY-MM-DD
}

// SearchStats counts candidates processed during a run
type SearchStats struct {
	Scanned int `json:"scanned"`
	Kept    int `json:"kept"`
	Skipped int `json:"skipped"`
}

// RunLog records one completed search run
type RunLog struct {
	RunTimestamp  string `json:"run_timestamp" db:"run_timestamp"`
	QuotaUsed     int    `json:"quota_used" db:"quota_used"`
	KeywordsCount int    `json:"keywords_count" db:"keywords_count"`
	ResultsCount  int    `json:"results_count" db:"results_count"`
}

// HistoryStats summarizes the dedup ledger contents
type HistoryStats struct {
	TotalVideos int    `json:"total_videos"`
	OldestDate  string `json:"oldest_date"`
	NewestDate  string `json:"newest_date"`
}
