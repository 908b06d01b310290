// Package search implements the quota-aware remote search client.
//
// One Search call walks up to MaxPages result pages for a keyword. Each
// page is a three-step fetch: the search call itself (100 quota units),
// batched video detail lookups and batched channel statistic lookups
// (1 unit per batch of 50). Remote failures at any step end that step
// and return whatever was accumulated; partial results beat no results.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/duration"
	"github.com/Taichi-iskw/yt-finder/internal/model"
	"github.com/Taichi-iskw/yt-finder/internal/quota"
	"google.golang.org/api/youtube/v3"
)

// Params configures one keyword search
type Params struct {
	Query            string
	MaxPages         int
	Region           string
	Language         string
	DurationCategory string // videoDuration API value, "" for none
	QuotaLimit       int    // budget for this call, in quota units
	PublishedAfter   string // RFC 3339, "" for unbounded
	PublishedBefore  string
}

// Client pages through keyword search results and enriches them into
// VideoRecords, charging its quota meter as it goes. Not safe for
// concurrent use; the runner issues one search at a time.
type Client struct {
	api    API
	meter  *quota.Meter
	logger *slog.Logger
	delay  time.Duration // cooperative pause between remote calls
}

// NewClient creates a search client with the standard inter-call delay
func NewClient(api API, logger *slog.Logger) *Client {
	return NewClientWithDelay(api, logger, 100*time.Millisecond)
}

// NewClientWithDelay creates a search client with a custom inter-call
// delay (zero in tests)
func NewClientWithDelay(api API, logger *slog.Logger, delay time.Duration) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:    api,
		meter:  quota.NewMeter(),
		logger: logger,
		delay:  delay,
	}
}

// QuotaUsed returns the units consumed by the most recent Search call
func (c *Client) QuotaUsed() int {
	return c.meter.Used()
}

// Search pages through results for one keyword. It never fails hard:
// transport errors, empty pages and quota exhaustion all end the walk
// and return the records accumulated so far.
func (c *Client) Search(ctx context.Context, p Params) []*model.VideoRecord {
	c.meter.Reset()

	var all []*model.VideoRecord
	pageToken := ""
	pagesFetched := 0

	for pagesFetched < p.MaxPages {
		if ctx.Err() != nil {
			break
		}
		if c.meter.WouldExceed(quota.SearchCost, p.QuotaLimit) {
			c.logger.Warn("quota limit would be exceeded, stopping search",
				"query", p.Query, "used", c.meter.Used(), "limit", p.QuotaLimit)
			break
		}

		resp, err := c.api.Search(ctx, SearchRequest{
			Query:           p.Query,
			PageToken:       pageToken,
			Region:          p.Region,
			Language:        p.Language,
			VideoDuration:   p.DurationCategory,
			PublishedAfter:  p.PublishedAfter,
			PublishedBefore: p.PublishedBefore,
			MaxResults:      quota.BatchSize,
		})
		c.pause()
		if err != nil {
			c.logger.Warn("search call failed", "query", p.Query, "error", err)
			break
		}
		// a page costs 100 units no matter how many items came back
		c.meter.Charge(quota.SearchCost)
		if len(resp.Items) == 0 {
			break
		}

		videoIDs := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}

		records := c.fetchDetails(ctx, videoIDs, p.QuotaLimit)
		if len(records) == 0 {
			break
		}

		channels := c.fetchChannels(ctx, uniqueChannelIDs(records), p.QuotaLimit)
		for _, rec := range records {
			if stats, ok := channels[rec.ChannelID]; ok {
				rec.SubscriberCount = stats.SubscriberCount
				rec.HiddenSubscriberCount = stats.HiddenSubscriberCount
			}
		}

		all = append(all, records...)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
		pagesFetched++
	}

	return all
}

// fetchDetails resolves video ids to full records in batches of 50,
// one quota unit per batch
func (c *Client) fetchDetails(ctx context.Context, videoIDs []string, quotaLimit int) []*model.VideoRecord {
	if len(videoIDs) == 0 || c.meter.Remaining(quotaLimit) < quota.DetailsCost {
		return nil
	}

	var records []*model.VideoRecord
	for _, batch := range batches(videoIDs, quota.BatchSize) {
		resp, err := c.api.VideoDetails(ctx, batch)
		c.pause()
		if err != nil {
			c.logger.Warn("video details call failed", "count", len(batch), "error", err)
			continue
		}
		c.meter.Charge(quota.DetailsCost)

		for _, item := range resp.Items {
			if rec := parseVideoItem(item); rec != nil {
				records = append(records, rec)
			}
		}

		if c.meter.Remaining(quotaLimit) == 0 {
			break
		}
	}
	return records
}

// fetchChannels resolves channel ids to subscriber stats in batches of 50,
// one quota unit per batch
func (c *Client) fetchChannels(ctx context.Context, channelIDs []string, quotaLimit int) map[string]model.ChannelStats {
	stats := make(map[string]model.ChannelStats)
	if len(channelIDs) == 0 || c.meter.Remaining(quotaLimit) < quota.ChannelCost {
		return stats
	}

	for _, batch := range batches(channelIDs, quota.BatchSize) {
		resp, err := c.api.ChannelDetails(ctx, batch)
		c.pause()
		if err != nil {
			c.logger.Warn("channel details call failed", "count", len(batch), "error", err)
			continue
		}
		c.meter.Charge(quota.ChannelCost)

		for _, item := range resp.Items {
			var s model.ChannelStats
			if item.Statistics != nil {
				s.SubscriberCount = int64(item.Statistics.SubscriberCount)
				s.HiddenSubscriberCount = item.Statistics.HiddenSubscriberCount
			}
			stats[item.Id] = s
		}

		if c.meter.Remaining(quotaLimit) == 0 {
			break
		}
	}
	return stats
}

// parseVideoItem converts an API video item into a VideoRecord with
// default channel fields, merged later from the channel batch
func parseVideoItem(item *youtube.Video) *model.VideoRecord {
	if item == nil || item.Id == "" || item.Snippet == nil {
		return nil
	}

	rec := &model.VideoRecord{
		VideoID:      item.Id,
		VideoURL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Tags:         item.Snippet.Tags,
		ChannelTitle: item.Snippet.ChannelTitle,
		ChannelID:    item.Snippet.ChannelId,
		PublishedAt:  item.Snippet.PublishedAt,
	}

	if item.Statistics != nil {
		rec.ViewCount = int64(item.Statistics.ViewCount)
	}
	if item.ContentDetails != nil {
		rec.Duration = item.ContentDetails.Duration
	}
	rec.DurationMinutes = duration.Minutes(rec.Duration)

	return rec
}

// uniqueChannelIDs collects the distinct channel ids referenced by a page
func uniqueChannelIDs(records []*model.VideoRecord) []string {
	seen := make(map[string]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.ChannelID != "" && !seen[rec.ChannelID] {
			seen[rec.ChannelID] = true
			ids = append(ids, rec.ChannelID)
		}
	}
	return ids
}

// batches splits ids into chunks of at most size
func batches(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func (c *Client) pause() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}
