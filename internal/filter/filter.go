// Package filter implements the candidate filter chain.
//
// Every filter is a pure predicate over a video record and the active
// settings. The chain evaluates them in a fixed order and stops at the
// first rejection; the cheap ledger lookup runs first, the subscriber
// checks last. Filters that depend on parsed timestamps fail open: a
// malformed value passes rather than rejects.
package filter

import (
	"time"

	"github.com/Taichi-iskw/yt-finder/internal/config"
	"github.com/Taichi-iskw/yt-finder/internal/model"
)

// SeenFunc reports whether a video id was kept by a previous run
type SeenFunc func(videoID string) bool

// Predicate is one named filter in the chain
type Predicate struct {
	Name string
	Pass func(rec *model.VideoRecord, cfg *config.Settings) bool
}

// Chain is the ordered filter sequence applied to every candidate
type Chain struct {
	predicates []Predicate
	now        func() time.Time
}

// NewChain builds the standard chain. seen may be nil when no dedup
// ledger is available; candidates then never count as already seen.
func NewChain(seen SeenFunc) *Chain {
	return newChain(seen, time.Now)
}

func newChain(seen SeenFunc, now func() time.Time) *Chain {
	c := &Chain{now: now}
	c.predicates = []Predicate{
		{"seen", func(rec *model.VideoRecord, _ *config.Settings) bool {
			return seen == nil || !seen(rec.VideoID)
		}},
		{"duration", PassesDuration},
		{"views", PassesViews},
		{"velocity", c.passesVelocity},
		{"upload_date", PassesUploadDate},
		{"hidden_subscribers", PassesHiddenSubscribers},
		{"subscribers", PassesSubscribers},
	}
	return c
}

// Evaluate runs the chain against a candidate. It returns true when every
// filter passes, otherwise false plus the name of the rejecting filter.
func (c *Chain) Evaluate(rec *model.VideoRecord, cfg *config.Settings) (bool, string) {
	for _, p := range c.predicates {
		if !p.Pass(rec, cfg) {
			return false, p.Name
		}
	}
	return true, ""
}

// PassesDuration checks the video length against the selected band
func PassesDuration(rec *model.VideoRecord, cfg *config.Settings) bool {
	minutes := rec.DurationMinutes
	switch cfg.Duration {
	case config.DurationShort:
		return minutes < 4
	case config.DurationMedium:
		return minutes >= 4 && minutes <= 20
	case config.DurationLong:
		return minutes > 20
	case config.DurationCustom:
		min := 0.0
		if cfg.DurationMin != nil {
			min = *cfg.DurationMin
		}
		if minutes < min {
			return false
		}
		return cfg.DurationMax == nil || minutes <= *cfg.DurationMax
	default: // Any
		return true
	}
}

// PassesViews checks the view count range; an absent bound is unconstrained
func PassesViews(rec *model.VideoRecord, cfg *config.Settings) bool {
	if cfg.ViewsMin != nil && rec.ViewCount < *cfg.ViewsMin {
		return false
	}
	if cfg.ViewsMax != nil && rec.ViewCount > *cfg.ViewsMax {
		return false
	}
	return true
}

// passesVelocity checks views per day since publish against the timeframe
// filter. Inactive unless both days back and min daily views are set and
// positive. Videos under a day old are compared on raw views to avoid the
// divisor blowing the rate up.
func (c *Chain) passesVelocity(rec *model.VideoRecord, cfg *config.Settings) bool {
	if cfg.DaysBack == nil || *cfg.DaysBack <= 0 {
		return true
	}
	if cfg.MinDailyViews == nil || *cfg.MinDailyViews <= 0 {
		return true
	}

	published, err := time.Parse(time.RFC3339, rec.PublishedAt)
	if err != nil {
		return true
	}

	ageDays := c.now().UTC().Sub(published.UTC()).Hours() / 24
	if ageDays < 1 {
		return float64(rec.ViewCount) >= *cfg.MinDailyViews
	}
	return float64(rec.ViewCount)/ageDays >= *cfg.MinDailyViews
}

// PassesUploadDate checks the publish timestamp against the inclusive
// calendar date range
func PassesUploadDate(rec *model.VideoRecord, cfg *config.Settings) bool {
	if cfg.UploadDateMin == nil && cfg.UploadDateMax == nil {
		return true
	}

	published, err := time.Parse(time.RFC3339, rec.PublishedAt)
	if err != nil {
		return true
	}
	published = published.UTC()

	if cfg.UploadDateMin != nil {
		if min, err := time.Parse("2006-01-02", *cfg.UploadDateMin); err == nil {
			if published.Before(min) {
				return false
			}
		}
	}
	if cfg.UploadDateMax != nil {
		if max, err := time.Parse("2006-01-02", *cfg.UploadDateMax); err == nil {
			// compare against the following midnight so the whole end
			// date is included
			if !published.Before(max.AddDate(0, 0, 1)) {
				return false
			}
		}
	}
	return true
}

// PassesHiddenSubscribers rejects channels that withhold subscriber counts
// when the skip-hidden option is on
func PassesHiddenSubscribers(rec *model.VideoRecord, cfg *config.Settings) bool {
	return !cfg.SkipHidden || !rec.HiddenSubscriberCount
}

// PassesSubscribers checks the subscriber count range
func PassesSubscribers(rec *model.VideoRecord, cfg *config.Settings) bool {
	if cfg.SubsMin != nil && rec.SubscriberCount < *cfg.SubsMin {
		return false
	}
	if cfg.SubsMax != nil && rec.SubscriberCount > *cfg.SubsMax {
		return false
	}
	return true
}
