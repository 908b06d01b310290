package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DurationFilter selects which duration band a video must fall into
type DurationFilter string

// Duration filter values, matching the YouTube videoDuration categories
// plus a custom minute range applied after fetch
const (
	DurationAny    DurationFilter = "Any"
	DurationShort  DurationFilter = "Short"  // under 4 minutes
	DurationMedium DurationFilter = "Medium" // 4 to 20 minutes
	DurationLong   DurationFilter = "Long"   // over 20 minutes
	DurationCustom DurationFilter = "Custom"
)

// APICategory maps the filter to the search API's videoDuration parameter.
// Any and Custom return "" because the API cannot express them; Custom is
// enforced after fetch instead.
func (d DurationFilter) APICategory() string {
	switch d {
	case DurationShort:
		return "short"
	case DurationMedium:
		return "medium"
	case DurationLong:
		return "long"
	default:
		return ""
	}
}

// Settings holds one run's search parameters
type Settings struct {
	Keywords        []string       `yaml:"keywords"`
	PagesPerKeyword int            `yaml:"pages_per_keyword"`
	APIQuotaCap     int            `yaml:"api_quota_cap"`
	Duration        DurationFilter `yaml:"duration"`
	DurationMin     *float64       `yaml:"duration_min,omitempty"` // minutes, Custom only
	DurationMax     *float64       `yaml:"duration_max,omitempty"`
	ViewsMin        *int64         `yaml:"views_min,omitempty"`
	ViewsMax        *int64         `yaml:"views_max,omitempty"`
	SubsMin         *int64         `yaml:"subs_min,omitempty"`
	SubsMax         *int64         `yaml:"subs_max,omitempty"`
	SkipHidden      bool           `yaml:"skip_hidden"`
	Region          string         `yaml:"region,omitempty"`   // 2-letter region code
	Language        string         `yaml:"language,omitempty"` // relevance language
	DaysBack        *int           `yaml:"days_back,omitempty"`
	MinDailyViews   *float64       `yaml:"min_daily_views,omitempty"`
	UploadDateMin   *string        `yaml:"upload_date_min,omitempty"` // YYYY-MM-DD, inclusive
	UploadDateMax   *string        `yaml:"upload_date_max,omitempty"`
	FreshSearch     bool           `yaml:"fresh_search"`
	HistoryKeepDays int            `yaml:"history_keep_days"` // 0 keeps history forever
}

// DefaultSettings returns the settings a new installation starts from
func DefaultSettings() *Settings {
	return &Settings{
		Keywords:        []string{"product review", "tech unboxing"},
		PagesPerKeyword: 2,
		APIQuotaCap:     9500,
		Duration:        DurationAny,
		SkipHidden:      true,
	}
}

// LoadSettings reads a run settings file, filling absent fields from defaults
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return settings, nil
}

// CleanKeywords returns the keyword list trimmed, with empty entries dropped
func (s *Settings) CleanKeywords() []string {
	keywords := make([]string, 0, len(s.Keywords))
	for _, k := range s.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// Validate checks the settings before a run starts and returns every
// problem found. An empty slice means the run may proceed.
func (s *Settings) Validate() []string {
	var errs []string

	if len(s.CleanKeywords()) == 0 {
		errs = append(errs, "keywords cannot be empty")
	}
	if s.PagesPerKeyword <= 0 {
		errs = append(errs, "pages per keyword must be positive")
	}
	if s.APIQuotaCap <= 0 {
		errs = append(errs, "API quota cap must be positive")
	}

	switch s.Duration {
	case DurationAny, DurationShort, DurationMedium, DurationLong:
	case DurationCustom:
		if s.DurationMin == nil && s.DurationMax == nil {
			errs = append(errs, "custom duration requires at least a min or max value")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown duration filter %q", s.Duration))
	}

	errs = append(errs, checkFloatRange("duration", s.DurationMin, s.DurationMax)...)
	errs = append(errs, checkIntRange("views", s.ViewsMin, s.ViewsMax)...)
	errs = append(errs, checkIntRange("subscribers", s.SubsMin, s.SubsMax)...)

	if s.DaysBack != nil && *s.DaysBack <= 0 {
		errs = append(errs, "days back must be positive")
	}
	if s.MinDailyViews != nil && *s.MinDailyViews < 0 {
		errs = append(errs, "min daily views must be non-negative")
	}
	if s.Region != "" && len(s.Region) != 2 {
		errs = append(errs, "region must be a 2-letter code")
	}
	if s.HistoryKeepDays < 0 {
		errs = append(errs, "history keep days must be non-negative")
	}

	minDate, ok := checkDate("upload date min", s.UploadDateMin, &errs)
	maxDate, ok2 := checkDate("upload date max", s.UploadDateMax, &errs)
	if ok && ok2 && s.UploadDateMin != nil && s.UploadDateMax != nil && minDate.After(maxDate) {
		errs = append(errs, "upload date min must not be after upload date max")
	}

	return errs
}

func checkFloatRange(name string, min, max *float64) []string {
	var errs []string
	if min != nil && *min < 0 {
		errs = append(errs, name+" min must be non-negative")
	}
	if max != nil && *max < 0 {
		errs = append(errs, name+" max must be non-negative")
	}
	if min != nil && max != nil && *min > *max {
		errs = append(errs, name+" min must not exceed "+name+" max")
	}
	return errs
}

func checkIntRange(name string, min, max *int64) []string {
	var errs []string
	if min != nil && *min < 0 {
		errs = append(errs, name+" min must be non-negative")
	}
	if max != nil && *max < 0 {
		errs = append(errs, name+" max must be non-negative")
	}
	if min != nil && max != nil && *min > *max {
		errs = append(errs, name+" min must not exceed "+name+" max")
	}
	return errs
}

func checkDate(name string, value *string, errs *[]string) (time.Time, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		*errs = append(*errs, name+" must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return t, true
}

// PublishedAfter returns the upload date min as an RFC 3339 timestamp for
// the search API, or "" when unset
func (s *Settings) PublishedAfter() string {
	return dateToRFC3339(s.UploadDateMin)
}

// PublishedBefore returns the upload date max as an RFC 3339 timestamp for
// the search API, or "" when unset
func (s *Settings) PublishedBefore() string {
	return dateToRFC3339(s.UploadDateMax)
}

func dateToRFC3339(date *string) string {
	if date == nil || strings.TrimSpace(*date) == "" {
		return ""
	}
	return strings.TrimSpace(*date) + "T00:00:00Z"
}
