package search

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// SearchRequest carries the parameters for one search.list call
type SearchRequest struct {
	Query           string
	PageToken       string
	Region          string // regionCode
	Language        string // relevanceLanguage
	VideoDuration   string // "", "short", "medium" or "long"
	PublishedAfter  string // RFC 3339
	PublishedBefore string // RFC 3339
	MaxResults      int64
}

// API is the subset of the YouTube Data API the search client needs.
// The production implementation wraps google.golang.org/api/youtube/v3;
// tests substitute a mock.
type API interface {
	Search(ctx context.Context, req SearchRequest) (*youtube.SearchListResponse, error)
	VideoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error)
	ChannelDetails(ctx context.Context, ids []string) (*youtube.ChannelListResponse, error)
}

// googleAPI implements API against the real YouTube service
type googleAPI struct {
	service *youtube.Service
}

// NewAPI creates an API backed by the YouTube Data API v3
func NewAPI(ctx context.Context, apiKey string) (API, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &googleAPI{service: service}, nil
}

// Search performs one keyword search page, ordered by view count
func (a *googleAPI) Search(ctx context.Context, req SearchRequest) (*youtube.SearchListResponse, error) {
	call := a.service.Search.List([]string{"snippet"}).
		Q(req.Query).
		Type("video").
		Order("viewCount").
		MaxResults(req.MaxResults).
		Context(ctx)

	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}
	if req.Region != "" {
		call = call.RegionCode(req.Region)
	}
	if req.Language != "" {
		call = call.RelevanceLanguage(req.Language)
	}
	if req.VideoDuration != "" {
		call = call.VideoDuration(req.VideoDuration)
	}
	if req.PublishedAfter != "" {
		call = call.PublishedAfter(req.PublishedAfter)
	}
	if req.PublishedBefore != "" {
		call = call.PublishedBefore(req.PublishedBefore)
	}

	return call.Do()
}

// VideoDetails fetches statistics, content details and snippets for a batch of ids
func (a *googleAPI) VideoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error) {
	return a.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
}

// ChannelDetails fetches statistics for a batch of channel ids
func (a *googleAPI) ChannelDetails(ctx context.Context, ids []string) (*youtube.ChannelListResponse, error) {
	return a.service.Channels.List([]string{"statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
}
