package search

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/youtube/v3"
)

// mockAPI is a mock implementation of API for testing
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Search(ctx context.Context, req SearchRequest) (*youtube.SearchListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.SearchListResponse), args.Error(1)
}

func (m *mockAPI) VideoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.VideoListResponse), args.Error(1)
}

func (m *mockAPI) ChannelDetails(ctx context.Context, ids []string) (*youtube.ChannelListResponse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.ChannelListResponse), args.Error(1)
}

// searchItem builds one search.list result entry
func searchItem(videoID string) *youtube.SearchResult {
	return &youtube.SearchResult{
		Id: &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
	}
}

// videoItem builds one videos.list result entry
func videoItem(videoID, channelID string, views uint64, isoDuration string) *youtube.Video {
	return &youtube.Video{
		Id: videoID,
		Snippet: &youtube.VideoSnippet{
			Title:        "Video " + videoID,
			ChannelTitle: "Channel " + channelID,
			ChannelId:    channelID,
			PublishedAt:  "2024-06-01T00:00:00Z",
		},
		Statistics:     &youtube.VideoStatistics{ViewCount: views},
		ContentDetails: &youtube.VideoContentDetails{Duration: isoDuration},
	}
}

// channelItem builds one channels.list result entry
func channelItem(channelID string, subscribers uint64, hidden bool) *youtube.Channel {
	return &youtube.Channel{
		Id: channelID,
		Statistics: &youtube.ChannelStatistics{
			SubscriberCount:       subscribers,
			HiddenSubscriberCount: hidden,
		},
	}
}
