package youtube

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/Veraticus/lockin/internal/common"
)

// MetadataSource looks up video metadata by id.
type MetadataSource interface {
	Fetch(ctx context.Context, videoID string) (Metadata, error)
}

// DataAPISource reads metadata from the YouTube Data API.
type DataAPISource struct {
	svc *yt.Service
}

// NewDataAPISource creates a source authenticated with apiKey. Extra options
// are passed to the client, mainly for tests.
func NewDataAPISource(ctx context.Context, apiKey string, opts ...option.ClientOption) (*DataAPISource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: youtube.api_key", common.ErrMissingConfig)
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &DataAPISource{svc: svc}, nil
}

// Fetch returns the snippet for videoID.
func (s *DataAPISource) Fetch(ctx context.Context, videoID string) (Metadata, error) {
	resp, err := s.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return Metadata{}, fmt.Errorf("video %s: %w", videoID, common.ErrNotFound)
	}

	snippet := resp.Items[0].Snippet
	return Metadata{
		VideoID:     videoID,
		Title:       snippet.Title,
		ChannelName: snippet.ChannelTitle,
		Description: snippet.Description,
	}, nil
}

// PageSource serves metadata scraped from the page itself.
type PageSource struct {
	videos map[string]Metadata
	mu     sync.RWMutex
}

// NewPageSource creates an empty page source.
func NewPageSource() *PageSource {
	return &PageSource{videos: make(map[string]Metadata)}
}

// Put records metadata observed on a page.
func (s *PageSource) Put(meta Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[meta.VideoID] = meta
}

// Fetch returns previously recorded metadata.
func (s *PageSource) Fetch(_ context.Context, videoID string) (Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.videos[videoID]
	if !ok {
		return Metadata{}, fmt.Errorf("video %s: %w", videoID, common.ErrNotFound)
	}
	return meta, nil
}

// Chain tries each source in order and returns the first success.
type Chain []MetadataSource

// Fetch implements MetadataSource.
func (c Chain) Fetch(ctx context.Context, videoID string) (Metadata, error) {
	var errs []error
	for _, source := range c {
		meta, err := source.Fetch(ctx, videoID)
		if err == nil {
			return meta, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Metadata{}, fmt.Errorf("video %s: %w", videoID, common.ErrNotFound)
	}
	return Metadata{}, errors.Join(errs...)
}
