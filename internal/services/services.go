package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// MetadataFetcher resolves a video URL to its metadata.
type MetadataFetcher interface {
	Lookup(ctx context.Context, url string) (models.Metadata, error)
}

// MetadataFetcherFunc adapts a function to [MetadataFetcher].
type MetadataFetcherFunc func(ctx context.Context, url string) (models.Metadata, error)

func (f MetadataFetcherFunc) Lookup(ctx context.Context, url string) (models.Metadata, error) {
	return f(ctx, url)
}

type timeoutFetcher struct {
	next    MetadataFetcher
	timeout time.Duration
}

// WithTimeout bounds every lookup made through next by timeout.
//
// A non-positive timeout returns next unchanged.
func WithTimeout(next MetadataFetcher, timeout time.Duration) MetadataFetcher {
	if timeout <= 0 {
		return next
	}
	return &timeoutFetcher{next: next, timeout: timeout}
}

func (t *timeoutFetcher) Lookup(ctx context.Context, url string) (models.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	meta, err := t.next.Lookup(ctx, url)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.Metadata{}, fmt.Errorf("%w: metadata lookup after %s", shared.ErrTimeout, t.timeout)
	}
	return meta, err
}

// NopFetcher returns empty metadata for every URL.
type NopFetcher struct{}

func (NopFetcher) Lookup(context.Context, string) (models.Metadata, error) {
	return models.Metadata{}, nil
}
