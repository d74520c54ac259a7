package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/vidshelf/internal/links"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYouTubeEndpoint  = "https://www.youtube.com/oembed"
	defaultVimeoEndpoint    = "https://vimeo.com/api/oembed.json"
	defaultFallbackEndpoint = "https://noembed.com/embed"
)

// Endpoints lists the oEmbed endpoint used per provider.
type Endpoints struct {
	YouTube  string
	Vimeo    string
	Fallback string
}

// OEmbedResponse is the subset of an oEmbed document used for metadata.
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error,omitempty"`
}

// OEmbedService implements [MetadataFetcher] with oEmbed lookups.
type OEmbedService struct {
	endpoints  Endpoints
	userAgent  string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewOEmbedService creates an OEmbedService from the metadata settings.
//
// A nil client uses http.DefaultClient; a non-positive request rate disables pacing.
func NewOEmbedService(cfg shared.MetadataConfig, client *http.Client) *OEmbedService {
	if client == nil {
		client = http.DefaultClient
	}

	endpoints := Endpoints{
		YouTube:  cfg.YouTubeEndpoint,
		Vimeo:    cfg.VimeoEndpoint,
		Fallback: cfg.FallbackEndpoint,
	}
	if endpoints.YouTube == "" {
		endpoints.YouTube = defaultYouTubeEndpoint
	}
	if endpoints.Vimeo == "" {
		endpoints.Vimeo = defaultVimeoEndpoint
	}
	if endpoints.Fallback == "" {
		endpoints.Fallback = defaultFallbackEndpoint
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OEmbedService{
		endpoints:  endpoints,
		userAgent:  cfg.UserAgent,
		limiter:    limiter,
		httpClient: client,
	}
}

// Name returns the service name.
func (s *OEmbedService) Name() string {
	return "oEmbed"
}

// Endpoint returns the oEmbed endpoint responsible for provider.
func (s *OEmbedService) Endpoint(provider links.Provider) string {
	switch provider {
	case links.ProviderYouTube:
		return s.endpoints.YouTube
	case links.ProviderVimeo:
		return s.endpoints.Vimeo
	default:
		return s.endpoints.Fallback
	}
}

// Lookup fetches the title, thumbnail and author of rawURL.
//
// YouTube results without a thumbnail get the standard i.ytimg.com still for the video id.
func (s *OEmbedService) Lookup(ctx context.Context, rawURL string) (models.Metadata, error) {
	normalized := links.Normalize(rawURL)
	if normalized.URL == "" {
		return models.Metadata{}, fmt.Errorf("%w: not a URL: %q", shared.ErrInvalidInput, rawURL)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return models.Metadata{}, fmt.Errorf("%w: %w", shared.ErrMetadataLookup, err)
		}
	}

	endpoint := s.Endpoint(normalized.Provider)
	query := url.Values{"url": {normalized.URL}, "format": {"json"}}

	var resp OEmbedResponse
	if err := s.doRequest(ctx, endpoint+"?"+query.Encode(), &resp); err != nil {
		return models.Metadata{}, err
	}
	if resp.Error != "" {
		return models.Metadata{}, fmt.Errorf("%w: %s", shared.ErrMetadataLookup, resp.Error)
	}

	meta := models.Metadata{
		Title:        strings.TrimSpace(resp.Title),
		ThumbnailURL: resp.ThumbnailURL,
		Author:       strings.TrimSpace(resp.AuthorName),
	}
	if meta.ThumbnailURL == "" && normalized.Provider == links.ProviderYouTube && normalized.VideoID != "" {
		meta.ThumbnailURL = YouTubeThumbnail(normalized.VideoID)
	}
	if meta.Title == "" && meta.ThumbnailURL == "" {
		return models.Metadata{}, fmt.Errorf("%w: empty oEmbed response for %s", shared.ErrMetadataLookup, normalized.URL)
	}

	return meta, nil
}

func (s *OEmbedService) doRequest(ctx context.Context, apiURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: oEmbed status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrMetadataLookup, err)
	}

	return nil
}

// YouTubeThumbnail returns the high quality still image URL for a YouTube video id.
func YouTubeThumbnail(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

var _ MetadataFetcher = (*OEmbedService)(nil)
