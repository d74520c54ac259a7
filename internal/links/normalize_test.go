package links

import "testing"

func TestNormalize(t *testing.T) {
	tc := []struct {
		name     string
		input    string
		wantURL  string
		wantID   string
		provider Provider
	}{
		{
			name:     "watch page strips www and tracking",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&utm_source=share&feature=youtu.be",
			wantURL:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "watch page keeps playback params sorted",
			input:    "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=PL123&index=3&si=abc",
			wantURL:  "https://youtube.com/watch?index=3&list=PL123&t=42&v=dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "short link",
			input:    "https://youtu.be/dQw4w9WgXcQ?si=tracking&t=10",
			wantURL:  "https://youtu.be/dQw4w9WgXcQ?t=10",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "embed",
			input:    "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?start=5&autoplay=1",
			wantURL:  "https://youtube-nocookie.com/embed/dQw4w9WgXcQ?start=5",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "shorts",
			input:    "https://m.youtube.com/shorts/dQw4w9WgXcQ/",
			wantURL:  "https://m.youtube.com/shorts/dQw4w9WgXcQ/",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "uppercase host and fragment",
			input:    "https://WWW.YouTube.com/watch?v=dQw4w9WgXcQ#comments",
			wantURL:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			provider: ProviderYouTube,
		},
		{
			name:     "invalid youtube id",
			input:    "https://youtube.com/watch?v=short",
			wantURL:  "https://youtube.com/watch?v=short",
			provider: ProviderYouTube,
		},
		{
			name:     "vimeo",
			input:    "https://vimeo.com/76979871?share=copy",
			wantURL:  "https://vimeo.com/76979871",
			wantID:   "76979871",
			provider: ProviderVimeo,
		},
		{
			name:     "vimeo player",
			input:    "https://player.vimeo.com/video/76979871",
			wantURL:  "https://player.vimeo.com/video/76979871",
			wantID:   "76979871",
			provider: ProviderVimeo,
		},
		{
			name:    "unknown host still normalized",
			input:   "https://www.example.com/videos/1?utm_campaign=x&t=3",
			wantURL: "https://example.com/videos/1?t=3",
		},
		{
			name:    "repeated www prefix",
			input:   "https://www.www.example.com/x",
			wantURL: "https://example.com/x",
		},
		{
			name:    "not a url",
			input:   "my favourite talk",
			wantURL: "my favourite talk",
		},
		{
			name:    "relative path",
			input:   "/watch?v=dQw4w9WgXcQ",
			wantURL: "/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "empty",
			input:   "",
			wantURL: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.VideoID != tt.wantID {
				t.Errorf("VideoID = %q, want %q", got.VideoID, tt.wantID)
			}
			if got.Provider != tt.provider {
				t.Errorf("Provider = %q, want %q", got.Provider, tt.provider)
			}

			again := Normalize(got.URL)
			if again != got {
				t.Errorf("not idempotent: %+v then %+v", got, again)
			}
		})
	}
}
