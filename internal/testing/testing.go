// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/vidshelf/internal/models"
)

// SequentialIDs mints "<prefix>_<n>" identifiers with a counter shared across prefixes.
type SequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *SequentialIDs) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

// FixedClock returns a settable instant.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{t: t} }

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Epoch is the instant used by [NewFixedClock] in most tests.
var Epoch = time.UnixMilli(1_700_000_000_000)

// MemoryBlobs is an in-memory blob store with failure injection.
type MemoryBlobs struct {
	mu     sync.Mutex
	data   map[string][]byte
	Writes int
	GetErr error
	SetErr error
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{data: make(map[string][]byte)}
}

func (m *MemoryBlobs) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBlobs) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Writes++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// StubFetcher returns canned metadata per URL, or Err for every call when set.
type StubFetcher struct {
	mu      sync.Mutex
	Results map[string]models.Metadata
	Err     error
	Delay   time.Duration
	Calls   []string
}

func (s *StubFetcher) Lookup(ctx context.Context, url string) (models.Metadata, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, url)
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return models.Metadata{}, ctx.Err()
		}
	}
	if s.Err != nil {
		return models.Metadata{}, s.Err
	}
	return s.Results[url], nil
}

// Item builds a [models.VideoItem] for tests.
func Item(id, url, videoID string, tags ...string) *models.VideoItem {
	if tags == nil {
		tags = []string{}
	}
	return &models.VideoItem{ID: id, URL: url, VideoID: videoID, Tags: tags, AddedAt: models.TimestampOf(Epoch)}
}

// State builds a [models.CollectionState] selecting the first playlist.
func State(playlists ...*models.Playlist) *models.CollectionState {
	state := &models.CollectionState{Version: models.StateVersion, Playlists: playlists}
	if len(playlists) > 0 {
		state.SelectedPlaylistID = playlists[0].ID
	}
	return state
}

// Playlist builds a [models.Playlist] holding items in the given order.
func Playlist(id, name string, items ...*models.VideoItem) *models.Playlist {
	if items == nil {
		items = []*models.VideoItem{}
	}
	return &models.Playlist{ID: id, Name: name, CreatedAt: models.TimestampOf(Epoch), Items: items}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

var _ io.Writer = (*FWriter)(nil)

// LimitedWriter fails once maxWrites writes have gone through
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
