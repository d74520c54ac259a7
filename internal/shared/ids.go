package shared

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for new playlists and videos.
type IDGenerator interface {
	NewID(prefix string) string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to [Clock].
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// RandomIDs produces "<prefix>_<hex>" identifiers backed by a v4 [uuid.UUID].
//
// When the system random source is unavailable it falls back to a base36 timestamp followed by a pseudo-random suffix.
type RandomIDs struct {
	clock Clock
}

// NewRandomIDs creates a [RandomIDs] using clock for the fallback path. A nil clock uses [SystemClock].
func NewRandomIDs(clock Clock) *RandomIDs {
	if clock == nil {
		clock = SystemClock
	}
	return &RandomIDs{clock: clock}
}

// NewID returns a fresh identifier beginning with prefix + "_".
func (g *RandomIDs) NewID(prefix string) string {
	u, err := uuid.NewRandom()
	if err != nil {
		return prefix + "_" + g.fallback()
	}
	return prefix + "_" + strings.ReplaceAll(u.String(), "-", "")
}

func (g *RandomIDs) fallback() string {
	clock := g.clock
	if clock == nil {
		clock = SystemClock
	}
	ts := strconv.FormatInt(clock.Now().UnixMilli(), 36)
	return ts + strconv.FormatUint(rand.Uint64(), 36)
}
