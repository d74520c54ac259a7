package share

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// DefaultMaxInflatedSize caps how much a token may expand to when decoded.
const DefaultMaxInflatedSize = 8 << 20

// Compressor compresses and decompresses token payloads.
//
// Both directions must agree on the stream format.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// FlateCompressor produces raw (headerless) DEFLATE streams.
type FlateCompressor struct {
	Level   int
	MaxSize int64
}

// NewFlateCompressor returns a [FlateCompressor] at maximum compression.
func NewFlateCompressor() *FlateCompressor {
	return &FlateCompressor{Level: flate.BestCompression, MaxSize: DefaultMaxInflatedSize}
}

func (c *FlateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, c.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data, failing when the output exceeds MaxSize.
func (c *FlateCompressor) Decompress(data []byte) ([]byte, error) {
	limit := c.MaxSize
	if limit <= 0 {
		limit = DefaultMaxInflatedSize
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to inflate: %w", err)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("inflated payload exceeds %d bytes", limit)
	}
	return out, nil
}

var _ Compressor = (*FlateCompressor)(nil)
