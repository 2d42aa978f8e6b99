package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies an output compression codec.
type Compression string

// Supported codecs.
const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionXZ   Compression = "xz"
)

// DefaultCompressionLevel is used when no level is configured.
const DefaultCompressionLevel = 6

// AutoCompressThreshold is the estimated report size in bytes above
// which compression is recommended.
const AutoCompressThreshold = 1 << 20

// ErrUnknownCompression is returned for unrecognized codec names.
var ErrUnknownCompression = fmt.Errorf("unknown compression codec")

// ParseCompression parses a codec name. Empty means none.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "xz", "lzma":
		return CompressionXZ, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// Ext returns the file extension the codec appends, including the dot,
// or the empty string for no compression.
func (c Compression) Ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	case CompressionXZ:
		return ".xz"
	default:
		return ""
	}
}

// NewWriter wraps w in the codec's compressing writer. The caller must
// Close the returned writer to flush the stream. Level is clamped to
// the codec's valid range; zero means DefaultCompressionLevel.
func (c Compression) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level <= 0 {
		level = DefaultCompressionLevel
	}

	switch c {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		if level > gzip.BestCompression {
			level = gzip.BestCompression
		}
		return gzip.NewWriterLevel(w, level)
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	case CompressionXZ:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}

// ShouldAutoCompress reports whether an estimated report size warrants
// compression.
func ShouldAutoCompress(estimatedSize int64) bool {
	return estimatedSize > AutoCompressThreshold
}

// nopWriteCloser adapts a plain writer to io.WriteCloser.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
