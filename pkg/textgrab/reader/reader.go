// Package reader performs bounded, chunked reads of file content into
// decoded text buffers. It never loads more than the configured limit
// into memory, so arbitrarily large files are safe to sample.
package reader

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultChunkSize is the read chunk size used when none is configured.
const DefaultChunkSize = 4096

// ReadBounded reads at most limit bytes from the start of the file at
// path, in chunks of chunkSize, and decodes the buffer as UTF-8.
// Invalid byte sequences are dropped rather than failing; a file full of
// binary garbage decodes to an empty string, never an error.
//
// The byte count read from disk never exceeds limit, so callers can rely
// on len(raw bytes) <= limit regardless of how the decode shrinks it.
func ReadBounded(path string, limit int64, chunkSize int) (string, error) {
	if limit <= 0 {
		return "", nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	chunk := make([]byte, chunkSize)
	var read int64

	for read < limit {
		want := int64(chunkSize)
		if remaining := limit - read; remaining < want {
			want = remaining
		}

		n, err := f.Read(chunk[:want])
		if n > 0 {
			buf.Write(chunk[:n])
			read += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
	}

	return strings.ToValidUTF8(buf.String(), ""), nil
}

// ErrorPlaceholder formats the diagnostic content stored in a FileRecord
// when its file could not be read. Records carrying a placeholder still
// appear in output; unreadable text files are not silently dropped.
func ErrorPlaceholder(err error) string {
	return fmt.Sprintf("[Error reading file: %v]", err)
}
