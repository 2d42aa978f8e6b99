package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// Options controls how a report is rendered and persisted.
type Options struct {
	// Format names the registered formatter to render with.
	Format string

	// Compression selects the codec applied to the rendered report.
	Compression Compression

	// Level is the compression level; zero means the codec default.
	Level int
}

// Writer renders a scan result and persists it to disk. Compression is
// a capability of the writer, not of individual formatters, so every
// format composes with every codec.
type Writer struct {
	registry *Registry
}

// NewWriter creates a writer backed by the default formatter registry.
func NewWriter() *Writer {
	return &Writer{registry: DefaultRegistry}
}

// NewWriterWithRegistry creates a writer backed by a custom registry.
func NewWriterWithRegistry(reg *Registry) *Writer {
	return &Writer{registry: reg}
}

// Write renders the result with the configured formatter, applies the
// compression codec, and writes the report to path. The codec's
// extension is appended to path unless already present. It returns the
// final path the report was written to.
func (w *Writer) Write(r *types.Result, path string, opts Options) (string, error) {
	formatter, err := w.registry.Get(opts.Format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return "", fmt.Errorf("format %s: %w", opts.Format, err)
	}

	finalPath := FinalPath(path, opts.Compression)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	cw, err := opts.Compression.NewWriter(f, opts.Level)
	if err != nil {
		f.Close()
		os.Remove(finalPath)
		return "", err
	}

	if _, err := cw.Write(buf.Bytes()); err != nil {
		cw.Close()
		f.Close()
		os.Remove(finalPath)
		return "", fmt.Errorf("write report: %w", err)
	}

	// Close the codec before the file so the stream is flushed.
	if err := cw.Close(); err != nil {
		f.Close()
		os.Remove(finalPath)
		return "", fmt.Errorf("finalize report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}

	return finalPath, nil
}

// FinalPath returns path with the codec's extension appended, unless
// path already carries it.
func FinalPath(path string, c Compression) string {
	ext := c.Ext()
	if ext == "" || strings.HasSuffix(path, ext) {
		return path
	}
	return path + ext
}
