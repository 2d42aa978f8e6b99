// Package types provides core data types for the textgrab scanner.
// It includes structures for file records, scan results, progress reporting,
// along with utility functions for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// FileRecord is the result of successfully processing one file.
// It is immutable once constructed and appended exactly once to the
// result collection.
type FileRecord struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// Content is the UTF-8 decoded file content, possibly truncated to
	// the configured size limit. When the file could not be read it
	// carries a diagnostic placeholder instead of real content.
	Content string `json:"content" yaml:"content"`

	// Size is the file size in bytes as reported by the filesystem,
	// not the length of Content.
	Size int64 `json:"size" yaml:"size"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"modified" yaml:"modified"`

	// Extension is the lowercased file extension including the dot.
	Extension string `json:"extension" yaml:"extension"`

	// IsHidden reports whether the file name starts with a dot.
	IsHidden bool `json:"is_hidden" yaml:"is_hidden"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (f *FileRecord) HumanSize() string {
	return FormatSize(f.Size)
}

// ScanStats contains the final counters of a scan operation.
// Invariant: FilesScanned + FilesSkipped == TotalPaths at completion.
type ScanStats struct {
	// TotalPaths is the number of candidate files enumerated.
	TotalPaths int64 `json:"total_paths" yaml:"total_paths"`

	// FilesScanned is the number of files that produced a FileRecord.
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`

	// FilesSkipped is the number of candidates rejected by the policy,
	// classified as binary, or failed inside a worker task.
	FilesSkipped int64 `json:"files_skipped" yaml:"files_skipped"`

	// IncludeHidden echoes the policy flag the scan ran with.
	IncludeHidden bool `json:"include_hidden" yaml:"include_hidden"`
}

// ScanError represents a non-fatal error encountered during scanning.
// It pairs a path with the error message for debugging and reporting.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path" yaml:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error" yaml:"error"`
}

// Result is the terminal aggregate of one scan invocation.
// It is immutable after construction and handed off to output writers.
// The order of Files is unspecified; consumers requiring a stable order
// must sort explicitly.
type Result struct {
	// Files contains one record per scanned text file.
	Files []FileRecord `json:"files" yaml:"files"`

	// Stats contains the final scan counters.
	Stats ScanStats `json:"stats" yaml:"stats"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Errors contains non-fatal errors encountered during the scan.
	Errors []ScanError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// TotalSize returns the sum of all file sizes in the result.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// compressionThreshold is the scanned-file count above which compressing
// the report is worthwhile.
const compressionThreshold = 10

// RecommendCompression reports whether the result is large enough that
// compressing the output is recommended.
func (r *Result) RecommendCompression() bool {
	return r.Stats.FilesScanned > compressionThreshold
}

// Progress is a snapshot of scan progress delivered to the progress
// callback. Callbacks fire from worker goroutines concurrently; receivers
// must serialize their own rendering.
type Progress struct {
	// Completed is the number of candidates fully handled so far
	// (scanned plus skipped).
	Completed int64 `json:"completed" yaml:"completed"`

	// Total is the number of candidates enumerated for this scan.
	Total int64 `json:"total" yaml:"total"`

	// Processed is the number of files scanned so far.
	Processed int64 `json:"processed" yaml:"processed"`

	// Skipped is the number of files skipped so far.
	Skipped int64 `json:"skipped" yaml:"skipped"`

	// CurrentPath is the path or label of the item just handled.
	CurrentPath string `json:"current_path" yaml:"current_path"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMG]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in
// bytes. It supports plain bytes ("8192"), byte suffixes ("512B"), and
// K/M/G multipliers with optional B/iB suffixes ("64K", "1.5MiB").
// Decimal values are truncated to the nearest byte.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
