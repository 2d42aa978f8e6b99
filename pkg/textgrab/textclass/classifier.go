// Package textclass decides whether a file holds text or binary content.
// Classification short-circuits in order of cost: known extension (no
// I/O), cached verdict, then a MIME signature sniff of the file header.
package textclass

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dhalloway/textgrab/pkg/textgrab/cache"
	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
)

// structuredTextTypes are non-"text/" media types still treated as text.
var structuredTextTypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"application/x-sh",
	"application/x-python",
	"application/x-perl",
	"application/x-ruby",
	"application/x-php",
}

// Classifier produces deterministic text/binary verdicts for paths.
// It is safe for concurrent use by scan workers.
type Classifier struct {
	pol      *policy.Policy
	verdicts *cache.Cache

	sniffs atomic.Int64
}

// New creates a classifier over the given policy's known-text extension
// set, memoizing sniff verdicts in the given cache.
func New(pol *policy.Policy, verdicts *cache.Cache) *Classifier {
	return &Classifier{pol: pol, verdicts: verdicts}
}

// IsText reports whether the file at path holds textual content.
// Sniffing failures classify as non-text and are cached, so a repeatedly
// unreadable file costs one sniff, not one per scan (fail-closed).
func (c *Classifier) IsText(path string) bool {
	if c.pol.IsKnownTextExtension(path) {
		return true
	}

	key := cacheKey(path)
	if verdict, ok := c.verdicts.Get(key); ok {
		return verdict
	}

	verdict := c.sniff(path)
	c.verdicts.Put(key, verdict)
	return verdict
}

// sniff reads the file signature and inspects the detected media type.
func (c *Classifier) sniff(path string) bool {
	c.sniffs.Add(1)

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return isTextMIME(mtype)
}

// isTextMIME reports whether a detected media type counts as text.
func isTextMIME(mtype *mimetype.MIME) bool {
	if strings.HasPrefix(mtype.String(), "text/") {
		return true
	}
	for _, t := range structuredTextTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

// SniffCount returns how many content sniffs have been performed. Cached
// verdicts do not increment it.
func (c *Classifier) SniffCount() int64 {
	return c.sniffs.Load()
}

// CacheStats returns the verdict cache counters.
func (c *Classifier) CacheStats() cache.Stats {
	return c.verdicts.Stats()
}

// ClearCache drops all memoized verdicts.
func (c *Classifier) ClearCache() error {
	return c.verdicts.Clear()
}

// cacheKey normalizes a path into the absolute string key used by the
// verdict cache.
func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
