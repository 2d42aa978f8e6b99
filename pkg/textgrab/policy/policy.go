// Package policy implements the inclusion/exclusion rules that decide
// which files and directories take part in a scan. A Policy is a pure
// configuration snapshot: its decision functions are stateless and safe
// to call from any goroutine once the snapshot is taken.
package policy

import (
	"path/filepath"
	"strings"
)

// Policy is the configured rule set for one scan. It is read-only for
// the duration of a scan; callers mutating a shared policy concurrently
// must hand the scanner a Snapshot instead.
type Policy struct {
	// MaxFileSize is the default cap in bytes on how much content is
	// read from a single file.
	MaxFileSize int64

	// SizeLimits maps lowercased extensions (with dot) to per-extension
	// read caps that override MaxFileSize.
	SizeLimits map[string]int64

	// IncludeHiddenFiles admits files whose name starts with a dot.
	IncludeHiddenFiles bool

	// IncludeHiddenDirs descends into directories whose name starts
	// with a dot.
	IncludeHiddenDirs bool

	// ExcludedExtensions rejects files by lowercased extension.
	ExcludedExtensions map[string]struct{}

	// ExcludedDirectories prunes directories by exact name.
	ExcludedDirectories map[string]struct{}

	// ExcludedFiles rejects files by exact name.
	ExcludedFiles map[string]struct{}

	// TextExtensions is the known-text extension set used as the
	// classifier fast path.
	TextExtensions map[string]struct{}
}

// Snapshot returns a deep copy of the policy. The scanner takes one at
// scan start so a UI mutating the live policy cannot tear a running scan.
func (p *Policy) Snapshot() *Policy {
	cp := &Policy{
		MaxFileSize:         p.MaxFileSize,
		SizeLimits:          make(map[string]int64, len(p.SizeLimits)),
		IncludeHiddenFiles:  p.IncludeHiddenFiles,
		IncludeHiddenDirs:   p.IncludeHiddenDirs,
		ExcludedExtensions:  make(map[string]struct{}, len(p.ExcludedExtensions)),
		ExcludedDirectories: make(map[string]struct{}, len(p.ExcludedDirectories)),
		ExcludedFiles:       make(map[string]struct{}, len(p.ExcludedFiles)),
		TextExtensions:      make(map[string]struct{}, len(p.TextExtensions)),
	}
	for k, v := range p.SizeLimits {
		cp.SizeLimits[k] = v
	}
	for k := range p.ExcludedExtensions {
		cp.ExcludedExtensions[k] = struct{}{}
	}
	for k := range p.ExcludedDirectories {
		cp.ExcludedDirectories[k] = struct{}{}
	}
	for k := range p.ExcludedFiles {
		cp.ExcludedFiles[k] = struct{}{}
	}
	for k := range p.TextExtensions {
		cp.TextExtensions[k] = struct{}{}
	}
	return cp
}

// ShouldProcessFile reports whether a file is eligible for content
// classification. Rules are evaluated in precedence order: hidden check,
// excluded file names, excluded extensions. Extension comparison is
// case-insensitive; name comparison is case-sensitive.
func (p *Policy) ShouldProcessFile(path string) bool {
	name := filepath.Base(path)

	if !p.IncludeHiddenFiles && strings.HasPrefix(name, ".") {
		return false
	}
	if _, ok := p.ExcludedFiles[name]; ok {
		return false
	}
	if _, ok := p.ExcludedExtensions[Ext(path)]; ok {
		return false
	}
	return true
}

// ShouldEnterDirectory reports whether the enumerator descends into a
// directory. Pruned directories contribute no candidates at any depth.
func (p *Policy) ShouldEnterDirectory(path string) bool {
	name := filepath.Base(path)

	if !p.IncludeHiddenDirs && strings.HasPrefix(name, ".") {
		return false
	}
	if _, ok := p.ExcludedDirectories[name]; ok {
		return false
	}
	return true
}

// SizeLimitFor returns the read cap in bytes for a file, honoring
// per-extension overrides before falling back to MaxFileSize.
func (p *Policy) SizeLimitFor(path string) int64 {
	if limit, ok := p.SizeLimits[Ext(path)]; ok {
		return limit
	}
	return p.MaxFileSize
}

// IsKnownTextExtension reports whether the file extension is in the
// known-text set, allowing classification without any I/O.
func (p *Policy) IsKnownTextExtension(path string) bool {
	_, ok := p.TextExtensions[Ext(path)]
	return ok
}

// Ext returns the lowercased extension of a path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsHidden reports whether the base name of a path starts with a dot.
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// NewSet builds a string set from a slice, useful when converting
// configuration lists into policy sets.
func NewSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// NewExtensionSet builds a set of lowercased extensions from a slice,
// normalizing entries that are missing the leading dot.
func NewExtensionSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		ext := strings.ToLower(strings.TrimSpace(item))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
