// Package enumerate walks a directory tree and produces the flat list
// of candidate files for a scan, applying the policy's directory rules
// to prune whole subtrees before any file work happens.
package enumerate

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
)

// Candidate is a filesystem entry discovered during enumeration.
// Candidates are produced here and consumed read-only by scan workers.
type Candidate struct {
	// Path is the full path to the entry.
	Path string

	// IsDir distinguishes directories from files. The candidate list
	// returned by Enumerate contains files only.
	IsDir bool
}

// ErrorFunc receives non-fatal enumeration errors, such as a directory
// that could not be listed. The directory simply yields no children; the
// walk continues with its siblings.
type ErrorFunc func(path string, err error)

// Enumerate walks the tree rooted at root and returns every regular file
// in directories the policy allows. Pruned directories contribute no
// candidates at any depth. Symbolic links are never followed, so link
// cycles cannot loop the traversal.
//
// The returned list is sorted lexicographically by path, making the
// result deterministic for a fixed filesystem snapshot even though the
// underlying walk visits directories in parallel.
func Enumerate(ctx context.Context, root string, pol *policy.Policy, onError ErrorFunc) ([]Candidate, error) {
	conf := fastwalk.Config{
		Follow: false,
	}

	var mu sync.Mutex
	var candidates []Candidate

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			return nil
		}

		if d.IsDir() {
			if path != root && !pol.ShouldEnterDirectory(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		mu.Lock()
		candidates = append(candidates, Candidate{Path: path})
		mu.Unlock()
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return nil, walkErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}
