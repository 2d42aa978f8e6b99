package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhalloway/textgrab/pkg/textgrab/cache"
	"github.com/dhalloway/textgrab/pkg/textgrab/enumerate"
	"github.com/dhalloway/textgrab/pkg/textgrab/logging"
	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
	"github.com/dhalloway/textgrab/pkg/textgrab/reader"
	"github.com/dhalloway/textgrab/pkg/textgrab/textclass"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// ErrInvalidRoot is returned when the scan root does not exist or is not
// a directory.
var ErrInvalidRoot = errors.New("scan root is not a directory")

// completeLabel is the CurrentPath value of the final progress event.
const completeLabel = "Scan Complete"

var logger = logging.Get("scanner")

// Scanner is the scan engine. One instance owns its classification cache
// and can run many scans; counters reset at the start of each Scan call.
// A Scanner must not run two Scans concurrently.
type Scanner struct {
	opts       Options
	classifier *textclass.Classifier
	verdicts   *cache.Cache

	// Atomic counters shared by worker goroutines.
	processed atomic.Int64
	skipped   atomic.Int64
	total     int64

	results   []types.FileRecord
	resultsMu sync.Mutex

	errors   []types.ScanError
	errorsMu sync.Mutex
}

// New creates a scan engine with the given options. Options are
// validated and defaults applied.
func New(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	verdicts, err := cache.New(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating verdict cache: %w", err)
	}
	if opts.VerdictStore != nil {
		verdicts.WithStore(opts.VerdictStore)
	}

	return &Scanner{
		opts:       opts,
		verdicts:   verdicts,
		classifier: textclass.New(opts.Policy, verdicts),
	}, nil
}

// SetProgressCallback registers the progress callback. It must be called
// before Scan; the callback fires from multiple worker goroutines.
func (s *Scanner) SetProgressCallback(fn func(types.Progress)) {
	s.opts.OnProgress = fn
}

// Scan runs one full scan and blocks until it completes or the context
// is cancelled. On cancellation the partial result is returned together
// with the context error: scheduling stops, in-flight tasks finish.
//
// No timeout is imposed on a single file read; a wedged filesystem call
// stalls that worker indefinitely.
func (s *Scanner) Scan(ctx context.Context) (*types.Result, error) {
	start := time.Now()

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}

	// Snapshot the policy so UI mutations cannot tear this scan.
	pol := s.opts.Policy.Snapshot()

	s.reset()

	candidates, err := enumerate.Enumerate(ctx, root, pol, s.addError)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, err)
	}
	s.total = int64(len(candidates))
	logger.Debug("enumeration complete", "root", root, "candidates", s.total)

	if s.total == 0 {
		s.reportProgress(completeLabel)
		return s.buildResult(pol, start), nil
	}

	scanErr := s.dispatch(ctx, pol, candidates)

	if scanErr == nil {
		// Final progress event, fired exactly once, with counts equal
		// to the candidate total.
		s.reportProgress(completeLabel)
	}

	result := s.buildResult(pol, start)
	logger.Info("scan finished",
		"root", root,
		"scanned", result.Stats.FilesScanned,
		"skipped", result.Stats.FilesSkipped,
		"elapsed", result.Elapsed)
	return result, scanErr
}

// dispatch fans candidates out to the worker pool. Dispatch order follows
// enumeration order; completion order is unspecified.
func (s *Scanner) dispatch(ctx context.Context, pol *policy.Policy, candidates []enumerate.Candidate) error {
	tasks := make(chan string)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(tasks)
		for _, c := range candidates {
			select {
			case tasks <- c.Path:
			case <-gctx.Done():
				// Stop scheduling; workers drain what is in flight.
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			for path := range tasks {
				s.processCandidate(pol, path)
			}
			return nil
		})
	}

	return g.Wait()
}

// processCandidate runs the per-file pipeline: policy check, text
// classification, bounded read. Any fault inside the task, including a
// panic, is absorbed at this boundary and counted as skipped so sibling
// tasks and the scan itself never abort.
func (s *Scanner) processCandidate(pol *policy.Policy, path string) {
	defer func() {
		if r := recover(); r != nil {
			s.addError(path, fmt.Errorf("task panic: %v", r))
			s.skipped.Add(1)
			s.reportProgress(path)
		}
	}()

	if !pol.ShouldProcessFile(path) || !s.classifier.IsText(path) {
		s.skipped.Add(1)
		s.reportProgress(path)
		return
	}

	record := s.buildRecord(pol, path)

	s.resultsMu.Lock()
	s.results = append(s.results, record)
	s.resultsMu.Unlock()

	s.processed.Add(1)
	s.reportProgress(path)
}

// buildRecord reads bounded content and assembles the FileRecord. Read
// failures produce a record carrying a diagnostic placeholder; such
// files count as scanned, not skipped, so they stay visible in output.
func (s *Scanner) buildRecord(pol *policy.Policy, path string) types.FileRecord {
	record := types.FileRecord{
		Path:      path,
		Extension: policy.Ext(path),
		IsHidden:  policy.IsHidden(path),
	}

	if info, err := os.Lstat(path); err == nil {
		record.Size = info.Size()
		record.ModTime = info.ModTime()
	}

	content, err := reader.ReadBounded(path, pol.SizeLimitFor(path), s.opts.ChunkSize)
	if err != nil {
		s.addError(path, err)
		record.Content = reader.ErrorPlaceholder(err)
		return record
	}

	record.Content = strings.TrimSpace(content)
	return record
}

// buildResult assembles the immutable terminal aggregate.
func (s *Scanner) buildResult(pol *policy.Policy, start time.Time) *types.Result {
	return &types.Result{
		Files: s.results,
		Stats: types.ScanStats{
			TotalPaths:    s.total,
			FilesScanned:  s.processed.Load(),
			FilesSkipped:  s.skipped.Load(),
			IncludeHidden: pol.IncludeHiddenFiles,
		},
		Elapsed: time.Since(start),
		Errors:  s.errors,
	}
}

// validateRoot resolves the root path to absolute and verifies it is an
// existing directory. Failures here are fatal: no partial scan runs.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	return root, nil
}

// reset clears per-scan state so the engine is re-invokable.
func (s *Scanner) reset() {
	s.processed.Store(0)
	s.skipped.Store(0)
	s.total = 0
	s.results = make([]types.FileRecord, 0)
	s.errors = nil
}

// addError records a non-fatal error thread-safely.
func (s *Scanner) addError(path string, err error) {
	s.errorsMu.Lock()
	s.errors = append(s.errors, types.ScanError{Path: path, Error: err.Error()})
	s.errorsMu.Unlock()
}

// reportProgress invokes the progress callback with a counter snapshot.
// Callbacks fire from whichever worker completed the item.
func (s *Scanner) reportProgress(label string) {
	if s.opts.OnProgress == nil {
		return
	}

	processed := s.processed.Load()
	skipped := s.skipped.Load()
	s.opts.OnProgress(types.Progress{
		Completed:   processed + skipped,
		Total:       s.total,
		Processed:   processed,
		Skipped:     skipped,
		CurrentPath: label,
	})
}

// ClearCache drops all memoized classification verdicts.
func (s *Scanner) ClearCache() error {
	return s.classifier.ClearCache()
}

// CacheStats returns verdict cache hit/miss/size counters.
func (s *Scanner) CacheStats() cache.Stats {
	return s.classifier.CacheStats()
}

// Close releases the verdict store, if one was attached.
func (s *Scanner) Close() error {
	return s.verdicts.Close()
}
