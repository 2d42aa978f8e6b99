package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// pngHeader is a minimal binary signature so MIME sniffing sees an image.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func testPolicy() *policy.Policy {
	return &policy.Policy{
		MaxFileSize:         8192,
		SizeLimits:          map[string]int64{},
		ExcludedExtensions:  policy.NewExtensionSet([]string{".exe"}),
		ExcludedDirectories: policy.NewSet([]string{"node_modules"}),
		ExcludedFiles:       policy.NewSet([]string{".DS_Store"}),
		TextExtensions:      policy.NewExtensionSet([]string{".txt", ".go", ".md"}),
	}
}

func writeTestFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func newScanner(t *testing.T, opts Options) *Scanner {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name        string
		workers     int
		wantWorkers int
	}{
		{name: "zero defaults", workers: 0, wantWorkers: 4},
		{name: "negative clamps to min", workers: -3, wantWorkers: 1},
		{name: "oversized clamps to max", workers: 64, wantWorkers: 16},
		{name: "in range unchanged", workers: 8, wantWorkers: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Workers: tt.workers}
			if err := opts.Validate(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.Workers != tt.wantWorkers {
				t.Errorf("Workers: got %d, want %d", opts.Workers, tt.wantWorkers)
			}
			if opts.Root != "." {
				t.Errorf("Root: got %q, want %q", opts.Root, ".")
			}
		})
	}
}

// TestScanMixedRoot covers the canonical three-file scenario: one text
// file, one binary, one hidden, with hidden files disabled.
func TestScanMixedRoot(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", []byte(strings.Repeat("x", 50)))
	writeTestFile(t, root, "b.bin", pngHeader)
	writeTestFile(t, root, ".hidden.txt", []byte("secret"))

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if got := filepath.Base(result.Files[0].Path); got != "a.txt" {
		t.Errorf("expected a.txt, got %s", got)
	}
	if result.Stats.TotalPaths != 3 {
		t.Errorf("TotalPaths: got %d, want 3", result.Stats.TotalPaths)
	}
	if result.Stats.FilesScanned != 1 {
		t.Errorf("FilesScanned: got %d, want 1", result.Stats.FilesScanned)
	}
	if result.Stats.FilesSkipped != 2 {
		t.Errorf("FilesSkipped: got %d, want 2", result.Stats.FilesSkipped)
	}
	if result.Stats.IncludeHidden {
		t.Error("IncludeHidden should echo the policy flag (false)")
	}
}

// TestScanCompleteness verifies scanned + skipped == total after any scan.
func TestScanCompleteness(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "one.txt", []byte("one"))
	writeTestFile(t, root, "two.md", []byte("two"))
	writeTestFile(t, root, "blob.bin", pngHeader)
	writeTestFile(t, root, ".env", []byte("hidden"))
	writeTestFile(t, root, "sub/three.go", []byte("package three"))

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := result.Stats.FilesScanned + result.Stats.FilesSkipped
	if got != result.Stats.TotalPaths {
		t.Errorf("scanned(%d) + skipped(%d) != total(%d)",
			result.Stats.FilesScanned, result.Stats.FilesSkipped, result.Stats.TotalPaths)
	}
}

// TestScanExcludedDirPruned verifies that an excluded directory's
// descendants never appear anywhere: not in files, not in the totals.
func TestScanExcludedDirPruned(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "top.txt", []byte("top"))
	for i := 0; i < 100; i++ {
		writeTestFile(t, root, filepath.Join("node_modules", "dep", "f"+string(rune('a'+i%26))+".txt"), []byte("dep"))
	}

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Stats.TotalPaths != 1 {
		t.Errorf("TotalPaths: got %d, want 1 (pruned subtree must not be enumerated)", result.Stats.TotalPaths)
	}
	for _, f := range result.Files {
		if strings.Contains(f.Path, "node_modules") {
			t.Errorf("pruned file leaked into results: %s", f.Path)
		}
	}
}

// TestScanSizeLimitTruncates verifies oversized files are truncated to
// exactly the per-extension limit, not rejected.
func TestScanSizeLimitTruncates(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "big.txt", []byte(strings.Repeat("a", 10000)))

	pol := testPolicy()
	pol.SizeLimits[".txt"] = 100

	s := newScanner(t, Options{Root: root, Policy: pol})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if got := len(result.Files[0].Content); got != 100 {
		t.Errorf("content length: got %d, want exactly 100", got)
	}
	// Size reports the on-disk size, not the truncated length.
	if result.Files[0].Size != 10000 {
		t.Errorf("Size: got %d, want 10000", result.Files[0].Size)
	}
}

// TestScanEmptyDir verifies the zero-candidate short circuit: empty
// result, zeroed stats, and the final progress event still fired once.
func TestScanEmptyDir(t *testing.T) {
	var mu sync.Mutex
	var events []types.Progress

	s := newScanner(t, Options{
		Root:   t.TempDir(),
		Policy: testPolicy(),
		OnProgress: func(p types.Progress) {
			mu.Lock()
			events = append(events, p)
			mu.Unlock()
		},
	})

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Files) != 0 {
		t.Errorf("expected no files, got %d", len(result.Files))
	}
	if result.Stats.TotalPaths != 0 || result.Stats.FilesScanned != 0 || result.Stats.FilesSkipped != 0 {
		t.Errorf("expected zeroed stats, got %+v", result.Stats)
	}
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 progress event, got %d", len(events))
	}
	p := events[0]
	if p.Completed != 0 || p.Total != 0 || p.Processed != 0 || p.Skipped != 0 {
		t.Errorf("expected (0,0,0,0), got %+v", p)
	}
}

// TestScanWorkerCounts verifies identical stats and path sets for worker
// counts 1, 4, and 16 over the same tree.
func TestScanWorkerCounts(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", []byte("alpha"))
	writeTestFile(t, root, "b.txt", []byte("beta"))
	writeTestFile(t, root, "c.bin", pngHeader)
	writeTestFile(t, root, "sub/d.md", []byte("# delta"))
	writeTestFile(t, root, "sub/deep/e.go", []byte("package e"))
	writeTestFile(t, root, ".f.txt", []byte("hidden"))

	var wantStats *types.ScanStats
	var wantPaths []string

	for _, workers := range []int{1, 4, 16} {
		s := newScanner(t, Options{Root: root, Policy: testPolicy(), Workers: workers})
		result, err := s.Scan(context.Background())
		if err != nil {
			t.Fatalf("Scan with %d workers failed: %v", workers, err)
		}

		paths := make([]string, len(result.Files))
		for i, f := range result.Files {
			paths[i] = f.Path
		}
		sort.Strings(paths)

		if wantStats == nil {
			wantStats = &result.Stats
			wantPaths = paths
			continue
		}
		if result.Stats != *wantStats {
			t.Errorf("workers=%d: stats %+v, want %+v", workers, result.Stats, *wantStats)
		}
		if len(paths) != len(wantPaths) {
			t.Fatalf("workers=%d: %d paths, want %d", workers, len(paths), len(wantPaths))
		}
		for i := range paths {
			if paths[i] != wantPaths[i] {
				t.Errorf("workers=%d: path[%d]=%s, want %s", workers, i, paths[i], wantPaths[i])
			}
		}
	}
}

// TestScanProgressEvents verifies one event per candidate plus the final
// completion event with counts equal to the total.
func TestScanProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", []byte("a"))
	writeTestFile(t, root, "b.txt", []byte("b"))
	writeTestFile(t, root, "c.bin", pngHeader)

	var mu sync.Mutex
	var events []types.Progress

	s := newScanner(t, Options{
		Root:   root,
		Policy: testPolicy(),
		OnProgress: func(p types.Progress) {
			mu.Lock()
			events = append(events, p)
			mu.Unlock()
		},
	})

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// 3 per-item events plus 1 final.
	if len(events) != 4 {
		t.Fatalf("expected 4 progress events, got %d", len(events))
	}

	var finals int
	for _, p := range events {
		if p.Completed > p.Total {
			t.Errorf("completed %d exceeds total %d", p.Completed, p.Total)
		}
		if p.CurrentPath == "Scan Complete" {
			finals++
			if p.Completed != result.Stats.TotalPaths {
				t.Errorf("final event completed=%d, want %d", p.Completed, result.Stats.TotalPaths)
			}
			if p.Processed != result.Stats.FilesScanned || p.Skipped != result.Stats.FilesSkipped {
				t.Errorf("final event counters %+v do not match stats %+v", p, result.Stats)
			}
		}
	}
	if finals != 1 {
		t.Errorf("expected exactly 1 completion event, got %d", finals)
	}
}

func TestScanInvalidRoot(t *testing.T) {
	s := newScanner(t, Options{
		Root:   filepath.Join(t.TempDir(), "does-not-exist"),
		Policy: testPolicy(),
	})

	_, err := s.Scan(context.Background())
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "file.txt", []byte("x"))

	s := newScanner(t, Options{
		Root:   filepath.Join(root, "file.txt"),
		Policy: testPolicy(),
	})

	_, err := s.Scan(context.Background())
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
}

// TestScanReadErrorStillProduceRecord verifies unreadable text files
// appear in output with a diagnostic placeholder and count as scanned.
func TestScanReadErrorStillProducesRecord(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeTestFile(t, root, "locked.txt", []byte("cannot touch this"))
	if err := os.Chmod(filepath.Join(root, "locked.txt"), 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Stats.FilesScanned != 1 {
		t.Fatalf("FilesScanned: got %d, want 1 (read errors count as scanned)", result.Stats.FilesScanned)
	}
	if !strings.HasPrefix(result.Files[0].Content, "[Error reading file:") {
		t.Errorf("expected error placeholder content, got %q", result.Files[0].Content)
	}
}

// TestScanHiddenIncluded verifies the include-hidden flags open up both
// hidden files and hidden directories.
func TestScanHiddenIncluded(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, ".hidden.txt", []byte("now visible"))
	writeTestFile(t, root, ".config/inner.txt", []byte("nested"))

	pol := testPolicy()
	pol.IncludeHiddenFiles = true
	pol.IncludeHiddenDirs = true

	s := newScanner(t, Options{Root: root, Policy: pol})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Stats.FilesScanned != 2 {
		t.Errorf("FilesScanned: got %d, want 2", result.Stats.FilesScanned)
	}
	if !result.Stats.IncludeHidden {
		t.Error("IncludeHidden should echo the policy flag (true)")
	}
	for _, f := range result.Files {
		if filepath.Base(f.Path) == ".hidden.txt" && !f.IsHidden {
			t.Error("expected IsHidden=true for dot file")
		}
	}
}

// TestScanReinvokable verifies counters reset between scans on the same
// engine instance while the verdict cache persists.
func TestScanReinvokable(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.txt", []byte("a"))
	writeTestFile(t, root, "b.bin", pngHeader)

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})

	first, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	second, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}

	if first.Stats != second.Stats {
		t.Errorf("stats differ across runs: %+v vs %+v", first.Stats, second.Stats)
	}

	// The binary verdict is served from cache on the second run.
	if s.CacheStats().Hits == 0 {
		t.Error("expected verdict cache hits on repeat scan")
	}
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeTestFile(t, root, filepath.Join("d", "f"+string(rune('a'+i))+".txt"), []byte("data"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newScanner(t, Options{Root: root, Policy: testPolicy()})
	_, err := s.Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
