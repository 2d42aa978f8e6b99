package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// tocLimit caps how many entries the table of contents lists.
const tocLimit = 20

// TextFormatter renders a human-readable plain text report with a
// header, a table of contents for larger scans, and one numbered
// section per file with line-numbered content.
type TextFormatter struct {
	// Now supplies the report timestamp; overridable in tests.
	Now func() time.Time
}

// Format writes the formatted output to the buffer.
func (f *TextFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	files := sortedByPath(r)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "FILE SCAN REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Generated:     %s\n", now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Files scanned: %d\n", r.Stats.FilesScanned)
	fmt.Fprintf(w, "Files skipped: %d\n", r.Stats.FilesSkipped)
	fmt.Fprintf(w, "Total size:    %s\n", types.FormatSize(r.TotalSize()))
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)

	if len(files) > 5 {
		f.writeTOC(w, files)
	}

	for i, file := range files {
		f.writeFile(w, i+1, &file)
	}
	return nil
}

// writeTOC lists the first files of the report for quick navigation.
func (f *TextFormatter) writeTOC(w *bytes.Buffer, files []types.FileRecord) {
	fmt.Fprintln(w, "TABLE OF CONTENTS")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	shown := len(files)
	if shown > tocLimit {
		shown = tocLimit
	}
	for i := 0; i < shown; i++ {
		fmt.Fprintf(w, "%3d. %s\n", i+1, shortenPath(files[i].Path, 60))
	}
	if len(files) > tocLimit {
		fmt.Fprintf(w, "     ... and %d more files\n", len(files)-tocLimit)
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintln(w)
}

// writeFile renders one numbered per-file section.
func (f *TextFormatter) writeFile(w *bytes.Buffer, n int, file *types.FileRecord) {
	fmt.Fprintf(w, "[%04d] %s\n", n, file.Path)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	fmt.Fprintf(w, "Size: %s", file.HumanSize())
	if file.Extension != "" {
		fmt.Fprintf(w, " | Type: %s", file.Extension)
	}
	if file.IsHidden {
		fmt.Fprint(w, " | Hidden")
	}
	fmt.Fprintln(w)
	if !file.ModTime.IsZero() {
		fmt.Fprintf(w, "Modified: %s\n", file.ModTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)

	if file.Content == "" {
		fmt.Fprintln(w, "     | [Empty file]")
	} else {
		for i, line := range strings.Split(file.Content, "\n") {
			fmt.Fprintf(w, "%4d | %s\n", i+1, line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)
}

// shortenPath truncates long paths from the left, keeping the tail.
func shortenPath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}

func init() {
	Register("text", func() Formatter {
		return &TextFormatter{}
	})
	// The original report extension was .txt; keep the alias.
	Register("txt", func() Formatter {
		return &TextFormatter{}
	})
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
