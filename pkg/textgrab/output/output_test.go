package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

func sampleResult() *types.Result {
	mod := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return &types.Result{
		Files: []types.FileRecord{
			{
				Path:      "/project/readme.md",
				Content:   "# Title\n\nBody text.",
				Size:      19,
				ModTime:   mod,
				Extension: ".md",
			},
			{
				Path:      "/project/.env",
				Content:   "KEY=value",
				Size:      9,
				ModTime:   mod,
				Extension: ".env",
				IsHidden:  true,
			},
			{
				Path:      "/project/main.go",
				Content:   "package main",
				Size:      12,
				ModTime:   mod,
				Extension: ".go",
			},
		},
		Stats: types.ScanStats{
			TotalPaths:   5,
			FilesScanned: 3,
			FilesSkipped: 2,
		},
		Elapsed: 120 * time.Millisecond,
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register("stub", func() Formatter { return &JSONLFormatter{} })

	f, err := reg.Get("stub")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = reg.Get("missing")
	assert.Error(t, err)
}

func TestRegistryAvailable(t *testing.T) {
	names := Available()
	for _, want := range []string{"text", "txt", "json", "jsonl", "yaml", "csv", "tsv", "markdown", "table", "pretty"} {
		assert.Contains(t, names, want)
	}
	assert.True(t, sortedStrings(names))
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{Now: func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}}

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	var out struct {
		Meta struct {
			Version    string         `json:"version"`
			TotalFiles int            `json:"total_files"`
			FileTypes  map[string]int `json:"file_types"`
			Sizes      struct {
				Min   int64 `json:"min"`
				Max   int64 `json:"max"`
				Total int64 `json:"total"`
			} `json:"size_distribution"`
		} `json:"metadata"`
		Files []types.FileRecord `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.0", out.Meta.Version)
	assert.Equal(t, 3, out.Meta.TotalFiles)
	assert.Equal(t, 1, out.Meta.FileTypes[".md"])
	assert.Equal(t, int64(9), out.Meta.Sizes.Min)
	assert.Equal(t, int64(19), out.Meta.Sizes.Max)
	assert.Equal(t, int64(40), out.Meta.Sizes.Total)

	// Files are sorted by path.
	require.Len(t, out.Files, 3)
	assert.Equal(t, "/project/.env", out.Files[0].Path)
	assert.Equal(t, "/project/main.go", out.Files[1].Path)
	assert.Equal(t, "/project/readme.md", out.Files[2].Path)
}

func TestJSONLFormatter(t *testing.T) {
	f := &JSONLFormatter{}

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var rec types.FileRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.NotEmpty(t, rec.Path)
	}
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{Now: func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}}

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "/project/readme.md")
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "[0001]")
	assert.Contains(t, out, "Files scanned: 3")
	// Content lines carry line numbers.
	assert.Contains(t, out, "   1 | package main")
}

func TestTextFormatterEmptyContent(t *testing.T) {
	r := &types.Result{
		Files: []types.FileRecord{{Path: "/empty.txt", Extension: ".txt"}},
		Stats: types.ScanStats{TotalPaths: 1, FilesScanned: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, r))
	assert.Contains(t, buf.String(), "[Empty file]")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "path,size,extension,is_hidden,modified,content", lines[0])
	// 3 data rows, plus extra lines from embedded newlines in quoted content.
	assert.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, buf.String(), "/project/.env,9,.env,true")
}

func TestTSVFormatterFlattensContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Newlines in content are replaced, so rows stay one per line.
	require.Len(t, lines, 4)
	assert.Equal(t, 6, strings.Count(lines[1], "\t")+1)
}

func TestMarkdownFormatterEscapesPipes(t *testing.T) {
	r := sampleResult()
	r.Files[0].Path = "/odd|name.md"

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, r))
	assert.Contains(t, buf.String(), `/odd\|name.md`)
	assert.NotContains(t, buf.String(), "# Title")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "/project/main.go")
	assert.Contains(t, out, "3 FILES")
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "/project/readme.md")
	assert.Contains(t, out, "3 scanned, 2 skipped of 5 candidates")
}
