package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// reportVersion identifies the JSON/YAML envelope layout.
const reportVersion = "2.0"

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Meta  jsonMeta           `json:"metadata" yaml:"metadata"`
	Files []types.FileRecord `json:"files" yaml:"files"`
}

// jsonMeta carries report metadata and aggregate statistics.
type jsonMeta struct {
	Generated  time.Time       `json:"generated" yaml:"generated"`
	Version    string          `json:"version" yaml:"version"`
	TotalFiles int             `json:"total_files" yaml:"total_files"`
	Stats      types.ScanStats `json:"stats" yaml:"stats"`
	FileTypes  map[string]int  `json:"file_types" yaml:"file_types"`
	Sizes      jsonSizeStats   `json:"size_distribution" yaml:"size_distribution"`
}

// jsonSizeStats summarizes the size distribution of the scanned files.
type jsonSizeStats struct {
	Min   int64 `json:"min" yaml:"min"`
	Max   int64 `json:"max" yaml:"max"`
	Avg   int64 `json:"avg" yaml:"avg"`
	Total int64 `json:"total" yaml:"total"`
}

// buildEnvelope converts a Result into the report envelope shared by the
// JSON and YAML formatters.
func buildEnvelope(r *types.Result, now func() time.Time) jsonOutput {
	files := sortedByPath(r)

	fileTypes := make(map[string]int)
	sizes := jsonSizeStats{}
	for i, f := range files {
		ext := f.Extension
		if ext == "" {
			ext = "no_extension"
		}
		fileTypes[ext]++

		sizes.Total += f.Size
		if i == 0 || f.Size < sizes.Min {
			sizes.Min = f.Size
		}
		if f.Size > sizes.Max {
			sizes.Max = f.Size
		}
	}
	if len(files) > 0 {
		sizes.Avg = sizes.Total / int64(len(files))
	}

	return jsonOutput{
		Meta: jsonMeta{
			Generated:  now(),
			Version:    reportVersion,
			TotalFiles: len(files),
			Stats:      r.Stats,
			FileTypes:  fileTypes,
			Sizes:      sizes,
		},
		Files: files,
	}
}

// JSONFormatter formats output as a single indented JSON document with a
// metadata envelope.
type JSONFormatter struct {
	// Now supplies the report timestamp; overridable in tests.
	Now func() time.Time
}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildEnvelope(r, now))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON, one compact
// file record per line, suitable for streaming processing with jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	for _, file := range sortedByPath(r) {
		data, err := json.Marshal(file)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
