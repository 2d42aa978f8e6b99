package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// csvHeader is the column layout shared by the CSV and TSV formatters.
// Content is included last so the fixed columns stay easy to eyeball.
var csvHeader = []string{"path", "size", "extension", "is_hidden", "modified", "content"}

// csvRow converts a record to the shared column layout.
func csvRow(f *types.FileRecord) []string {
	modified := ""
	if !f.ModTime.IsZero() {
		modified = f.ModTime.Format("2006-01-02 15:04:05")
	}
	return []string{
		f.Path,
		strconv.FormatInt(f.Size, 10),
		f.Extension,
		strconv.FormatBool(f.IsHidden),
		modified,
		f.Content,
	}
}

// CSVFormatter formats output as comma-separated values with proper
// quoting. It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, file := range sortedByPath(r) {
		if err := writer.Write(csvRow(&file)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// TSVFormatter formats output as tab-separated values.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, file := range sortedByPath(r) {
		row := csvRow(&file)
		// Tabs and newlines inside content would break the row layout.
		row[5] = strings.NewReplacer("\t", " ", "\n", " ").Replace(row[5])
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// MarkdownFormatter formats the file listing as a GitHub-flavored
// Markdown table. Content is omitted; this format is for summaries.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	w.WriteString("| PATH | SIZE | TYPE | MODIFIED |\n")
	w.WriteString("|------|------|------|----------|\n")

	for _, file := range sortedByPath(r) {
		modified := ""
		if !file.ModTime.IsZero() {
			modified = file.ModTime.Format("2006-01-02")
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			escapeMarkdownPipe(file.Path),
			file.HumanSize(),
			escapeMarkdownPipe(file.Extension),
			modified)
	}
	return nil
}

// escapeMarkdownPipe escapes pipe characters for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)

// TableFormatter renders the file listing as an ASCII grid. Like the
// markdown formatter it omits content.
type TableFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TableFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Size", "Type", "Modified"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, file := range sortedByPath(r) {
		modified := ""
		if !file.ModTime.IsZero() {
			modified = file.ModTime.Format("2006-01-02 15:04")
		}
		table.Append([]string{file.Path, file.HumanSize(), file.Extension, modified})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(r.Files)),
		types.FormatSize(r.TotalSize()),
		"", "",
	})
	table.Render()
	return nil
}

func init() {
	Register("table", func() Formatter {
		return &TableFormatter{}
	})
}

// Ensure TableFormatter implements Formatter.
var _ Formatter = (*TableFormatter)(nil)
