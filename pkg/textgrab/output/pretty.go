package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// Styles used by the pretty formatter.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	sizeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Width(10).Align(lipgloss.Right)
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// PrettyFormatter renders a colorized file listing for terminal use.
// It lists files only; content belongs to the text and json formats.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	fmt.Fprintln(w, titleStyle.Render("Scan Results"))
	fmt.Fprintln(w)

	for _, file := range sortedByPath(r) {
		line := sizeStyle.Render(file.HumanSize()) + "  "
		if file.IsHidden {
			line += hiddenStyle.Render(file.Path)
		} else {
			line += pathStyle.Render(file.Path)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, statStyle.Render(fmt.Sprintf(
		"%d scanned, %d skipped of %d candidates (%s)",
		r.Stats.FilesScanned,
		r.Stats.FilesSkipped,
		r.Stats.TotalPaths,
		types.FormatSize(r.TotalSize()),
	)))
	return nil
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
