package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// YAMLFormatter formats output as a YAML document with the same
// metadata envelope as the JSON formatter.
type YAMLFormatter struct {
	// Now supplies the report timestamp; overridable in tests.
	Now func() time.Time
}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *types.Result) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(buildEnvelope(r, now))
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
