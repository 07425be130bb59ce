package compare

import (
	"bytes"

	"github.com/goccy/go-json"
)

// JSONFormatter writes the comparison set as one JSON document
type JSONFormatter struct {
	Pretty bool
}

// Format encodes the comparison. Currency symbols and arrows in the
// recommendations are kept as UTF-8 instead of being escaped.
func (jf *JSONFormatter) Format(cs *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(cs); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
