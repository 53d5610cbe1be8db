package engine

import (
	"bytes"
	"encoding/json"
	"strings"
)

// renderJSON encodes v as the text payload of a tool or resource result.
// Separators are followed by a single space ({"echo": "hi"}) and HTML
// characters are left unescaped.
func renderJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return spaceSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// spaceSeparators inserts a space after every ',' and ':' outside string
// literals of compact JSON.
func spaceSeparators(b []byte) string {
	var out strings.Builder
	out.Grow(len(b) + len(b)/4)
	inString, escaped := false, false
	for _, c := range b {
		out.WriteByte(c)
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ',', ':':
			out.WriteByte(' ')
		}
	}
	return out.String()
}
