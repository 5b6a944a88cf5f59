// Package processors provides built-in post-processors for generated
// project files.
package processors

import (
	"bytes"
)

// TrimWhitespace strips trailing spaces and tabs from every line and
// leaves exactly one final newline. Empty files stay empty.
//
// Example usage:
//
//	eng := engine.New()
//	eng.AddPostProcessor(processors.NewTrimWhitespace())
type TrimWhitespace struct {
	// FinalNewline appends a newline to non-empty content lacking one (default: true)
	FinalNewline bool
}

func NewTrimWhitespace() *TrimWhitespace {
	return &TrimWhitespace{FinalNewline: true}
}

// ProcessContent implements the postprocess.Processor interface.
func (p *TrimWhitespace) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return []byte{}, nil
	}
	if isBinary(content) {
		return content, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " \t\r")
	}

	out := bytes.Join(lines, []byte("\n"))
	out = bytes.TrimRight(out, "\n")
	if p.FinalNewline {
		out = append(out, '\n')
	}
	return out, nil
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}
