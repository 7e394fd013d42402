package exec

import (
	"bytes"
	"io"
	"strings"
)

// PrefixWriter adds a prefix to each line of output
type PrefixWriter struct {
	prefix string
	writer io.Writer
	// Buffer for incomplete lines
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: writer,
		buffer: make([]byte, 0),
	}
}

// Write adds prefix to each complete line and buffers the remainder
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		if _, err := io.WriteString(p.writer, p.prefix+string(p.buffer[:i+1])); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes any buffered partial line, terminated with a newline
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := io.WriteString(p.writer, p.prefix+string(p.buffer)+"\n")
	p.buffer = p.buffer[:0]
	return err
}

// formatStderr prefixes every line of captured standard error
func formatStderr(stderr []byte) string {
	var b strings.Builder
	w := NewPrefixWriter(&b, stderrPrefix)
	_, _ = w.Write(stderr)
	_ = w.Flush()
	return b.String()
}
