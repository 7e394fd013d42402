// Package diff renders line-based unified diffs between two versions of a
// document. Output is plain text so it can be appended to the output sink
// and styled by the UI.
package diff

import (
	"bytes"
	"fmt"
	"strings"
)

// MaxLines bounds the inputs a diff is computed for.
const MaxLines = 10000

// Options configures diff output. Zero values select the defaults.
type Options struct {
	// Context is the number of unchanged lines around each change.
	// Default: 3
	Context int
}

// Generator computes diffs and reuses its buffers across calls.
// It is not safe for concurrent use.
type Generator struct {
	v     []int
	trace [][]int
}

// NewGenerator creates a Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Unified is a convenience wrapper around Generator.Unified.
func Unified(oldName, newName string, old, newer []byte, opts *Options) string {
	return NewGenerator().Unified(oldName, newName, old, newer, opts)
}

// Unified returns a unified diff from old to newer, or "" when the two are
// identical line for line.
func (g *Generator) Unified(oldName, newName string, old, newer []byte, opts *Options) string {
	context := 3
	if opts != nil && opts.Context > 0 {
		context = opts.Context
	}

	if isBinary(old) || isBinary(newer) {
		if bytes.Equal(old, newer) {
			return ""
		}
		return "Binary files differ\n"
	}

	a := splitLines(string(old))
	b := splitLines(string(newer))
	if equalLines(a, b) {
		return ""
	}
	if len(a) > MaxLines || len(b) > MaxLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	hunks := buildHunks(g.editScript(a, b), context)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("--- " + oldName + "\n")
	buf.WriteString("+++ " + newName + "\n")
	for _, h := range hunks {
		writeHunk(&buf, h)
	}
	return buf.String()
}

type operation int

const (
	opEqual operation = iota
	opInsert
	opDelete
)

type line struct {
	oldNum  int // 0 for insertions
	newNum  int // 0 for deletions
	content string
	op      operation
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []line
}

// editScript finds a shortest edit script with the Myers O(ND) algorithm.
// Diagonal k is stored at v[k+offset].
func (g *Generator) editScript(a, b []string) []line {
	n, m := len(a), len(b)
	maxD := n + m
	offset := maxD + 1
	size := 2*maxD + 3

	if cap(g.v) < size {
		g.v = make([]int, size)
	}
	g.v = g.v[:size]
	clear(g.v)
	g.trace = g.trace[:0]

search:
	for d := 0; d <= maxD; d++ {
		g.trace = append(g.trace, append([]int(nil), g.v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && g.v[offset+k-1] < g.v[offset+k+1]) {
				x = g.v[offset+k+1]
			} else {
				x = g.v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			g.v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var rev []line
	x, y := n, m
	for d := len(g.trace) - 1; d >= 0; d-- {
		v := g.trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, line{oldNum: x + 1, newNum: y + 1, content: a[x], op: opEqual})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, line{newNum: y + 1, content: b[y], op: opInsert})
		} else {
			x--
			rev = append(rev, line{oldNum: x + 1, content: a[x], op: opDelete})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// buildHunks groups changes with up to context unchanged lines on each
// side. Changes separated by more than 2*context unchanged lines get
// separate hunks.
func buildHunks(lines []line, context int) []hunk {
	var hunks []hunk
	var cur *hunk
	lastChange := -1

	for i, l := range lines {
		if l.op == opEqual {
			continue
		}
		if cur != nil && i-lastChange-1 > 2*context {
			cur.lines = append(cur.lines, lines[lastChange+1:lastChange+1+context]...)
			hunks = append(hunks, finalize(*cur))
			cur = nil
		}
		if cur == nil {
			start := max(i-context, 0)
			cur = &hunk{}
			cur.lines = append(cur.lines, lines[start:i]...)
		} else {
			cur.lines = append(cur.lines, lines[lastChange+1:i]...)
		}
		cur.lines = append(cur.lines, l)
		lastChange = i
	}

	if cur != nil {
		end := min(lastChange+1+context, len(lines))
		cur.lines = append(cur.lines, lines[lastChange+1:end]...)
		hunks = append(hunks, finalize(*cur))
	}
	return hunks
}

func finalize(h hunk) hunk {
	for _, l := range h.lines {
		if l.oldNum > 0 && h.oldStart == 0 {
			h.oldStart = l.oldNum
		}
		if l.newNum > 0 && h.newStart == 0 {
			h.newStart = l.newNum
		}
		if l.op != opInsert {
			h.oldCount++
		}
		if l.op != opDelete {
			h.newCount++
		}
	}
	return h
}

func writeHunk(buf *strings.Builder, h hunk) {
	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount)
	for _, l := range h.lines {
		switch l.op {
		case opInsert:
			buf.WriteString("+")
		case opDelete:
			buf.WriteString("-")
		default:
			buf.WriteString(" ")
		}
		buf.WriteString(l.content)
		buf.WriteString("\n")
	}
}

// isBinary reports whether data holds a NUL byte in its first 8KB
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines splits s into lines, dropping the empty element after a
// final newline
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
