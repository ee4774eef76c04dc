package token

import (
	"sort"
	"strings"
)

// LineIndex maps byte offsets to lines of a source text.
// A line runs from a line start (offset 0 or the byte after '\n') up to the
// next '\n' or the end of the text.
type LineIndex struct {
	src    string
	starts []int
}

// NewLineIndex precomputes the line starts of src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineOf returns the 0-based index of the line containing offset: the last
// line whose start is <= offset.
func (x *LineIndex) LineOf(offset int) int {
	i := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Position resolves offset to a 1-based line and 1-based column.
func (x *LineIndex) Position(offset int) Position {
	line := x.LineOf(offset)
	return Position{
		Line:   line + 1,
		Column: offset - x.starts[line] + 1,
		Offset: offset,
	}
}

// LineStart returns the start offset of the 0-based line.
func (x *LineIndex) LineStart(line int) int {
	return x.starts[line]
}

// LineText returns the text of the 0-based line without its terminating
// newline. A carriage return immediately before the newline is stripped too;
// offsets are unaffected.
func (x *LineIndex) LineText(line int) string {
	start := x.starts[line]
	if line+1 == len(x.starts) {
		return x.src[start:]
	}
	return strings.TrimSuffix(x.src[start:x.starts[line+1]-1], "\r")
}
