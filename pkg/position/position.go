// Package position translates between byte offsets and line/column
// positions. Two coordinate systems are supported: native positions with
// 1-based lines and byte columns, and editor-protocol positions with 0-based
// lines and characters counted in UTF-16 code units, which is what language
// clients send unless another encoding is negotiated.
package position

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// Position is a native 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Index holds lookup tables for one source string. Every lookup is O(1)
// after the O(n) build.
type Index struct {
	src string

	// rows and cols map an offset in [0, len] to its 0-based row and byte
	// column; units holds the UTF-16 column of the rune containing it.
	rows  []int
	cols  []int
	units []int

	// rowStarts maps a 0-based row to the offset of its first byte.
	rowStarts []int
}

// New builds an index for src. A '\n' belongs to the line it terminates;
// a '\r' before it is treated as an ordinary byte.
func New(src string) *Index {
	n := len(src)
	idx := &Index{
		src:       src,
		rows:      make([]int, n+1),
		cols:      make([]int, n+1),
		units:     make([]int, n+1),
		rowStarts: []int{0},
	}

	row, col, unit := 0, 0, 0
	for i := 0; i < n; {
		r, size := utf8.DecodeRuneInString(src[i:])
		for j := i; j < i+size; j++ {
			idx.rows[j] = row
			idx.cols[j] = col + j - i
			idx.units[j] = unit
		}
		i += size
		if r == '\n' {
			row++
			col, unit = 0, 0
			idx.rowStarts = append(idx.rowStarts, i)
			continue
		}
		col += size
		unit += utf16Len(r)
	}
	idx.rows[n] = row
	idx.cols[n] = col
	idx.units[n] = unit

	return idx
}

// Len returns the length of the indexed source.
func (idx *Index) Len() int {
	return len(idx.rows) - 1
}

// LineCount returns the number of lines. An empty source has one line.
func (idx *Index) LineCount() int {
	return len(idx.rowStarts)
}

// LineRange returns the byte range of the 1-based line, excluding its
// terminating '\n'.
func (idx *Index) LineRange(line int) (start, end int, ok bool) {
	row := line - 1
	if row < 0 || row >= len(idx.rowStarts) {
		return 0, 0, false
	}
	start = idx.rowStarts[row]
	end = idx.Len()
	if row+1 < len(idx.rowStarts) {
		end = idx.rowStarts[row+1] - 1
	}
	return start, end, true
}

// OffsetToPosition converts offset to a native position. offset == Len()
// yields the position just past the last byte. Offsets outside [0, Len()]
// report false.
func (idx *Index) OffsetToPosition(offset int) (Position, bool) {
	if offset < 0 || offset >= len(idx.rows) {
		return Position{}, false
	}
	return Position{Line: idx.rows[offset] + 1, Column: idx.cols[offset] + 1}, true
}

// PositionToOffset converts a native position to an offset. A column may
// point one past the last byte of its line (the line terminator, or end of
// input on the last line) but no further.
func (idx *Index) PositionToOffset(pos Position) (int, bool) {
	return idx.offset(pos.Line-1, pos.Column-1)
}

// OffsetToProtocol converts offset to a 0-based editor-protocol position.
// An offset inside a multi-byte character maps to that character's start.
func (idx *Index) OffsetToProtocol(offset int) (protocol.Position, bool) {
	if offset < 0 || offset >= len(idx.rows) {
		return protocol.Position{}, false
	}
	return protocol.Position{
		Line:      uint32(idx.rows[offset]),  //nolint:gosec // bounded by source length
		Character: uint32(idx.units[offset]), //nolint:gosec // bounded by source length
	}, true
}

// ProtocolToOffset converts a 0-based editor-protocol position to an offset.
// A character past the end of its line, or one that splits a surrogate
// pair, reports false.
func (idx *Index) ProtocolToOffset(pos protocol.Position) (int, bool) {
	row, want := int(pos.Line), int(pos.Character)
	if row >= len(idx.rowStarts) {
		return 0, false
	}
	start, last := idx.lineBounds(row)

	unit := 0
	for i := start; i <= last; {
		if unit == want {
			return i, true
		}
		if unit > want || i == last {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(idx.src[i:last])
		unit += utf16Len(r)
		i += size
	}
	return 0, false
}

// RangeToProtocol converts a half-open offset range to a protocol range.
func (idx *Index) RangeToProtocol(start, end int) (protocol.Range, bool) {
	s, ok := idx.OffsetToProtocol(start)
	if !ok {
		return protocol.Range{}, false
	}
	e, ok := idx.OffsetToProtocol(end)
	if !ok {
		return protocol.Range{}, false
	}
	return protocol.Range{Start: s, End: e}, true
}

func (idx *Index) offset(row, col int) (int, bool) {
	if row < 0 || row >= len(idx.rowStarts) || col < 0 {
		return 0, false
	}

	start, last := idx.lineBounds(row)
	if start+col > last {
		return 0, false
	}
	return start + col, true
}

// lineBounds returns the offset of the first byte of row and the offset of
// its terminating '\n' (or Len() on the last row).
func (idx *Index) lineBounds(row int) (start, last int) {
	start = idx.rowStarts[row]
	last = idx.Len()
	if row+1 < len(idx.rowStarts) {
		last = idx.rowStarts[row+1] - 1
	}
	return start, last
}

// utf16Len returns the number of UTF-16 code units that encode r.
func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
