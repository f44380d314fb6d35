package dast

// Point is a location in the source. Line and Column are 1-based; Offset is
// the 0-based byte index used as the canonical lookup key.
type Point struct {
	Line   int
	Column int
	Offset int
}

// Position is a half-open source range [Start, End).
type Position struct {
	Start Point
	End   Point
}

// Len returns the length of the range in bytes.
func (p Position) Len() int {
	return p.End.Offset - p.Start.Offset
}

// Contains returns true if the given offset is within this range.
func (p Position) Contains(offset int) bool {
	return offset >= p.Start.Offset && offset < p.End.Offset
}

// ContainsInclusive is Contains with the end offset also accepted, which is
// what a cursor sitting right after the last character needs.
func (p Position) ContainsInclusive(offset int) bool {
	return offset >= p.Start.Offset && offset <= p.End.Offset
}
