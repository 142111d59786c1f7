package mdast

import "strconv"

// Span represents a byte range in the source content.
type Span struct {
	// Start is the byte index where the range begins (inclusive).
	Start int

	// End is the byte index where the range ends (exclusive).
	End int
}

// NewSpan returns a span, swapping the bounds if they are reversed.
func NewSpan(start, end int) *Span {
	if end < start {
		start, end = end, start
	}
	return &Span{Start: start, End: end}
}

// Len returns the length of the range in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the range has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this range.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Covers returns true if other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// String formats the span as "start:end".
func (s Span) String() string {
	return strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.End)
}

// Union returns the smallest span covering a and b. Either may be nil.
func Union(a, b *Span) *Span {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return &Span{Start: b.Start, End: b.End}
	case b == nil:
		return &Span{Start: a.Start, End: a.End}
	}
	return &Span{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

// Clamp limits the span to [0, limit].
func (s Span) Clamp(limit int) Span {
	s.Start = max(0, min(s.Start, limit))
	s.End = max(s.Start, min(s.End, limit))
	return s
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.Start().IsValid() && sp.End().IsValid()
}

// String formats the range the way data-sourcepos attributes do:
// "startLine:startCol-endLine:endCol".
func (sp SourcePosition) String() string {
	return strconv.Itoa(sp.StartLine) + ":" + strconv.Itoa(sp.StartColumn) + "-" +
		strconv.Itoa(sp.EndLine) + ":" + strconv.Itoa(sp.EndColumn)
}
