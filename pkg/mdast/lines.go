package mdast

import "sort"

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// LineIndex converts byte offsets of a source into line/column positions.
type LineIndex struct {
	content []byte
	lines   []LineInfo
}

// NewLineIndex builds a LineIndex over content.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{content: content, lines: BuildLines(content)}
}

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may not have a trailing newline.
	if lineStart <= len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// LineCount returns the number of lines.
func (x *LineIndex) LineCount() int {
	return len(x.lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (x *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 || len(x.lines) == 0 {
		return 0, 0
	}

	if offset >= len(x.content) {
		last := x.lines[len(x.lines)-1]
		return len(x.lines), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].EndOffset > offset
	})
	if lineIdx >= len(x.lines) {
		lineIdx = len(x.lines) - 1
	}

	info := x.lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - info.StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (x *LineIndex) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(x.lines) || col < 1 {
		return 0, false
	}

	info := x.lines[line-1]
	offset := info.StartOffset + col - 1
	if offset > info.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (x *LineIndex) LineContent(line int) []byte {
	if line < 1 || line > len(x.lines) {
		return nil
	}

	info := x.lines[line-1]
	return x.content[info.StartOffset:info.NewlineStart]
}

// Position converts a span to line/column form. The end position names the
// last byte of the span, so a one-byte span starts and ends on the same
// column. Trailing newlines are not counted as part of the span.
func (x *LineIndex) Position(span Span) SourcePosition {
	end := span.End
	for end > span.Start && (x.byteAt(end-1) == '\n' || x.byteAt(end-1) == '\r') {
		end--
	}
	last := end - 1
	if last < span.Start {
		last = span.Start
	}

	startLine, startCol := x.LineAt(span.Start)
	endLine, endCol := x.LineAt(last)

	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

func (x *LineIndex) byteAt(offset int) byte {
	if offset < 0 || offset >= len(x.content) {
		return 0
	}
	return x.content[offset]
}
