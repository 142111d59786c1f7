package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/mdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []mdast.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []mdast.LineInfo{},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "single line with CRLF",
			content: "hello\r\n",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 7},
				{StartOffset: 7, NewlineStart: 7, EndOffset: 7},
			},
		},
		{
			name:    "multiple lines LF",
			content: "line1\nline2\nline3",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 11, EndOffset: 12},
				{StartOffset: 12, NewlineStart: 17, EndOffset: 17},
			},
		},
		{
			name:    "only newline",
			content: "\n",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 0, EndOffset: 1},
				{StartOffset: 1, NewlineStart: 1, EndOffset: 1},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, mdast.BuildLines([]byte(testCase.content)))
		})
	}
}

func TestLineIndex_LineAt(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex([]byte("line1\nline2\nline3"))

	tests := []struct {
		name         string
		offset       int
		expectedLine int
		expectedCol  int
	}{
		{"start of file", 0, 1, 1},
		{"newline of line 1", 5, 1, 6},
		{"start of line 2", 6, 2, 1},
		{"start of line 3", 12, 3, 1},
		{"end of file", 16, 3, 5},
		{"past end of file", 17, 3, 6},
		{"negative offset", -1, 0, 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			line, col := index.LineAt(testCase.offset)
			assert.Equal(t, testCase.expectedLine, line)
			assert.Equal(t, testCase.expectedCol, col)
		})
	}
}

func TestLineIndex_OffsetRoundTrip(t *testing.T) {
	t.Parallel()

	content := "first\nsecond\nthird line\n"
	index := mdast.NewLineIndex([]byte(content))

	for offset := range len(content) {
		line, col := index.LineAt(offset)
		require.NotZero(t, line, "offset %d", offset)

		got, ok := index.Offset(line, col)
		require.True(t, ok, "offset %d", offset)
		assert.Equal(t, offset, got)
	}

	_, ok := index.Offset(0, 1)
	assert.False(t, ok)
	_, ok = index.Offset(1, 0)
	assert.False(t, ok)
}

func TestLineIndex_LineContent(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex([]byte("first\r\nsecond\nthird"))

	assert.Equal(t, 3, index.LineCount())
	assert.Equal(t, "first", string(index.LineContent(1)))
	assert.Equal(t, "second", string(index.LineContent(2)))
	assert.Equal(t, "third", string(index.LineContent(3)))
	assert.Nil(t, index.LineContent(0))
	assert.Nil(t, index.LineContent(4))
}

func TestLineIndex_Position(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex([]byte("# title\n\npara one\npara two\n"))

	tests := []struct {
		name     string
		span     mdast.Span
		expected string
	}{
		{"heading line", mdast.Span{Start: 0, End: 7}, "1:1-1:7"},
		{"heading with newline", mdast.Span{Start: 0, End: 8}, "1:1-1:7"},
		{"two-line paragraph", mdast.Span{Start: 9, End: 27}, "3:1-4:8"},
		{"single byte", mdast.Span{Start: 2, End: 3}, "1:3-1:3"},
		{"empty span", mdast.Span{Start: 2, End: 2}, "1:3-1:3"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			pos := index.Position(testCase.span)
			assert.True(t, pos.IsValid())
			assert.Equal(t, testCase.expected, pos.String())
		})
	}
}
