package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/xmltree/xmlerr"
)

func TestLiteral(t *testing.T) {
	s := New([]byte("<a href"))
	assert.False(t, s.Literal("<b"))
	assert.Equal(t, 0, s.Pos(), "failed match must not move the cursor")
	assert.True(t, s.Literal("<a"))
	assert.Equal(t, 2, s.Pos())
	assert.True(t, s.HasPrefix(" href"))
}

func TestRequireLiteral(t *testing.T) {
	s := New([]byte("abc\ndef"))
	require.NoError(t, s.RequireLiteral("abc\nd"))

	err := s.RequireLiteral("xyz")
	require.Error(t, err)
	var e *xmlerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, xmlerr.KindStructural, e.Kind)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, 2, e.Col)
	assert.Equal(t, 5, s.Pos(), "failed require must not move the cursor")
}

func TestPeek(t *testing.T) {
	s := New([]byte("abcd"))
	assert.Equal(t, []byte("ab"), s.Peek(2))
	assert.Equal(t, []byte("abcd"), s.Peek(10), "peek clamps at end of buffer")
	assert.Equal(t, 0, s.Pos(), "peek never consumes")
}

func TestSkipAndRequireSpace(t *testing.T) {
	s := New([]byte("  \t\r\nx y"))
	assert.True(t, s.SkipSpace())
	assert.Equal(t, 5, s.Pos())
	assert.False(t, s.SkipSpace())

	require.Error(t, s.RequireSpace())
	s.Seek(6)
	require.NoError(t, s.RequireSpace())
	assert.True(t, s.Literal("y"))
	assert.True(t, s.AtEnd())
}

func TestReadName(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
		rest string
	}{
		{in: "name>", want: "name", rest: ">"},
		{in: "a:b-c.d9 x", want: "a:b-c.d9", rest: " x"},
		{in: "n='v'", want: "n", rest: "='v'"},
		{in: "n/>", want: "n", rest: "/>"},
		{in: "target?>", want: "target", rest: "?>"},
		{in: ">", want: "", rest: ">"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			s := New([]byte(tc.in))
			got := s.ReadName()
			assert.Equal(t, tc.want, string(got))
			assert.Equal(t, tc.rest, string(s.Rest()))
		})
	}
}

func TestReadQuoted(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		want    string
		rest    string
		wantErr string
	}{
		{name: "double", in: `"val" x`, want: "val", rest: " x"},
		{name: "single", in: `'val'`, want: "val"},
		{name: "empty", in: `""`, want: ""},
		{name: "other quote inside", in: `"it's"`, want: "it's"},
		{name: "unterminated", in: `"val`, wantErr: "unterminated quoted value"},
		{name: "unquoted", in: `val`, wantErr: "expected quoted value"},
		{name: "at end", in: ``, wantErr: "end of input"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := New([]byte(tc.in))
			got, err := s.ReadQuoted()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Equal(t, 0, s.Pos(), "failed read must not move the cursor")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
			assert.Equal(t, tc.rest, string(s.Rest()))
		})
	}
}

func TestReadUntil(t *testing.T) {
	s := New([]byte("some -- comment -->rest"))
	before, ok := s.ReadUntil("-->")
	require.True(t, ok)
	assert.Equal(t, "some -- comment ", string(before))
	assert.Equal(t, "rest", string(s.Rest()))

	s = New([]byte("never terminated"))
	_, ok = s.ReadUntil("-->")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Pos())
}

func TestTakeUntilByte(t *testing.T) {
	s := New([]byte("text<tag"))
	assert.Equal(t, "text", string(s.TakeUntilByte('<')))
	assert.Equal(t, "<tag", string(s.Rest()))

	s = New([]byte("no marker"))
	assert.Equal(t, "no marker", string(s.TakeUntilByte('<')))
	assert.True(t, s.AtEnd())
}

func TestLineCol(t *testing.T) {
	s := New([]byte("ab\ncd\n\nefg"))
	for _, tc := range []struct {
		pos, line, col int
	}{
		{pos: 0, line: 1, col: 1},
		{pos: 1, line: 1, col: 2},
		{pos: 2, line: 1, col: 3}, // on the newline itself
		{pos: 3, line: 2, col: 1},
		{pos: 6, line: 3, col: 1},
		{pos: 7, line: 4, col: 1},
		{pos: 9, line: 4, col: 3},
		{pos: 10, line: 4, col: 4}, // end of input
		{pos: 99, line: 4, col: 4}, // clamped
	} {
		line, col := s.LineCol(tc.pos)
		assert.Equal(t, tc.line, line, "pos %d", tc.pos)
		assert.Equal(t, tc.col, col, "pos %d", tc.pos)
	}
}

func TestSeekClamps(t *testing.T) {
	s := New([]byte("abc"))
	s.Seek(-5)
	assert.Equal(t, 0, s.Pos())
	s.Seek(100)
	assert.Equal(t, 3, s.Pos())
	assert.True(t, s.AtEnd())
}
