// Package scan provides the cursor over an in-memory buffer used by
// the XML parser. Every consuming operation either fails with the
// cursor unmoved or succeeds and advances strictly forward; the
// Require variants fail with a position-tagged error.
//
// A Scanner is not safe for concurrent use.
package scan

import (
	"bytes"
	"fmt"

	"github.com/andaru/xmltree/xmlerr"
)

// Scanner is a cursor into a byte buffer.
type Scanner struct {
	buf []byte
	pos int
}

// New returns a Scanner positioned at the start of buf.
func New(buf []byte) *Scanner { return &Scanner{buf: buf} }

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// Len returns the total buffer length.
func (s *Scanner) Len() int { return len(s.buf) }

// Seek moves the cursor to offset pos, clamped to the buffer bounds.
func (s *Scanner) Seek(pos int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.buf) {
		pos = len(s.buf)
	}
	s.pos = pos
}

// AtEnd reports whether the cursor has consumed the whole buffer.
func (s *Scanner) AtEnd() bool { return s.pos >= len(s.buf) }

// Rest returns the unconsumed remainder of the buffer.
func (s *Scanner) Rest() []byte { return s.buf[s.pos:] }

// Peek returns up to n bytes ahead of the cursor without consuming.
func (s *Scanner) Peek(n int) []byte {
	if s.pos+n > len(s.buf) {
		n = len(s.buf) - s.pos
	}
	return s.buf[s.pos : s.pos+n]
}

// HasPrefix reports whether the unconsumed input starts with lit.
func (s *Scanner) HasPrefix(lit string) bool {
	return bytes.HasPrefix(s.buf[s.pos:], []byte(lit))
}

// Literal consumes lit if the unconsumed input starts with it.
func (s *Scanner) Literal(lit string) bool {
	if !s.HasPrefix(lit) {
		return false
	}
	s.pos += len(lit)
	return true
}

// RequireLiteral consumes lit or fails with a position-tagged error.
func (s *Scanner) RequireLiteral(lit string) error {
	if s.Literal(lit) {
		return nil
	}
	return s.errorf("expected %q", lit)
}

// IsSpace reports whether b is an XML whitespace byte.
func IsSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

// SkipSpace consumes any run of whitespace, reporting whether at least
// one byte was consumed.
func (s *Scanner) SkipSpace() bool {
	start := s.pos
	for s.pos < len(s.buf) && IsSpace(s.buf[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// RequireSpace consumes a mandatory run of whitespace or fails with a
// position-tagged error.
func (s *Scanner) RequireSpace() error {
	if s.SkipSpace() {
		return nil
	}
	return s.errorf("expected whitespace")
}

// nameDelim reports bytes that terminate a raw name read. The name
// grammar proper is enforced per code point by the caller; the scanner
// only needs to know where a name can possibly end.
func nameDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '=', '>', '/', '?', '<', '"', '\'':
		return true
	}
	return false
}

// ReadName consumes and returns the raw bytes of a name token, which
// may be empty if the cursor sits on a delimiter.
func (s *Scanner) ReadName() []byte {
	start := s.pos
	for s.pos < len(s.buf) && !nameDelim(s.buf[s.pos]) {
		s.pos++
	}
	return s.buf[start:s.pos]
}

// ReadQuoted consumes a quote-delimited string and returns its raw
// contents, excluding the quotes. Both quote styles are accepted. On
// failure the cursor is unmoved.
func (s *Scanner) ReadQuoted() ([]byte, error) {
	if s.AtEnd() {
		return nil, s.errorf("expected quoted value, got end of input")
	}
	quote := s.buf[s.pos]
	if quote != '"' && quote != '\'' {
		return nil, s.errorf("expected quoted value")
	}
	end := bytes.IndexByte(s.buf[s.pos+1:], quote)
	if end < 0 {
		return nil, s.errorf("unterminated quoted value")
	}
	raw := s.buf[s.pos+1 : s.pos+1+end]
	s.pos += end + 2
	return raw, nil
}

// TakeUntilByte consumes and returns the bytes up to, not including,
// the next occurrence of c, or the rest of the buffer if c never
// occurs.
func (s *Scanner) TakeUntilByte(c byte) []byte {
	idx := bytes.IndexByte(s.buf[s.pos:], c)
	if idx < 0 {
		out := s.buf[s.pos:]
		s.pos = len(s.buf)
		return out
	}
	out := s.buf[s.pos : s.pos+idx]
	s.pos += idx
	return out
}

// ReadUntil consumes through the next occurrence of lit, returning the
// bytes before it. If lit never occurs the cursor is unmoved and ok is
// false.
func (s *Scanner) ReadUntil(lit string) (before []byte, ok bool) {
	idx := bytes.Index(s.buf[s.pos:], []byte(lit))
	if idx < 0 {
		return nil, false
	}
	before = s.buf[s.pos : s.pos+idx]
	s.pos += idx + len(lit)
	return before, true
}

// LineCol resolves a byte offset to a 1-based line and column. Columns
// count bytes, not code points. Offsets at or past the end of the
// buffer resolve to the position just after the final byte.
func (s *Scanner) LineCol(pos int) (line, col int) {
	if pos > len(s.buf) {
		pos = len(s.buf)
	}
	line = 1 + bytes.Count(s.buf[:pos], []byte{'\n'})
	col = pos - bytes.LastIndexByte(s.buf[:pos], '\n')
	return line, col
}

func (s *Scanner) errorf(format string, args ...any) error {
	line, col := s.LineCol(s.pos)
	return xmlerr.Structural(fmt.Sprintf(format, args...), xmlerr.At(s.pos, line, col))
}
