package xmlerr

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a parse failure.
type Kind int

const (
	// KindEncoding is a malformed or forbidden byte sequence: bad UTF-8,
	// an overlong encoding, or a surrogate code point.
	KindEncoding Kind = iota
	// KindStructural is a document structure defect: unbalanced tags,
	// a DOCTYPE, a misplaced declaration, premature end of input, a
	// literal '<' in a quoted value, or a bare "]]>" in character data.
	KindStructural
	// KindGrammar is an invalid XML Name.
	KindGrammar
	// KindEscape is an entity reference that could not be resolved.
	KindEscape
	// KindConfig is a prepass rejection: an embedded NUL byte or a code
	// point outside the XML character set.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindStructural:
		return "structural"
	case KindGrammar:
		return "grammar"
	case KindEscape:
		return "escape"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "encoding":
		*k = KindEncoding
	case "structural":
		*k = KindStructural
	case "grammar":
		*k = KindGrammar
	case "escape":
		*k = KindEscape
	case "config":
		*k = KindConfig
	default:
		return errors.New("unknown value")
	}
	return nil
}

// Error is a position-tagged parse failure. Line and Col are 1-based
// and refer to the buffer handed to the parser; a zero Line means the
// error has not been attributed to a position yet.
type Error struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Col     int
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("xml: %s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("xml: %s error at line %d, column %d: %s", e.Kind, e.Line, e.Col, e.Message)
}

// Option is an Error option function.
type Option func(*Error)

// At tags the error with a buffer position.
func At(offset, line, col int) Option {
	return func(e *Error) { e.Offset, e.Line, e.Col = offset, line, col }
}

func newError(k Kind, msg string, opts []Option) *Error {
	e := &Error{Kind: k, Message: msg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encoding returns a new KindEncoding error.
func Encoding(msg string, opts ...Option) *Error { return newError(KindEncoding, msg, opts) }

// Structural returns a new KindStructural error.
func Structural(msg string, opts ...Option) *Error { return newError(KindStructural, msg, opts) }

// Grammar returns a new KindGrammar error.
func Grammar(msg string, opts ...Option) *Error { return newError(KindGrammar, msg, opts) }

// Escape returns a new KindEscape error.
func Escape(msg string, opts ...Option) *Error { return newError(KindEscape, msg, opts) }

// Config returns a new KindConfig error.
func Config(msg string, opts ...Option) *Error { return newError(KindConfig, msg, opts) }

// Is reports whether err is an *Error of the given kind.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Tag fills in the position of err if err is an *Error that has not
// been attributed yet, and returns err either way.
func Tag(err error, offset, line, col int) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		e.Offset, e.Line, e.Col = offset, line, col
	}
	return err
}
