package parser

// TraceFn receives one event per construct the engine recognizes, with
// the byte offset at which the construct began. It replaces a heavier
// debug call-stack from an earlier design and is intended for
// diagnostics only.
type TraceFn func(event, detail string, offset int)

type options struct {
	checkNul         bool
	checkCharset     bool
	normalizeEOL     bool
	validateNames    bool
	checkDupAttrs    bool
	ignoreBadEscapes bool
	keepWhitespace   bool
	trace            TraceFn
}

func defaultOptions() options {
	return options{
		checkNul:      true,
		checkCharset:  true,
		normalizeEOL:  true,
		validateNames: true,
		checkDupAttrs: true,
	}
}

// Option is a parser option function.
type Option func(*options)

// WithoutNulCheck disables the prepass rejection of embedded NUL bytes.
func WithoutNulCheck() Option { return func(o *options) { o.checkNul = false } }

// WithoutCharsetCheck disables the prepass rejection of code points
// outside the XML character set.
func WithoutCharsetCheck() Option { return func(o *options) { o.checkCharset = false } }

// WithoutNewlineNormalization leaves CRLF and bare CR sequences in the
// buffer instead of collapsing them to LF before scanning.
func WithoutNewlineNormalization() Option { return func(o *options) { o.normalizeEOL = false } }

// WithoutNameValidation disables XML Name grammar checks on element,
// attribute and processing instruction names.
func WithoutNameValidation() Option { return func(o *options) { o.validateNames = false } }

// WithoutDuplicateAttributeCheck allows repeated attribute names on an
// element. Lookup by name returns the first occurrence.
func WithoutDuplicateAttributeCheck() Option { return func(o *options) { o.checkDupAttrs = false } }

// IgnoreBadEscapes passes unresolvable entity references through as
// literal text instead of failing the parse.
func IgnoreBadEscapes() Option { return func(o *options) { o.ignoreBadEscapes = true } }

// KeepInsignificantWhitespace retains whitespace-only character data
// runs instead of dropping them. Best effort: the exact set of runs
// retained is not fully pinned down and may change.
func KeepInsignificantWhitespace() Option { return func(o *options) { o.keepWhitespace = true } }

// WithTrace installs a trace hook called for each recognized construct.
func WithTrace(fn TraceFn) Option { return func(o *options) { o.trace = fn } }
