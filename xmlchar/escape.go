package xmlchar

import (
	"bytes"
	"fmt"

	"github.com/andaru/xmltree/codec"
	"github.com/andaru/xmltree/xmlerr"
)

var predefined = map[string]byte{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

// NormalizeSpace maps each whitespace byte (space, tab, CR, LF) in raw
// to a single space. It happens before escape resolution, so character
// references to whitespace survive untouched.
func NormalizeSpace(raw []byte) []byte {
	if !bytes.ContainsAny(raw, "\t\r\n") {
		return raw
	}
	out := make([]byte, len(raw))
	for i, b := range raw {
		if b == '\t' || b == '\r' || b == '\n' {
			b = ' '
		}
		out[i] = b
	}
	return out
}

// ResolveValue resolves an attribute value: it rejects any literal '<',
// normalizes embedded whitespace to spaces, then resolves escapes.
// Whitespace normalization is unconditional; lenient only loosens
// escape resolution.
func ResolveValue(raw []byte, lenient bool) ([]byte, error) {
	if idx := bytes.IndexByte(raw, '<'); idx >= 0 {
		return nil, xmlerr.Structural("literal '<' in attribute value")
	}
	return resolveRefs(NormalizeSpace(raw), lenient)
}

// ResolveText resolves escapes in plain character data.
func ResolveText(raw []byte, lenient bool) ([]byte, error) {
	return resolveRefs(raw, lenient)
}

// resolveRefs replaces the five predefined entity references and
// decimal/hex character references. An unresolvable reference is a
// hard failure unless lenient, in which case its literal text is
// passed through verbatim.
func resolveRefs(raw []byte, lenient bool) ([]byte, error) {
	amp := bytes.IndexByte(raw, '&')
	if amp < 0 {
		return raw, nil
	}
	out := make([]byte, 0, len(raw))
	for len(raw) > 0 {
		if amp < 0 {
			out = append(out, raw...)
			break
		}
		out = append(out, raw[:amp]...)
		raw = raw[amp:]

		ref, rest, err := takeRef(raw)
		if err != nil {
			if !lenient {
				return nil, err
			}
			// Pass the broken reference through. If there is no
			// terminating ';' the rest of the run is literal.
			if semi := bytes.IndexByte(raw, ';'); semi >= 0 {
				ref, rest = raw[:semi+1], raw[semi+1:]
			} else {
				ref, rest = raw, nil
			}
			out = append(out, ref...)
			raw = rest
			amp = bytes.IndexByte(raw, '&')
			continue
		}
		out = append(out, ref...)
		raw = rest
		amp = bytes.IndexByte(raw, '&')
	}
	return out, nil
}

// takeRef resolves the entity reference at the start of raw, returning
// the replacement bytes and the unconsumed remainder.
func takeRef(raw []byte) (resolved, rest []byte, err error) {
	semi := bytes.IndexByte(raw, ';')
	if semi < 0 {
		return nil, nil, xmlerr.Escape(fmt.Sprintf("unterminated entity reference %q", truncate(raw)))
	}
	name, rest := raw[1:semi], raw[semi+1:]
	if len(name) == 0 {
		return nil, nil, xmlerr.Escape(`empty entity reference "&;"`)
	}
	if b, ok := predefined[string(name)]; ok {
		return []byte{b}, rest, nil
	}
	if name[0] == '#' {
		r, perr := parseCharRef(name[1:])
		if perr != nil {
			return nil, nil, perr
		}
		resolved, eerr := codec.AppendRune(nil, r)
		if eerr != nil {
			return nil, nil, xmlerr.Escape(fmt.Sprintf("character reference &%s;: %v", name, eerr))
		}
		return resolved, rest, nil
	}
	return nil, nil, xmlerr.Escape(fmt.Sprintf("unknown entity reference &%s;", name))
}

func parseCharRef(digits []byte) (rune, error) {
	var r rune
	switch {
	case len(digits) == 0:
		return 0, xmlerr.Escape(`empty character reference "&#;"`)
	case digits[0] == 'x' || digits[0] == 'X':
		digits = digits[1:]
		if len(digits) == 0 {
			return 0, xmlerr.Escape(`empty character reference "&#x;"`)
		}
		for _, c := range digits {
			var v rune
			switch {
			case '0' <= c && c <= '9':
				v = rune(c - '0')
			case 'a' <= c && c <= 'f':
				v = rune(c-'a') + 10
			case 'A' <= c && c <= 'F':
				v = rune(c-'A') + 10
			default:
				return 0, xmlerr.Escape(fmt.Sprintf("bad hex digit %q in character reference", c))
			}
			if r = r<<4 | v; r > codec.RuneMax {
				return 0, xmlerr.Escape("character reference beyond U+10FFFF")
			}
		}
	default:
		for _, c := range digits {
			if c < '0' || c > '9' {
				return 0, xmlerr.Escape(fmt.Sprintf("bad digit %q in character reference", c))
			}
			if r = r*10 + rune(c-'0'); r > codec.RuneMax {
				return 0, xmlerr.Escape("character reference beyond U+10FFFF")
			}
		}
	}
	return r, nil
}

func truncate(b []byte) string {
	const max = 16
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
