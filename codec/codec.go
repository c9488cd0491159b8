// Package codec converts between UTF-8 code units and Unicode code
// points, reporting every defect it finds rather than substituting a
// replacement character. Callers decide whether a defect is fatal.
package codec

import "github.com/pkg/errors"

// RuneMax is the largest legal Unicode code point.
const RuneMax = 0x10FFFF

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Minimum code point representable by a code unit of each byte length.
// Anything below the minimum is an overlong encoding.
var lengthMin = [5]rune{0, 0, 0x80, 0x800, 0x10000}

// DecodeRune decodes the leading UTF-8 code unit of b into a code
// point. On success size is the code unit length (1 to 4). On failure
// the returned error describes the defect and size is the number of
// bytes the defect spans, always at least 1, so the caller can
// attribute a buffer position to it.
func DecodeRune(b []byte) (r rune, size int, err error) {
	if len(b) == 0 {
		return 0, 0, errors.New("empty input")
	}
	b0 := b[0]

	var n int
	switch {
	case b0 < 0x80:
		return rune(b0), 1, nil
	case b0 < 0xC0:
		return 0, 1, errors.Errorf("unexpected continuation byte 0x%02X", b0)
	case b0 == 0xC0 || b0 == 0xC1:
		return 0, 1, errors.Errorf("forbidden lead byte 0x%02X (overlong form)", b0)
	case b0 < 0xE0:
		n, r = 2, rune(b0&0x1F)
	case b0 < 0xF0:
		n, r = 3, rune(b0&0x0F)
	case b0 < 0xF5:
		n, r = 4, rune(b0&0x07)
	default:
		return 0, 1, errors.Errorf("forbidden lead byte 0x%02X", b0)
	}

	if len(b) < n {
		return 0, len(b), errors.Errorf("truncated %d-byte code unit: %d byte(s) available", n, len(b))
	}
	for i := 1; i < n; i++ {
		c := b[i]
		if c < 0x80 || c > 0xBF {
			return 0, i, errors.Errorf("invalid continuation byte 0x%02X at position %d of %d-byte code unit", c, i, n)
		}
		r = r<<6 | rune(c&0x3F)
	}

	switch {
	case r < lengthMin[n]:
		return 0, n, errors.Errorf("overlong %d-byte encoding of U+%04X", n, r)
	case surrogateMin <= r && r <= surrogateMax:
		return 0, n, errors.Errorf("surrogate code point U+%04X", r)
	case r > RuneMax:
		return 0, n, errors.Errorf("code point U+%X beyond U+10FFFF", r)
	}
	return r, n, nil
}

// AppendRune appends the UTF-8 code unit for r to dst. Surrogates and
// out-of-range values are rejected, never silently replaced.
func AppendRune(dst []byte, r rune) ([]byte, error) {
	switch {
	case r < 0:
		return dst, errors.Errorf("negative code point %d", r)
	case surrogateMin <= r && r <= surrogateMax:
		return dst, errors.Errorf("surrogate code point U+%04X", r)
	case r > RuneMax:
		return dst, errors.Errorf("code point U+%X beyond U+10FFFF", r)
	}
	switch {
	case r < 0x80:
		return append(dst, byte(r)), nil
	case r < 0x800:
		return append(dst, 0xC0|byte(r>>6), 0x80|byte(r)&0x3F), nil
	case r < 0x10000:
		return append(dst, 0xE0|byte(r>>12), 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F), nil
	default:
		return append(dst, 0xF0|byte(r>>18), 0x80|byte(r>>12)&0x3F, 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F), nil
	}
}
