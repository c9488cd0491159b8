package parser

import (
	"bytes"

	"github.com/andaru/xmltree/codec"
	"github.com/andaru/xmltree/scan"
	"github.com/andaru/xmltree/xmlchar"
	"github.com/andaru/xmltree/xmlerr"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
)

// prepare runs the configured prepass over buf: BOM handling, NUL and
// character set rejection, then line-ending normalization. The
// returned buffer is what the scanner operates on, so all reported
// positions refer to it.
func prepare(buf []byte, opt options) ([]byte, error) {
	switch {
	case bytes.HasPrefix(buf, bomUTF32BE), bytes.HasPrefix(buf, bomUTF32LE):
		return nil, xmlerr.Encoding("UTF-32 byte order mark: only UTF-8 input is supported", xmlerr.At(0, 1, 1))
	case bytes.HasPrefix(buf, bomUTF16BE), bytes.HasPrefix(buf, bomUTF16LE):
		return nil, xmlerr.Encoding("UTF-16 byte order mark: only UTF-8 input is supported", xmlerr.At(0, 1, 1))
	case bytes.HasPrefix(buf, bomUTF8):
		buf = buf[len(bomUTF8):]
	}

	if opt.checkNul {
		if idx := bytes.IndexByte(buf, 0); idx >= 0 {
			return nil, errorAt(buf, idx, xmlerr.Config("embedded NUL byte"))
		}
	}
	if opt.checkCharset {
		if err := checkCharset(buf); err != nil {
			return nil, err
		}
	}
	if opt.normalizeEOL && bytes.IndexByte(buf, '\r') >= 0 {
		buf = normalizeEOL(buf)
	}
	return buf, nil
}

// checkCharset decodes the whole buffer, rejecting malformed UTF-8 and
// code points outside the XML character set.
func checkCharset(buf []byte) error {
	for i := 0; i < len(buf); {
		r, size, err := codec.DecodeRune(buf[i:])
		if err != nil {
			return errorAt(buf, i, xmlerr.Encoding(err.Error()))
		}
		if !xmlchar.IsChar(r) {
			return errorAt(buf, i, xmlerr.Config(unsupportedChar(r)))
		}
		i += size
	}
	return nil
}

func unsupportedChar(r rune) string {
	return "code point U+" + hex(r) + " outside the XML character set"
}

func hex(r rune) string {
	const digits = "0123456789ABCDEF"
	var out []byte
	for r > 0 {
		out = append([]byte{digits[r&0xF]}, out...)
		r >>= 4
	}
	for len(out) < 4 {
		out = append([]byte{'0'}, out...)
	}
	return string(out)
}

// normalizeEOL collapses CRLF pairs and bare CRs to LF. The whole
// buffer is rewritten uniformly, CDATA sections included.
func normalizeEOL(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	for i := 0; i < len(buf); i++ {
		if buf[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(buf) && buf[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, buf[i])
	}
	return out
}

func errorAt(buf []byte, off int, e *xmlerr.Error) error {
	line, col := scan.New(buf).LineCol(off)
	e.Offset, e.Line, e.Col = off, line, col
	return e
}
