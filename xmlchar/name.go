// Package xmlchar implements the character-level rules of the XML
// grammar: the Name production evaluated per code point, the XML
// character set, and entity escape resolution for attribute values and
// character data.
package xmlchar

import (
	"fmt"

	"github.com/andaru/xmltree/codec"
	"github.com/andaru/xmltree/xmlerr"
)

type runeRange struct{ lo, hi rune }

func (rr runeRange) contains(r rune) bool { return rr.lo <= r && r <= rr.hi }

// NameStartChar, XML 1.0 fifth edition production [4].
var nameStartRanges = []runeRange{
	{':', ':'},
	{'A', 'Z'},
	{'_', '_'},
	{'a', 'z'},
	{0xC0, 0xD6},
	{0xD8, 0xF6},
	{0xF8, 0x2FF},
	{0x370, 0x37D},
	{0x37F, 0x1FFF},
	{0x200C, 0x200D},
	{0x2070, 0x218F},
	{0x2C00, 0x2FEF},
	{0x3001, 0xD7FF},
	{0xF900, 0xFDCF},
	{0xFDF0, 0xFFFD},
	{0x10000, 0xEFFFF},
}

// NameChar additions, production [4a].
var nameExtraRanges = []runeRange{
	{'-', '-'},
	{'.', '.'},
	{'0', '9'},
	{0xB7, 0xB7},
	{0x300, 0x36F},
	{0x203F, 0x2040},
}

func in(ranges []runeRange, r rune) bool {
	for _, rr := range ranges {
		if rr.contains(r) {
			return true
		}
	}
	return false
}

// IsNameStart reports whether r may begin an XML Name.
func IsNameStart(r rune) bool { return in(nameStartRanges, r) }

// IsName reports whether r may continue an XML Name.
func IsName(r rune) bool { return IsNameStart(r) || in(nameExtraRanges, r) }

// IsChar reports whether r is in the XML character set, production [2].
func IsChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case 0x20 <= r && r <= 0xD7FF:
		return true
	case 0xE000 <= r && r <= 0xFFFD:
		return true
	case 0x10000 <= r && r <= codec.RuneMax:
		return true
	}
	return false
}

// CheckName validates name against the XML Name grammar, decoding it
// code point by code point. The returned error carries no position;
// the caller tags it.
func CheckName(name []byte) error {
	if len(name) == 0 {
		return xmlerr.Grammar("empty name")
	}
	for i, first := 0, true; i < len(name); first = false {
		r, size, err := codec.DecodeRune(name[i:])
		if err != nil {
			return xmlerr.Encoding(fmt.Sprintf("in name %q: %v", name, err))
		}
		if first && !IsNameStart(r) {
			return xmlerr.Grammar(fmt.Sprintf("name %q may not start with %q", name, r))
		}
		if !first && !IsName(r) {
			return xmlerr.Grammar(fmt.Sprintf("name %q contains illegal character %q", name, r))
		}
		i += size
	}
	return nil
}
