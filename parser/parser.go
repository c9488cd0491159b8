// Package parser implements a single-pass, fail-fast XML document
// parser over an in-memory UTF-8 buffer.
//
// The engine dispatches on lookahead in a fixed priority order
// (declaration, DOCTYPE, comment, processing instruction, CDATA,
// closing tag, opening tag, character data) and maintains an explicit
// open-element stack. The first defect aborts the parse; no partial
// tree is ever returned. Parsing is a pure function of the buffer and
// the options, so a failed parse is not worth retrying.
package parser

import (
	"bytes"
	"fmt"

	"github.com/andaru/xmltree/dom"
	"github.com/andaru/xmltree/scan"
	"github.com/andaru/xmltree/xmlchar"
	"github.com/andaru/xmltree/xmlerr"
)

// Parse parses buf into a document tree, or returns the first defect
// found as a position-tagged *xmlerr.Error.
func Parse(buf []byte, opts ...Option) (*dom.Document, error) {
	opt := defaultOptions()
	for _, o := range opts {
		o(&opt)
	}
	buf, err := prepare(buf, opt)
	if err != nil {
		return nil, err
	}
	p := &parser{opt: opt, s: scan.New(buf), doc: &dom.Document{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// parser holds the state of one parse. A parser value lives for
// exactly one Parse call; the scanner cursor is its only mutable
// state and is never shared.
type parser struct {
	opt   options
	s     *scan.Scanner
	doc   *dom.Document
	stack []*dom.Element

	rootSeen   bool
	rootClosed bool
}

func (p *parser) run() error {
	for !p.s.AtEnd() {
		var err error
		switch {
		case p.atDeclMarker():
			err = p.parseDecl()
		case p.s.HasPrefix("<!DOCTYPE"):
			err = p.parseDoctype()
		case p.s.HasPrefix("<!--"):
			err = p.parseComment()
		case p.s.HasPrefix("<?"):
			err = p.parsePI()
		case p.s.HasPrefix("<![CDATA["):
			err = p.parseCDATA()
		case p.s.HasPrefix("</"):
			err = p.parseCloseTag()
		case p.s.HasPrefix("<!"):
			err = p.errAt(p.s.Pos(), xmlerr.Structural("unrecognized markup"))
		case p.s.HasPrefix("<"):
			err = p.parseOpenTag()
		default:
			err = p.parseCharData()
		}
		if err != nil {
			return err
		}
	}
	switch {
	case !p.rootSeen:
		return p.errAt(p.s.Pos(), xmlerr.Structural("unexpected end of input: no document element"))
	case !p.rootClosed:
		top := p.stack[len(p.stack)-1]
		return p.errAt(p.s.Pos(), xmlerr.Structural(fmt.Sprintf("unexpected end of input: element <%s> is not closed", top.Name)))
	}
	return nil
}

// atDeclMarker reports whether the cursor sits on "<?xml" followed by
// a token boundary. "<?xml-stylesheet" is a processing instruction,
// not a declaration.
func (p *parser) atDeclMarker() bool {
	if !p.s.HasPrefix("<?xml") {
		return false
	}
	ahead := p.s.Peek(6)
	if len(ahead) < 6 {
		return true
	}
	return scan.IsSpace(ahead[5]) || ahead[5] == '?'
}

func (p *parser) parseDecl() error {
	off := p.s.Pos()
	if off != 0 {
		return p.errAt(off, xmlerr.Structural("XML declaration must be the first construct in the document"))
	}
	p.s.Literal("<?xml")
	p.trace("declaration", "", off)

	decl := &dom.Declaration{}
	var haveVersion, haveEncoding, haveStandalone bool
	for {
		hadSpace := p.s.SkipSpace()
		if p.s.Literal("?>") {
			break
		}
		if p.s.AtEnd() {
			return p.errAt(p.s.Pos(), xmlerr.Structural("unexpected end of input in XML declaration"))
		}
		if !hadSpace {
			return p.errAt(p.s.Pos(), xmlerr.Structural("expected whitespace in XML declaration"))
		}
		nameOff := p.s.Pos()
		name := string(p.s.ReadName())
		if name == "" {
			return p.errAt(nameOff, xmlerr.Structural("expected attribute name in XML declaration"))
		}
		p.s.SkipSpace()
		if err := p.s.RequireLiteral("="); err != nil {
			return err
		}
		p.s.SkipSpace()
		valOff := p.s.Pos()
		raw, err := p.s.ReadQuoted()
		if err != nil {
			return err
		}
		val, rerr := xmlchar.ResolveValue(raw, p.opt.ignoreBadEscapes)
		if rerr != nil {
			return p.tagAt(valOff+1, rerr)
		}
		switch name {
		case "version":
			if haveVersion || haveEncoding || haveStandalone {
				return p.errAt(nameOff, xmlerr.Structural("version must be the first declaration attribute"))
			}
			haveVersion, decl.Version = true, string(val)
		case "encoding":
			if !haveVersion || haveEncoding || haveStandalone {
				return p.errAt(nameOff, xmlerr.Structural("misplaced encoding declaration attribute"))
			}
			haveEncoding, decl.Encoding = true, string(val)
		case "standalone":
			if !haveVersion || haveStandalone {
				return p.errAt(nameOff, xmlerr.Structural("misplaced standalone declaration attribute"))
			}
			haveStandalone, decl.Standalone = true, string(val)
		default:
			return p.errAt(nameOff, xmlerr.Structural(fmt.Sprintf("unknown declaration attribute %q", name)))
		}
	}
	if !haveVersion {
		return p.errAt(off, xmlerr.Structural("XML declaration requires a version"))
	}
	p.doc.Decl = decl
	return nil
}

// parseDoctype always fails: document type declarations are detected
// and rejected, never parsed. The placement checks run first so a
// misplaced DOCTYPE reports its real defect, matching the precedence
// a full implementation would need.
func (p *parser) parseDoctype() error {
	off := p.s.Pos()
	p.trace("doctype", "", off)
	switch {
	case p.rootClosed:
		return p.errAt(off, xmlerr.Structural("DOCTYPE after the document element"))
	case p.rootSeen:
		return p.errAt(off, xmlerr.Structural("DOCTYPE inside the document element"))
	}
	return p.errAt(off, xmlerr.Structural("DOCTYPE is not supported"))
}

// parseComment scans past a comment. Comments are discarded rather
// than attached: attaching them would split adjacent character data
// runs that must merge.
func (p *parser) parseComment() error {
	off := p.s.Pos()
	p.s.Literal("<!--")
	body, ok := p.s.ReadUntil("-->")
	if !ok {
		return p.errAt(off, xmlerr.Structural("unterminated comment"))
	}
	p.trace("comment", string(body), off)
	return nil
}

func (p *parser) parsePI() error {
	off := p.s.Pos()
	p.s.Literal("<?")
	nameOff := p.s.Pos()
	name := p.s.ReadName()
	if len(name) == 0 {
		return p.errAt(nameOff, xmlerr.Structural("expected processing instruction target"))
	}
	if p.opt.validateNames {
		if err := xmlchar.CheckName(name); err != nil {
			return p.tagAt(nameOff, err)
		}
	}
	p.s.SkipSpace()
	body, ok := p.s.ReadUntil("?>")
	if !ok {
		return p.errAt(off, xmlerr.Structural("unterminated processing instruction"))
	}
	p.trace("pi", string(name), off)
	p.appendNode(&dom.ProcInst{Target: string(name), Inst: string(body)})
	return nil
}

func (p *parser) parseCDATA() error {
	off := p.s.Pos()
	p.s.Literal("<![CDATA[")
	body, ok := p.s.ReadUntil("]]>")
	if !ok {
		return p.errAt(off, xmlerr.Structural("unterminated CDATA section"))
	}
	p.trace("cdata", "", off)
	// CDATA content is copied verbatim: no escape resolution, and the
	// whitespace-only drop rule does not apply inside an element.
	return p.addCharData(string(body), off, true)
}

func (p *parser) parseCharData() error {
	off := p.s.Pos()
	raw := p.s.TakeUntilByte('<')
	if idx := bytes.Index(raw, []byte("]]>")); idx >= 0 {
		return p.errAt(off+idx, xmlerr.Structural(`literal "]]>" in character data`))
	}
	text, err := xmlchar.ResolveText(raw, p.opt.ignoreBadEscapes)
	if err != nil {
		return p.tagAt(off, err)
	}
	p.trace("chardata", "", off)
	return p.addCharData(string(text), off, false)
}

// addCharData places a character data run, enforcing the placement
// rules outside the document element and merging adjacent runs under
// the same parent into a single node.
func (p *parser) addCharData(text string, off int, verbatim bool) error {
	if len(p.stack) == 0 {
		if !isAllSpace(text) {
			if p.rootClosed {
				return p.errAt(off, xmlerr.Structural("character data after the document element"))
			}
			return p.errAt(off, xmlerr.Structural("character data before the document element"))
		}
		if !p.opt.keepWhitespace {
			return nil
		}
		p.doc.Children = mergeCharData(p.doc.Children, text)
		return nil
	}
	if text == "" {
		return nil
	}
	if !verbatim && !p.opt.keepWhitespace && isAllSpace(text) {
		return nil
	}
	top := p.stack[len(p.stack)-1]
	top.Children = mergeCharData(top.Children, text)
	return nil
}

func mergeCharData(children []dom.Node, text string) []dom.Node {
	if n := len(children); n > 0 {
		if cd, ok := children[n-1].(*dom.CharData); ok {
			cd.Text += text
			return children
		}
	}
	return append(children, &dom.CharData{Text: text})
}

func (p *parser) parseOpenTag() error {
	off := p.s.Pos()
	p.s.Literal("<")
	nameOff := p.s.Pos()
	name := p.s.ReadName()
	if len(name) == 0 {
		return p.errAt(nameOff, xmlerr.Structural("expected element name"))
	}
	if p.opt.validateNames {
		if err := xmlchar.CheckName(name); err != nil {
			return p.tagAt(nameOff, err)
		}
	}
	elem := &dom.Element{Name: string(name)}

	for {
		hadSpace := p.s.SkipSpace()
		if p.s.HasPrefix(">") || p.s.HasPrefix("/>") {
			break
		}
		if p.s.AtEnd() {
			return p.errAt(p.s.Pos(), xmlerr.Structural(fmt.Sprintf("unexpected end of input in element <%s>", elem.Name)))
		}
		if !hadSpace {
			return p.errAt(p.s.Pos(), xmlerr.Structural("expected whitespace before attribute"))
		}
		if err := p.parseAttr(elem); err != nil {
			return err
		}
	}
	selfClosed := p.s.Literal("/>")
	if !selfClosed {
		p.s.Literal(">")
	}
	p.trace("element", elem.Name, off)

	if len(p.stack) == 0 {
		if p.rootClosed {
			return p.errAt(off, xmlerr.Structural("element after the document element"))
		}
		p.doc.Children = append(p.doc.Children, elem)
		p.rootSeen = true
		if selfClosed {
			p.rootClosed = true
			return nil
		}
		p.stack = append(p.stack, elem)
		return nil
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, elem)
	if !selfClosed {
		p.stack = append(p.stack, elem)
	}
	return nil
}

func (p *parser) parseAttr(elem *dom.Element) error {
	nameOff := p.s.Pos()
	name := p.s.ReadName()
	if len(name) == 0 {
		return p.errAt(nameOff, xmlerr.Structural("expected attribute name"))
	}
	if p.opt.validateNames {
		if err := xmlchar.CheckName(name); err != nil {
			return p.tagAt(nameOff, err)
		}
	}
	p.s.SkipSpace()
	if err := p.s.RequireLiteral("="); err != nil {
		return err
	}
	p.s.SkipSpace()
	valOff := p.s.Pos()
	raw, err := p.s.ReadQuoted()
	if err != nil {
		return err
	}
	val, rerr := xmlchar.ResolveValue(raw, p.opt.ignoreBadEscapes)
	if rerr != nil {
		return p.tagAt(valOff+1, rerr)
	}
	if p.opt.checkDupAttrs && elem.HasAttr(string(name)) {
		return p.errAt(nameOff, xmlerr.Structural(fmt.Sprintf("duplicate attribute %q", name)))
	}
	elem.AddAttr(string(name), string(val))
	return nil
}

func (p *parser) parseCloseTag() error {
	off := p.s.Pos()
	p.s.Literal("</")
	nameOff := p.s.Pos()
	name := p.s.ReadName()
	if len(name) == 0 {
		return p.errAt(nameOff, xmlerr.Structural("expected element name in closing tag"))
	}
	p.s.SkipSpace()
	if err := p.s.RequireLiteral(">"); err != nil {
		return err
	}
	if len(p.stack) == 0 {
		if p.rootClosed {
			return p.errAt(off, xmlerr.Structural(fmt.Sprintf("closing tag </%s> after the document element", name)))
		}
		return p.errAt(off, xmlerr.Structural(fmt.Sprintf("unmatched closing tag </%s>", name)))
	}
	top := p.stack[len(p.stack)-1]
	if top.Name != string(name) {
		return p.errAt(nameOff, xmlerr.Structural(fmt.Sprintf("mismatched closing tag: expected </%s>, got </%s>", top.Name, name)))
	}
	p.trace("element-close", top.Name, off)
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		p.rootClosed = true
	}
	return nil
}

func (p *parser) appendNode(n dom.Node) {
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		top.Children = append(top.Children, n)
		return
	}
	p.doc.Children = append(p.doc.Children, n)
}

func isAllSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !scan.IsSpace(s[i]) {
			return false
		}
	}
	return true
}

func (p *parser) errAt(off int, e *xmlerr.Error) error {
	line, col := p.s.LineCol(off)
	e.Offset, e.Line, e.Col = off, line, col
	return e
}

func (p *parser) tagAt(off int, err error) error {
	line, col := p.s.LineCol(off)
	return xmlerr.Tag(err, off, line, col)
}

func (p *parser) trace(event, detail string, off int) {
	if p.opt.trace != nil {
		p.opt.trace(event, detail, off)
	}
}
