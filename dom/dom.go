// Package dom holds the document tree produced by the parser: a sum
// type of node kinds plus the read-only queries a downstream consumer
// needs (root lookup, child-by-name, attribute value, text content).
//
// Trees are built once by a parse and never mutated afterwards.
package dom

import "strings"

// Node is one node of a document tree. The concrete types are
// *Declaration, *Element, *ProcInst and *CharData; dispatch with a
// type switch.
type Node interface {
	node()
}

// Declaration is the <?xml ...?> document declaration.
type Declaration struct {
	Version    string
	Encoding   string
	Standalone string
}

// Element is a named element with ordered attributes and children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node

	attrIndex map[string]int
}

// Attr is a single attribute with its resolved value.
type Attr struct {
	Name  string
	Value string
}

// ProcInst is a processing instruction: a target name and its raw,
// unescaped instruction text.
type ProcInst struct {
	Target string
	Inst   string
}

// CharData is resolved character data. Adjacent runs under the same
// parent are merged into one node by the parser.
type CharData struct {
	Text string
}

func (*Declaration) node() {}
func (*Element) node()     {}
func (*ProcInst) node()    {}
func (*CharData) node()    {}

// Document is a parsed document: an optional declaration and the
// top-level nodes, exactly one of which is the root *Element. The
// others are processing instructions and, when the parser is told to
// keep it, insignificant whitespace.
type Document struct {
	Decl     *Declaration
	Children []Node
}

// Root returns the document's single top-level element.
func (d *Document) Root() *Element {
	for _, n := range d.Children {
		if e, ok := n.(*Element); ok {
			return e
		}
	}
	return nil
}

// AddAttr appends an attribute. The first occurrence of a name wins
// the lookup index; later duplicates stay in the ordered list only.
func (e *Element) AddAttr(name, value string) {
	if e.attrIndex == nil {
		e.attrIndex = make(map[string]int)
	}
	if _, dup := e.attrIndex[name]; !dup {
		e.attrIndex[name] = len(e.Attrs)
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute and whether it exists.
// With duplicate attributes present, the first occurrence is returned.
func (e *Element) Attr(name string) (string, bool) {
	i, ok := e.attrIndex[name]
	if !ok {
		return "", false
	}
	return e.Attrs[i].Value, true
}

// HasAttr reports whether the named attribute exists.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrIndex[name]
	return ok
}

// FindChild returns the first child element named name at child index
// from or later, along with its index, or (nil, -1).
func (e *Element) FindChild(name string, from int) (*Element, int) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(e.Children); i++ {
		if c, ok := e.Children[i].(*Element); ok && c.Name == name {
			return c, i
		}
	}
	return nil, -1
}

// Text returns the concatenated character data directly under e.
func (e *Element) Text() string {
	var sb strings.Builder
	for _, n := range e.Children {
		if cd, ok := n.(*CharData); ok {
			sb.WriteString(cd.Text)
		}
	}
	return sb.String()
}

// Text returns the text content of a node: character data text, an
// element's direct character data, or the raw text of a processing
// instruction. Declarations have no text content.
func Text(n Node) string {
	switch n := n.(type) {
	case *CharData:
		return n.Text
	case *Element:
		return n.Text()
	case *ProcInst:
		return n.Inst
	}
	return ""
}
