// Package query evaluates XPath expressions over a parsed document
// tree by bridging it onto the xmlquery node model.
package query

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/andaru/xmltree/dom"
)

// FromDocument converts a parsed tree into an xmlquery document node
// suitable for XPath evaluation. Comments never survive parsing, and
// processing instructions have no queryable representation in the
// xmlquery model; both are omitted.
func FromDocument(d *dom.Document) *xmlquery.Node {
	root := &xmlquery.Node{Type: xmlquery.DocumentNode}
	if d.Decl != nil {
		decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
		decl.Attr = append(decl.Attr, attr("version", d.Decl.Version))
		if d.Decl.Encoding != "" {
			decl.Attr = append(decl.Attr, attr("encoding", d.Decl.Encoding))
		}
		if d.Decl.Standalone != "" {
			decl.Attr = append(decl.Attr, attr("standalone", d.Decl.Standalone))
		}
		addChild(root, decl)
	}
	for _, n := range d.Children {
		if c := fromNode(n); c != nil {
			addChild(root, c)
		}
	}
	return root
}

// Find returns all nodes matching the XPath expression expr.
func Find(d *dom.Document, expr string) ([]*xmlquery.Node, error) {
	ex, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling xpath %q", expr)
	}
	return xmlquery.QuerySelectorAll(FromDocument(d), ex), nil
}

// FindOne returns the first node matching the XPath expression expr,
// or nil if nothing matches.
func FindOne(d *dom.Document, expr string) (*xmlquery.Node, error) {
	ex, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling xpath %q", expr)
	}
	return xmlquery.QuerySelector(FromDocument(d), ex), nil
}

func fromNode(n dom.Node) *xmlquery.Node {
	switch n := n.(type) {
	case *dom.Element:
		e := &xmlquery.Node{Type: xmlquery.ElementNode, Data: n.Name}
		for _, a := range n.Attrs {
			e.Attr = append(e.Attr, attr(a.Name, a.Value))
		}
		for _, c := range n.Children {
			if cc := fromNode(c); cc != nil {
				addChild(e, cc)
			}
		}
		return e
	case *dom.CharData:
		return &xmlquery.Node{Type: xmlquery.TextNode, Data: n.Text}
	}
	return nil
}

func attr(name, value string) xmlquery.Attr {
	return xmlquery.Attr{Name: xml.Name{Local: name}, Value: value}
}

func addChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	if parent.FirstChild == nil {
		parent.FirstChild = n
	} else {
		parent.LastChild.NextSibling = n
		n.PrevSibling = parent.LastChild
	}
	parent.LastChild = n
}
