package dom

import "strings"

// Dump renders the tree in an indented, XML-like form for diagnostics.
// It is not a serializer: values are printed resolved, not re-escaped.
func (d *Document) Dump() string {
	var sb strings.Builder
	if d.Decl != nil {
		sb.WriteString("<?xml version=\"" + d.Decl.Version + "\"")
		if d.Decl.Encoding != "" {
			sb.WriteString(" encoding=\"" + d.Decl.Encoding + "\"")
		}
		if d.Decl.Standalone != "" {
			sb.WriteString(" standalone=\"" + d.Decl.Standalone + "\"")
		}
		sb.WriteString("?>\n")
	}
	for _, n := range d.Children {
		dumpNode(&sb, n, 0)
	}
	return sb.String()
}

// Dump renders the element subtree in the same form as Document.Dump.
func (e *Element) Dump() string {
	var sb strings.Builder
	dumpNode(&sb, e, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *Element:
		sb.WriteString(indent + "<" + n.Name)
		for _, a := range n.Attrs {
			sb.WriteString(" " + a.Name + "=\"" + a.Value + "\"")
		}
		if len(n.Children) == 0 {
			sb.WriteString("/>\n")
			return
		}
		sb.WriteString(">\n")
		for _, c := range n.Children {
			dumpNode(sb, c, depth+1)
		}
		sb.WriteString(indent + "</" + n.Name + ">\n")
	case *ProcInst:
		sb.WriteString(indent + "<?" + n.Target)
		if n.Inst != "" {
			sb.WriteString(" " + n.Inst)
		}
		sb.WriteString("?>\n")
	case *CharData:
		if t := strings.TrimSpace(n.Text); t != "" {
			sb.WriteString(indent + t + "\n")
		}
	case *Declaration:
		// Rendered by Document.Dump from the Decl field.
	}
}
