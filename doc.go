/*
Package xmltree is a small, strict XML document parser.

It parses a restricted subset of XML from an in-memory UTF-8 buffer into
an immutable document tree in a single deterministic pass, reporting the
first defect found with its 1-based line and column.

The parser package is the entry point; it drives a byte scanner (scan),
a UTF-8 codec (codec) and the XML character classification and entity
escape rules (xmlchar), producing the tree types of the dom package.
Parse failures are typed values from the xmlerr package. The query
package layers XPath evaluation on top of a parsed tree.

Document Type Declarations are detected and rejected, never parsed.
UTF-16 input is rejected, never decoded.
*/
package xmltree
