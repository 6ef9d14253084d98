// Package typesxml is a SAX-style XML processing toolkit: a character
// source that normalizes encoding and line endings, a DTD grammar
// parser and validator, a catalog-based external identifier resolver,
// and a pull parser that drives either a custom sax.Handler or the
// bundled TreeBuilder to assemble a DOM tree. Dumper serializes a tree
// back to XML text.
//
// A typical non-validating parse into a DOM tree:
//
//	src := charsrc.NewString("doc.xml", xmlText)
//	p := typesxml.NewParser(nil)
//	doc, err := p.ParseDocument(src)
//
// Validating against a DTD referenced by the document's own DOCTYPE
// just requires the right Config:
//
//	p := typesxml.NewParser(&typesxml.Config{
//		Options: typesxml.ParseDTDValid | typesxml.ParseDTDAttr,
//	})
package typesxml
