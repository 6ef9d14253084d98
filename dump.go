package typesxml

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/rmraya/typesxml/internal/debug"
)

var (
	esc_quot = []byte("&#34;") // shorter than "&quot;"
	esc_apos = []byte("&#39;") // shorter than "&apos;"
	esc_amp  = []byte("&amp;")
	esc_lt   = []byte("&lt;")
	esc_gt   = []byte("&gt;")
	esc_tab  = []byte("&#9;")
	esc_nl   = []byte("&#10;")
	esc_cr   = []byte("&#13;")
	esc_fffd = []byte("�") // Unicode replacement character
)

// isInCharacterRange decides whether r is in the XML 1.0 Char
// production, the same boundary the round-trip dumper must never
// write a byte outside of.
func isInCharacterRange(r rune) (inrange bool) {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func escapeAttrValue(w io.Writer, s []byte) error {
	var esc []byte
	last := 0
	for i := 0; i < len(s); {
		r, width := utf8.DecodeRune(s[i:])
		i += width
		switch r {
		case '"':
			esc = esc_quot
		case '\'':
			esc = esc_apos
		case '&':
			esc = esc_amp
		case '<':
			esc = esc_lt
		case '>':
			esc = esc_gt
		case '\n':
			esc = esc_nl
		case '\r':
			esc = esc_cr
		case '\t':
			esc = esc_tab
		default:
			if !(0x20 <= r && r < 0x80) {
				if r < 0xE0 {
					esc = []byte(fmt.Sprintf("&#x%X;", r))
					break
				}
			}
			if !isInCharacterRange(r) || (r == 0xFFFD && width == 1) {
				esc = esc_fffd
				break
			}
			continue
		}

		if _, err := w.Write(s[last : i-width]); err != nil {
			return err
		}
		if _, err := w.Write(esc); err != nil {
			return err
		}
		last = i
	}

	if _, err := w.Write(s[last:]); err != nil {
		return err
	}
	return nil
}

// escapeText writes to w the properly escaped XML equivalent of the
// plain text data s. If escapeNewline is true, newline characters are
// escaped too (used for CDATA-derived text reserialized as plain
// content, where a literal newline would otherwise be fine).
func escapeText(w io.Writer, s []byte, escapeNewline bool) error {
	var esc []byte
	last := 0
	for i := 0; i < len(s); {
		r, width := utf8.DecodeRune(s[i:])
		i += width
		switch r {
		case '&':
			esc = esc_amp
		case '<':
			esc = esc_lt
		case '>':
			esc = esc_gt
		case '\n':
			if !escapeNewline {
				continue
			}
			esc = esc_nl
		case '\r':
			esc = esc_cr
		default:
			if !(r == '\t' || r == '\n' || (0x20 <= r && r < 0x80)) {
				if r < 0xE0 {
					esc = []byte(fmt.Sprintf("&#x%X;", r))
					break
				}
			}
			if !isInCharacterRange(r) || (r == 0xFFFD && width == 1) {
				esc = esc_fffd
				break
			}
			continue
		}

		if _, err := w.Write(s[last : i-width]); err != nil {
			return err
		}
		if _, err := w.Write(esc); err != nil {
			return err
		}
		last = i
	}

	if _, err := w.Write(s[last:]); err != nil {
		return err
	}
	return nil
}

// Dumper serializes a Document back to XML text: parsing its own
// output reproduces the same element/attribute/text structure.
type Dumper struct{}

func (d *Dumper) DumpDoc(out io.Writer, doc *Document) error {
	if debug.Enabled {
		g := debug.IPrintf("START Dumper.DumpDoc")
		defer g.IRelease("END Dumper.DumpDoc")
	}

	if err := d.dumpDocContent(out, doc); err != nil {
		return err
	}

	for e := doc.FirstChild(); e != nil; e = e.NextSibling() {
		if err := d.DumpNode(out, e); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func (d *Dumper) dumpDocContent(out io.Writer, doc *Document) error {
	if debug.Enabled {
		g := debug.IPrintf("START Dumper.dumpDocContent")
		defer g.IRelease("END Dumper.dumpDocContent")
	}

	io.WriteString(out, `<?xml version="`)
	version := doc.Version()
	if version == "" {
		version = "1.0"
	}
	io.WriteString(out, version+`"`)

	if encoding := doc.Encoding(); encoding != "" {
		io.WriteString(out, ` encoding="`+encoding+`"`)
	}

	switch doc.Standalone() {
	case StandaloneExplicitNo:
		io.WriteString(out, ` standalone="no"`)
	case StandaloneExplicitYes:
		io.WriteString(out, ` standalone="yes"`)
	}
	_, err := io.WriteString(out, "?>\n")
	return err
}

// DumpNode serializes n and, recursively, every descendant: an
// Element with no children and no character content is written as a
// self-closing tag; an Element's own character content is written
// right after its start tag, ahead of its child nodes; everything else
// follows the node's own escaping rules.
func (d *Dumper) DumpNode(out io.Writer, n Node) error {
	if debug.Enabled {
		g := debug.IPrintf("START Dumper.DumpNode '%s'", n.Name())
		defer g.IRelease("END Dumper.DumpNode")
	}

	switch n.Type() {
	case DocumentNode:
		return d.dumpDocContent(out, n.(*Document))
	case CommentNode:
		io.WriteString(out, "<!--")
		out.Write(n.Content())
		_, err := io.WriteString(out, "-->")
		return err
	case ProcessingInstructionNode:
		pi := n.(*ProcessingInstruction)
		io.WriteString(out, "<?"+pi.Target())
		if pi.Data() != "" {
			io.WriteString(out, " "+pi.Data())
		}
		_, err := io.WriteString(out, "?>")
		return err
	case CDATASectionNode:
		io.WriteString(out, "<![CDATA[")
		out.Write(n.Content())
		_, err := io.WriteString(out, "]]>")
		return err
	case TextNode:
		return escapeText(out, n.Content(), false)
	case EntityRefNode:
		io.WriteString(out, "&")
		io.WriteString(out, n.Name())
		_, err := io.WriteString(out, ";")
		return err
	}

	// Anything else is an Element.
	e, ok := n.(*Element)
	if !ok {
		return fmt.Errorf("typesxml: cannot dump node of type %s", n.Type())
	}

	name := e.Name()
	if e.Prefix() != "" {
		name = e.Prefix() + ":" + name
	}
	io.WriteString(out, "<")
	io.WriteString(out, name)

	for _, attr := range e.Attributes() {
		attrName := attr.LocalName()
		if attr.Prefix() != "" {
			attrName = attr.Prefix() + ":" + attrName
		}
		io.WriteString(out, " "+attrName+`="`)
		if err := escapeAttrValue(out, attr.Content()); err != nil {
			return err
		}
		io.WriteString(out, `"`)
	}

	if e.FirstChild() == nil && len(e.Content()) == 0 {
		_, err := io.WriteString(out, "/>")
		return err
	}
	io.WriteString(out, ">")
	if err := escapeText(out, e.Content(), false); err != nil {
		return err
	}

	for child := e.FirstChild(); child != nil; child = child.NextSibling() {
		if err := d.DumpNode(out, child); err != nil {
			return err
		}
	}

	io.WriteString(out, "</")
	io.WriteString(out, name)
	_, err := io.WriteString(out, ">")
	return err
}
