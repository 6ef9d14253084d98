package typesxml

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rmraya/typesxml/internal/charsrc"
	"github.com/rmraya/typesxml/internal/debug"
	"github.com/rmraya/typesxml/internal/xmlchar"
	"github.com/rmraya/typesxml/sax"
)

// Parser is a SAX pull-parser: it walks a fully buffered character
// source once, emitting events to a sax.Handler as it goes (prolog ->
// optional DOCTYPE -> single root element -> epilog), and enforces
// XML well-formedness and (optionally) DTD validity rules.
type Parser struct {
	cfg     *Config
	handler sax.Handler
}

// NewParser builds a Parser. cfg may be nil, equivalent to &Config{}
// (no options set).
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Parser{cfg: cfg}
}

// SetSAXHandler registers the handler that receives parse events. If
// never called, Parse/ParseDocument use an internal *TreeBuilder.
func (p *Parser) SetSAXHandler(h sax.Handler) { p.handler = h }

// ParseDocument parses src and returns the assembled DOM tree,
// driving an internal TreeBuilder regardless of any handler set via
// SetSAXHandler (use Parse to drive a custom handler instead).
func (p *Parser) ParseDocument(src charsrc.Source) (*Document, error) {
	tb := &TreeBuilder{}
	prev := p.handler
	p.handler = tb
	defer func() { p.handler = prev }()
	if err := p.Parse(src); err != nil {
		return nil, err
	}
	return tb.Document(), nil
}

// Parse drives whatever handler is registered (SetSAXHandler), or a
// throwaway *TreeBuilder if none was, over src.
func (p *Parser) Parse(src charsrc.Source) error {
	if debug.Enabled {
		g := debug.IPrintf("START Parser.Parse %s", src.SystemID())
		defer g.IRelease("END Parser.Parse")
	}
	handler := p.handler
	if handler == nil {
		handler = &TreeBuilder{}
	}

	text, err := readAll(src)
	if err != nil {
		return err
	}

	ctx := &parserCtx{
		p:          p,
		handler:    handler,
		cfg:        p.cfg,
		text:       text,
		systemID:   src.SystemID(),
		line:       1,
		col:        1,
		version:    p.cfg.xmlVersion(),
		keepBlanks: p.cfg.keepBlanks(),
		ids:        map[string]bool{},
		idrefs:     map[string]bool{},
	}

	return ctx.run()
}

func readAll(src charsrc.Source) (string, error) {
	var b strings.Builder
	for src.DataAvailable() {
		chunk, err := src.Read()
		if err != nil {
			return "", err
		}
		if chunk == "" {
			break
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// parserCtx is the sax.Context value handed to every callback; a
// handler type-asserts it back to *parserCtx (as TreeBuilder does) to
// reach parse-in-progress state such as the document under
// construction or the standalone flag.
type parserCtx struct {
	p       *Parser
	handler sax.Handler
	cfg     *Config
	text    string
	pos     int
	line    int
	col     int

	systemID   string
	version    string
	encoding   string
	standalone DocumentStandaloneType
	keepBlanks bool

	doc      *Document
	grammar  Grammar
	elems    []*elemFrame
	ids      map[string]bool
	idrefs   map[string]bool
	rootSeen bool
}

type elemFrame struct {
	name     string
	prefix   string
	uri      string
	children []string
}

var _ sax.DocumentLocator = (*parserCtx)(nil)

func (c *parserCtx) SystemID() string   { return c.systemID }
func (c *parserCtx) LineNumber() int    { return c.line }
func (c *parserCtx) ColumnNumber() int  { return c.col }

func (c *parserCtx) fatal(kind ErrorKind, format string, args ...interface{}) error {
	return newFatal(kind, c.systemID, int64(c.pos), format, args...)
}

// recoverable reports whether e (from a well-formedness or validity
// violation) should abort the parse or be swallowed into the warning
// sink and skipped over, per the ParseRecover option and, for
// validity errors, whether the parse is validating.
func (c *parserCtx) recoverable(kind ErrorKind, err error) bool {
	if err == nil {
		return true
	}
	fatal := false
	switch kind {
	case WellFormednessErrorKind:
		fatal = !c.cfg.recover()
	case ValidityErrorKind:
		fatal = c.cfg.validating() && !c.cfg.recover()
	case ResourceErrorKind:
		fatal = !c.cfg.recover()
	}
	if fatal {
		return false
	}
	if xe, ok := err.(*XMLError); ok {
		c.cfg.warn(xe)
	} else {
		c.cfg.warn(newFatal(kind, c.systemID, int64(c.pos), "%v", err))
	}
	return true
}

func (c *parserCtx) advance(n int) {
	for i := 0; i < n && c.pos < len(c.text); i++ {
		if c.text[c.pos] == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
		c.pos++
	}
}

func (c *parserCtx) rest() string { return c.text[c.pos:] }
func (c *parserCtx) eof() bool    { return c.pos >= len(c.text) }

func (c *parserCtx) skipWhitespace() {
	for !c.eof() && xmlchar.IsWhitespace(rune(c.text[c.pos])) {
		c.advance(1)
	}
}

// run drives the full document grammar: prolog, optional DOCTYPE, one
// root element, epilog.
func (c *parserCtx) run() error {
	if err := c.parseXMLDecl(); err != nil {
		return err
	}

	if err := c.handler.StartDocument(c); err != nil {
		return err
	}

	if err := c.parseMisc(); err != nil {
		return err
	}

	if strings.HasPrefix(c.rest(), "<!DOCTYPE") {
		if err := c.parseDoctype(); err != nil {
			return err
		}
		if err := c.parseMisc(); err != nil {
			return err
		}
	}

	if c.cfg.Grammar != nil {
		c.grammar = c.cfg.Grammar
	} else if c.grammar == nil {
		c.grammar = NoOpGrammar{}
	}

	if c.eof() || c.text[c.pos] != '<' {
		return c.fatal(WellFormednessErrorKind, "document has no root element")
	}
	if err := c.parseElement(); err != nil {
		return err
	}
	c.rootSeen = true

	if err := c.parseMisc(); err != nil {
		return err
	}

	if !c.eof() {
		return c.fatal(WellFormednessErrorKind, "extra content at end of document")
	}

	if err := c.checkIDRefs(); err != nil {
		if !c.recoverable(ValidityErrorKind, err) {
			return err
		}
	}

	return c.handler.EndDocument(c)
}

// parseXMLDecl parses an optional `<?xml version="1.0" ...?>` at the
// very start of the source.
func (c *parserCtx) parseXMLDecl() error {
	if !strings.HasPrefix(c.rest(), "<?xml") {
		c.standalone = StandaloneNoXMLDecl
		return nil
	}
	// Must be followed by whitespace or '?' to avoid matching <?xml-stylesheet?>.
	after := c.text[c.pos+len("<?xml"):]
	if after == "" || !(xmlchar.IsWhitespace(rune(after[0])) || after[0] == '?') {
		c.standalone = StandaloneNoXMLDecl
		return nil
	}
	end := strings.Index(c.rest(), "?>")
	if end < 0 {
		return c.fatal(WellFormednessErrorKind, "unterminated XML declaration")
	}
	body := c.text[c.pos+len("<?xml") : c.pos+end]
	c.advance(end + 2)

	attrs, err := parsePseudoAttrs(body)
	if err != nil {
		return c.fatal(WellFormednessErrorKind, "malformed XML declaration: %v", err)
	}
	if v, ok := attrs["version"]; ok {
		c.version = v
	}
	if e, ok := attrs["encoding"]; ok {
		c.encoding = e
	}
	if s, ok := attrs["standalone"]; ok {
		switch s {
		case "yes":
			c.standalone = StandaloneExplicitYes
		case "no":
			c.standalone = StandaloneExplicitNo
		default:
			return c.fatal(WellFormednessErrorKind, "invalid standalone value %q", s)
		}
	} else {
		c.standalone = StandaloneImplicitNo
	}
	return nil
}

// parsePseudoAttrs parses the `name="value"` pairs of an XML/text
// declaration body.
func parsePseudoAttrs(body string) (map[string]string, error) {
	out := map[string]string{}
	i := 0
	n := len(body)
	for i < n {
		for i < n && xmlchar.IsWhitespace(rune(body[i])) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && body[i] != '=' && !xmlchar.IsWhitespace(rune(body[i])) {
			i++
		}
		name := body[start:i]
		for i < n && xmlchar.IsWhitespace(rune(body[i])) {
			i++
		}
		if i >= n || body[i] != '=' {
			return nil, fmt.Errorf("expected '=' after %q", name)
		}
		i++
		for i < n && xmlchar.IsWhitespace(rune(body[i])) {
			i++
		}
		val, rest, err := readQuotedLiteral(body[i:])
		if err != nil {
			return nil, err
		}
		i = n - len(rest)
		out[name] = val
	}
	return out, nil
}

// parseMisc consumes comments, processing instructions, and
// whitespace between prolog/epilog constructs.
func (c *parserCtx) parseMisc() error {
	for {
		c.skipWhitespace()
		switch {
		case strings.HasPrefix(c.rest(), "<!--"):
			if err := c.parseComment(); err != nil {
				return err
			}
		case strings.HasPrefix(c.rest(), "<?"):
			if err := c.parsePI(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (c *parserCtx) parseComment() error {
	end := strings.Index(c.rest(), "-->")
	if end < 0 {
		return c.fatal(WellFormednessErrorKind, "unterminated comment")
	}
	data := c.text[c.pos+4 : c.pos+end]
	c.advance(end + 3)
	return c.handler.Comment(c, []byte(data))
}

func (c *parserCtx) parsePI() error {
	end := strings.Index(c.rest(), "?>")
	if end < 0 {
		return c.fatal(WellFormednessErrorKind, "unterminated processing instruction")
	}
	body := c.text[c.pos+2 : c.pos+end]
	c.advance(end + 2)

	var name, data string
	if idx := strings.IndexAny(body, " \t\n\r"); idx >= 0 {
		name = body[:idx]
		data = strings.TrimLeft(body[idx:], " \t\n\r")
	} else {
		name = body
	}
	if !xmlchar.IsName(name) {
		return c.fatal(WellFormednessErrorKind, "invalid processing instruction target %q", name)
	}
	if strings.EqualFold(name, "xml") {
		return c.fatal(WellFormednessErrorKind, "processing instruction target cannot be 'xml'")
	}
	return c.handler.ProcessingInstruction(c, name, data)
}

// parseDoctype parses `<!DOCTYPE root ... [internal subset]? >` and
// builds the grammar.
func (c *parserCtx) parseDoctype() error {
	c.advance(len("<!DOCTYPE"))
	c.skipWhitespace()
	start := c.pos
	for !c.eof() && !xmlchar.IsWhitespace(rune(c.text[c.pos])) && c.text[c.pos] != '[' && c.text[c.pos] != '>' {
		c.advance(1)
	}
	rootName := c.text[start:c.pos]
	c.skipWhitespace()

	var publicID, systemID string
	if strings.HasPrefix(c.rest(), "SYSTEM") || strings.HasPrefix(c.rest(), "PUBLIC") {
		pub, sys, tail, err := parseExternalID(c.rest())
		if err != nil {
			return c.fatal(WellFormednessErrorKind, "malformed DOCTYPE external ID: %v", err)
		}
		publicID, systemID = pub, sys
		c.advance(len(c.rest()) - len(tail))
		c.skipWhitespace()
	}

	if err := c.handler.StartDTD(c, rootName, publicID, systemID); err != nil {
		return err
	}

	intSubset := NewDTD(rootName, publicID, systemID)
	dp := NewDTDParser(c.cfg.Catalog, c.cfg.validating(), c.cfg.Warn)
	baseDir := filepath.Dir(c.systemID)

	if !c.eof() && c.text[c.pos] == '[' {
		c.advance(1)
		end := findMatchingBracket(c.text[c.pos:])
		if end < 0 {
			return c.fatal(WellFormednessErrorKind, "unterminated internal DTD subset")
		}
		body := c.text[c.pos : c.pos+end]
		c.advance(end + 1)
		if err := dp.ParseInternalSubset(body, intSubset, baseDir); err != nil {
			if !c.recoverable(WellFormednessErrorKind, err) {
				return err
			}
		}
		c.skipWhitespace()
	}

	if systemID != "" && c.cfg.loadDTD() {
		extSubset := NewDTD(rootName, publicID, systemID)
		if err := dp.ParseExternalSubset(publicID, systemID, baseDir, extSubset); err != nil {
			if !c.recoverable(ResourceErrorKind, err) {
				return err
			}
		} else {
			if err := extSubset.ProcessModels(); err != nil {
				if !c.recoverable(WellFormednessErrorKind, err) {
					return err
				}
			}
			if c.doc != nil {
				c.doc.SetExtSubset(extSubset)
			}
		}
	}

	if err := intSubset.ProcessModels(); err != nil {
		if !c.recoverable(WellFormednessErrorKind, err) {
			return err
		}
	}
	if c.doc != nil {
		c.doc.SetIntSubset(intSubset)
		c.doc.standalone = c.standalone
		c.grammar = c.doc.Grammar()
	} else if c.cfg.Grammar != nil {
		c.grammar = c.cfg.Grammar
	} else {
		c.grammar = NewDTDGrammar(intSubset)
	}

	if !c.eof() && c.text[c.pos] != '>' {
		return c.fatal(WellFormednessErrorKind, "malformed DOCTYPE declaration")
	}
	c.advance(1)
	return c.handler.EndDTD(c)
}

func findMatchingBracket(s string) int {
	depth := 1
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// --- element/attribute/content parsing --------------------------------------

func (c *parserCtx) parseElement() error {
	if c.cfg.Grammar != nil && c.grammar == nil {
		c.grammar = c.cfg.Grammar
	}
	if c.grammar == nil {
		c.grammar = NoOpGrammar{}
	}

	c.advance(1) // '<'
	start := c.pos
	for !c.eof() && xmlchar.IsNameChar(rune(c.text[c.pos])) {
		c.advance(1)
	}
	qname := c.text[start:c.pos]
	if !xmlchar.IsName(qname) {
		return c.fatal(WellFormednessErrorKind, "invalid element name %q", qname)
	}
	prefix, local := splitQName(qname)

	attrs, selfClosing, err := c.parseAttributes()
	if err != nil {
		return err
	}

	attrs = c.applyDefaultAttributes(local, attrs)

	rawAttrs := make(map[string]string, len(attrs))
	var parsedAttrs []sax.ParsedAttribute
	for _, a := range attrs {
		rawAttrs[a.name] = a.value
		parsedAttrs = append(parsedAttrs, parsedAttribute{prefix: a.prefix, local: a.local, uri: "", value: a.value, defaulted: a.defaulted})
	}

	if err := c.grammar.ValidateAttributes(local, rawAttrs, c.cfg.validating()); err != nil {
		if !c.recoverable(ValidityErrorKind, err) {
			return err
		}
	}
	if err := c.checkIDAttributes(local, rawAttrs); err != nil {
		return err
	}

	elem := parsedElement{prefix: prefix, local: local, attrs: parsedAttrs}
	frame := &elemFrame{name: local, prefix: prefix}
	c.elems = append(c.elems, frame)

	if err := c.handler.StartElement(c, elem); err != nil {
		return err
	}

	if selfClosing {
		return c.closeElement(elem)
	}

	if err := c.parseContent(); err != nil {
		return err
	}
	return nil
}

func (c *parserCtx) closeElement(elem parsedElement) error {
	frame := c.elems[len(c.elems)-1]
	c.elems = c.elems[:len(c.elems)-1]

	if err := c.grammar.ValidateElement(frame.name, frame.children, c.cfg.validating()); err != nil {
		if !c.recoverable(ValidityErrorKind, err) {
			return err
		}
	}
	if len(c.elems) > 0 {
		parent := c.elems[len(c.elems)-1]
		parent.children = append(parent.children, frame.name)
	}
	return c.handler.EndElement(c, elem)
}

func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

type parsedElement struct {
	prefix string
	uri    string
	local  string
	attrs  []sax.ParsedAttribute
}

func (e parsedElement) Prefix() string    { return e.prefix }
func (e parsedElement) URI() string       { return e.uri }
func (e parsedElement) LocalName() string { return e.local }
func (e parsedElement) Name() string {
	if e.prefix == "" {
		return e.local
	}
	return e.prefix + ":" + e.local
}
func (e parsedElement) Attributes() []sax.ParsedAttribute { return e.attrs }

var _ sax.ParsedElement = parsedElement{}

type parsedAttribute struct {
	prefix    string
	local     string
	uri       string
	value     string
	defaulted bool
}

func (a parsedAttribute) Prefix() string    { return a.prefix }
func (a parsedAttribute) LocalName() string { return a.local }
func (a parsedAttribute) URI() string       { return a.uri }
func (a parsedAttribute) Value() string     { return a.value }
func (a parsedAttribute) Defaulted() bool   { return a.defaulted }
func (a parsedAttribute) Name() string {
	if a.prefix == "" {
		return a.local
	}
	return a.prefix + ":" + a.local
}

var _ sax.ParsedAttribute = parsedAttribute{}

type rawAttr struct {
	name      string
	prefix    string
	local     string
	value     string
	defaulted bool
}

// parseAttributes parses the attribute list up to `>` or `/>`,
// expanding character and entity references in each value and
// rejecting a duplicate attribute name: no two attributes of one
// element share a name.
func (c *parserCtx) parseAttributes() ([]rawAttr, bool, error) {
	var attrs []rawAttr
	seen := map[string]bool{}
	for {
		c.skipWhitespace()
		if c.eof() {
			return nil, false, c.fatal(WellFormednessErrorKind, "unterminated start tag")
		}
		if c.text[c.pos] == '/' {
			c.advance(1)
			if c.eof() || c.text[c.pos] != '>' {
				return nil, false, c.fatal(WellFormednessErrorKind, "malformed empty-element tag")
			}
			c.advance(1)
			return attrs, true, nil
		}
		if c.text[c.pos] == '>' {
			c.advance(1)
			return attrs, false, nil
		}
		start := c.pos
		for !c.eof() && xmlchar.IsNameChar(rune(c.text[c.pos])) {
			c.advance(1)
		}
		name := c.text[start:c.pos]
		if !xmlchar.IsName(name) {
			return nil, false, c.fatal(WellFormednessErrorKind, "invalid attribute name %q", name)
		}
		c.skipWhitespace()
		if c.eof() || c.text[c.pos] != '=' {
			return nil, false, c.fatal(WellFormednessErrorKind, "attribute %q has no value", name)
		}
		c.advance(1)
		c.skipWhitespace()
		if c.eof() || (c.text[c.pos] != '"' && c.text[c.pos] != '\'') {
			return nil, false, c.fatal(WellFormednessErrorKind, "attribute %q value must be quoted", name)
		}
		quote := c.text[c.pos]
		c.advance(1)
		valStart := c.pos
		for !c.eof() && c.text[c.pos] != quote {
			if c.text[c.pos] == '<' {
				return nil, false, c.fatal(WellFormednessErrorKind, "attribute value must not contain '<'")
			}
			c.advance(1)
		}
		if c.eof() {
			return nil, false, c.fatal(WellFormednessErrorKind, "unterminated attribute value")
		}
		raw := c.text[valStart:c.pos]
		c.advance(1)

		value, err := c.expandReferences(raw, true)
		if err != nil {
			if !c.recoverable(WellFormednessErrorKind, err) {
				return nil, false, err
			}
		}

		if seen[name] {
			return nil, false, c.fatal(WellFormednessErrorKind, "duplicate attribute %q", name)
		}
		seen[name] = true

		prefix, local := splitQName(name)
		attrs = append(attrs, rawAttr{name: name, prefix: prefix, local: local, value: value})
	}
}

// applyDefaultAttributes merges in the grammar's declared defaults
// for any attribute not already present; a default-value attribute is
// reported with defaulted=true.
func (c *parserCtx) applyDefaultAttributes(elemName string, attrs []rawAttr) []rawAttr {
	if !c.cfg.addDefaultAttrs() {
		return attrs
	}
	defaults := c.grammar.GetDefaultAttributes(elemName)
	if len(defaults) == 0 {
		return attrs
	}
	present := map[string]bool{}
	for _, a := range attrs {
		present[a.name] = true
	}
	for name, info := range defaults {
		if present[name] {
			continue
		}
		prefix, local := splitQName(name)
		attrs = append(attrs, rawAttr{name: name, prefix: prefix, local: local, value: info.DefaultValue, defaulted: true})
	}
	return attrs
}

// checkIDAttributes records ID/IDREF(S) attribute values for the
// end-of-document dangling-reference check: duplicate ID values are
// reported immediately (fatal in validating mode), IDREF(S) values
// are deferred until checkIDRefs.
func (c *parserCtx) checkIDAttributes(elemName string, attrs map[string]string) error {
	elemAttrs := c.grammar.GetElementAttributes(elemName)
	for name, value := range attrs {
		info, ok := elemAttrs[name]
		if !ok {
			continue
		}
		switch info.Type {
		case AttrID:
			if c.ids[value] {
				err := fmt.Errorf("duplicate ID value %q", value)
				if !c.recoverable(ValidityErrorKind, err) {
					return err
				}
			}
			c.ids[value] = true
		case AttrIDRef:
			c.idrefs[value] = true
		case AttrIDRefs:
			for _, t := range xmlchar.Fields(value) {
				c.idrefs[t] = true
			}
		}
	}
	return nil
}

func (c *parserCtx) checkIDRefs() error {
	if !c.cfg.validating() {
		return nil
	}
	for ref := range c.idrefs {
		if !c.ids[ref] {
			return fmt.Errorf("IDREF %q does not match any ID in the document", ref)
		}
	}
	return nil
}

// parseContent parses an element's children: text, CDATA, comments,
// PIs, nested elements, and entity/character references, up to and
// including the matching end tag.
func (c *parserCtx) parseContent() error {
	var textBuf strings.Builder
	flush := func(isWhitespace bool) error {
		if textBuf.Len() == 0 {
			return nil
		}
		data := []byte(textBuf.String())
		textBuf.Reset()
		if isWhitespace {
			return c.handler.IgnorableWhitespace(c, data)
		}
		return c.handler.Characters(c, data)
	}

	for {
		if c.eof() {
			return c.fatal(WellFormednessErrorKind, "unexpected end of input inside element content")
		}
		switch {
		case strings.HasPrefix(c.rest(), "</"):
			if err := flush(isAllWhitespace(textBuf.String())); err != nil {
				return err
			}
			return c.parseEndTag()
		case strings.HasPrefix(c.rest(), "<![CDATA["):
			if err := flush(false); err != nil {
				return err
			}
			if err := c.parseCDATA(); err != nil {
				return err
			}
		case strings.HasPrefix(c.rest(), "<!--"):
			if err := flush(isAllWhitespace(textBuf.String())); err != nil {
				return err
			}
			if err := c.parseComment(); err != nil {
				return err
			}
		case strings.HasPrefix(c.rest(), "<?"):
			if err := flush(isAllWhitespace(textBuf.String())); err != nil {
				return err
			}
			if err := c.parsePI(); err != nil {
				return err
			}
		case c.text[c.pos] == '<':
			if err := flush(isAllWhitespace(textBuf.String())); err != nil {
				return err
			}
			if err := c.parseElement(); err != nil {
				return err
			}
		case c.text[c.pos] == '&':
			text, err := c.parseCharOrEntityRef()
			if err != nil {
				return err
			}
			textBuf.WriteString(text)
		default:
			if strings.HasPrefix(c.rest(), "]]>") {
				return c.fatal(WellFormednessErrorKind, "']]>' is not allowed in character data")
			}
			start := c.pos
			for !c.eof() && c.text[c.pos] != '<' && c.text[c.pos] != '&' {
				if strings.HasPrefix(c.rest(), "]]>") {
					break
				}
				c.advance(1)
			}
			textBuf.WriteString(c.text[start:c.pos])
		}
	}
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		if !xmlchar.IsWhitespace(r) {
			return false
		}
	}
	return true
}

func (c *parserCtx) parseEndTag() error {
	c.advance(2) // "</"
	start := c.pos
	for !c.eof() && xmlchar.IsNameChar(rune(c.text[c.pos])) {
		c.advance(1)
	}
	qname := c.text[start:c.pos]
	c.skipWhitespace()
	if c.eof() || c.text[c.pos] != '>' {
		return c.fatal(WellFormednessErrorKind, "malformed end tag for %q", qname)
	}
	c.advance(1)

	if len(c.elems) == 0 {
		return c.fatal(WellFormednessErrorKind, "end tag %q has no matching start tag", qname)
	}
	prefix, local := splitQName(qname)
	top := c.elems[len(c.elems)-1]
	if top.name != local || top.prefix != prefix {
		return c.fatal(WellFormednessErrorKind, "mismatched end tag: expected %q, got %q", top.name, qname)
	}
	return c.closeElement(parsedElement{prefix: prefix, local: local})
}

func (c *parserCtx) parseCDATA() error {
	c.advance(len("<![CDATA["))
	end := strings.Index(c.rest(), "]]>")
	if end < 0 {
		return c.fatal(WellFormednessErrorKind, "unterminated CDATA section")
	}
	data := c.text[c.pos : c.pos+end]
	c.advance(end + 3)

	if err := c.handler.StartCDATA(c); err != nil {
		return err
	}
	if err := c.handler.Characters(c, []byte(data)); err != nil {
		return err
	}
	return c.handler.EndCDATA(c)
}

// parseCharOrEntityRef parses one `&#NN;`, `&#xHH;`, or `&name;`
// reference and returns its replacement text. Well-known predefined
// entities and character references resolve unconditionally; a
// general entity reference consults the grammar and, if unresolved,
// is reported via SkippedEntity (or, in a validating or pedantic
// parse, is a fatal error).
func (c *parserCtx) parseCharOrEntityRef() (string, error) {
	end := strings.IndexByte(c.rest(), ';')
	if end < 0 {
		return "", c.fatal(WellFormednessErrorKind, "unterminated reference")
	}
	ref := c.text[c.pos : c.pos+end+1]
	name := ref[1 : len(ref)-1]
	c.advance(end + 1)

	if strings.HasPrefix(name, "#") {
		var code int64
		var err error
		if strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X") {
			code, err = strconv.ParseInt(name[2:], 16, 32)
		} else {
			code, err = strconv.ParseInt(name[1:], 10, 32)
		}
		if err != nil || !xmlchar.IsChar10(rune(code)) {
			return "", c.fatal(WellFormednessErrorKind, "invalid character reference %q", ref)
		}
		return string(rune(code)), nil
	}

	if v, ok := predefinedCharByName[name]; ok {
		return v, nil
	}

	if e, ok := c.grammar.ResolveEntity(name); ok {
		if e.IsUnparsed() {
			return "", c.fatal(WellFormednessErrorKind, "unparsed entity %q cannot be referenced in content", name)
		}
		if e.IsExternal() {
			// External general entities are not fetched by this
			// engine; report the gap through SkippedEntity rather than
			// silently dropping it.
			return "", c.handler.SkippedEntity(c, name)
		}
		return e.Value(), nil
	}

	if c.cfg.validating() || c.cfg.pedantic() {
		return "", c.fatal(WellFormednessErrorKind, "undeclared entity %q", name)
	}
	return "", c.handler.SkippedEntity(c, name)
}

// expandReferences expands character and general-entity references
// in an attribute value (inAttr=true also applies XML 1.0 §3.3.3
// literal whitespace normalization: every literal tab/newline/CR
// becomes a plain space before entity expansion).
func (c *parserCtx) expandReferences(raw string, inAttr bool) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if inAttr && (ch == '\t' || ch == '\n' || ch == '\r') {
			b.WriteByte(' ')
			i++
			continue
		}
		if ch != '&' {
			b.WriteByte(ch)
			i++
			continue
		}
		end := strings.IndexByte(raw[i:], ';')
		if end < 0 {
			return b.String(), fmt.Errorf("unterminated reference in value")
		}
		ref := raw[i : i+end+1]
		name := ref[1 : len(ref)-1]
		i += end + 1

		if strings.HasPrefix(name, "#") {
			var code int64
			var err error
			if strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X") {
				code, err = strconv.ParseInt(name[2:], 16, 32)
			} else {
				code, err = strconv.ParseInt(name[1:], 10, 32)
			}
			if err != nil || !xmlchar.IsChar10(rune(code)) {
				return b.String(), fmt.Errorf("invalid character reference %q", ref)
			}
			b.WriteRune(rune(code))
			continue
		}
		if v, ok := predefinedCharByName[name]; ok {
			b.WriteString(v)
			continue
		}
		if c.grammar != nil {
			if e, ok := c.grammar.ResolveEntity(name); ok && !e.IsExternal() {
				expanded, err := c.expandReferences(e.Value(), false)
				if err != nil {
					return b.String(), err
				}
				b.WriteString(expanded)
				continue
			}
		}
		return b.String(), fmt.Errorf("undeclared entity %q in attribute value", name)
	}
	return b.String(), nil
}
