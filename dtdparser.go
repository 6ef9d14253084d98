package typesxml

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rmraya/typesxml/internal/charsrc"
	"github.com/rmraya/typesxml/internal/xmlchar"
)

// DTDParser reads the internal or external DTD subset:
// element/attribute-list/entity/notation declarations, conditional
// sections, comments, and processing instructions, all merged into a
// *DTD grammar with first-declaration-wins semantics.
type DTDParser struct {
	catalog    *Catalog
	validating bool
	warn       WarningSink
}

// NewDTDParser builds a parser. catalog may be nil (no catalog
// resolution, external identifiers are resolved relative to baseDir
// only). warn may be nil (warnings discarded).
func NewDTDParser(catalog *Catalog, validating bool, warn WarningSink) *DTDParser {
	return &DTDParser{catalog: catalog, validating: validating, warn: warn}
}

func (p *DTDParser) warnf(systemID string, format string, args ...interface{}) {
	if p.warn == nil {
		return
	}
	p.warn(newFatal(WellFormednessErrorKind, systemID, 0, format, args...))
}

// ParseInternalSubset parses the text found between the `[` and `]`
// of a `<!DOCTYPE ... [ ... ]>`, merging declarations into dtd.
func (p *DTDParser) ParseInternalSubset(text string, dtd *DTD, baseDir string) error {
	return p.parseSubset(text, dtd, baseDir, dtd.SystemID())
}

// ParseExternalSubset resolves systemID/publicID (via the catalog,
// falling back to baseDir-relative resolution), reads the referenced
// file, and parses it as a DTD subset, merging into dtd. External
// subset content is fetched only when actually needed, never eagerly.
func (p *DTDParser) ParseExternalSubset(publicID, systemID, baseDir string, dtd *DTD) error {
	path := p.resolveExternal(publicID, systemID, baseDir)
	src, err := charsrc.NewFile(path, "")
	if err != nil {
		return newFatal(ResourceErrorKind, systemID, 0, "cannot open external DTD subset %q: %v", path, err)
	}
	defer src.Close()

	var b strings.Builder
	for src.DataAvailable() {
		chunk, err := src.Read()
		if err != nil {
			return newFatal(ResourceErrorKind, systemID, 0, "cannot read external DTD subset %q: %v", path, err)
		}
		if chunk == "" {
			break
		}
		b.WriteString(chunk)
	}
	return p.parseSubset(b.String(), dtd, filepath.Dir(path), systemID)
}

func (p *DTDParser) resolveExternal(publicID, systemID, baseDir string) string {
	if p.catalog != nil {
		if path, ok := p.catalog.Resolve(publicID, systemID); ok {
			return path
		}
	}
	if filepath.IsAbs(systemID) || baseDir == "" {
		return systemID
	}
	return filepath.Join(baseDir, systemID)
}

// parseSubset is the shared declaration-dispatch loop used by both
// ParseInternalSubset and ParseExternalSubset (and, recursively, by
// an external parameter entity reference).
func (p *DTDParser) parseSubset(text string, dtd *DTD, baseDir, systemID string) error {
	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case xmlchar.IsWhitespace(rune(c)):
			i++
		case strings.HasPrefix(text[i:], "<!--"):
			end := strings.Index(text[i+4:], "-->")
			if end < 0 {
				return newFatal(WellFormednessErrorKind, systemID, int64(i), "unterminated comment in DTD subset")
			}
			i += 4 + end + 3
		case strings.HasPrefix(text[i:], "<?"):
			end := strings.Index(text[i+2:], "?>")
			if end < 0 {
				return newFatal(WellFormednessErrorKind, systemID, int64(i), "unterminated processing instruction in DTD subset")
			}
			i += 2 + end + 2
		case strings.HasPrefix(text[i:], "<![") :
			consumed, err := p.parseConditional(text[i:], dtd, baseDir, systemID)
			if err != nil {
				return err
			}
			i += consumed
		case strings.HasPrefix(text[i:], "<!ELEMENT"):
			consumed, err := p.parseElementDecl(text[i:], dtd, systemID)
			if err != nil {
				return err
			}
			i += consumed
		case strings.HasPrefix(text[i:], "<!ATTLIST"):
			consumed, err := p.parseAttlistDecl(text[i:], dtd, systemID)
			if err != nil {
				return err
			}
			i += consumed
		case strings.HasPrefix(text[i:], "<!ENTITY"):
			consumed, err := p.parseEntityDecl(text[i:], dtd, baseDir, systemID)
			if err != nil {
				return err
			}
			i += consumed
		case strings.HasPrefix(text[i:], "<!NOTATION"):
			consumed, err := p.parseNotationDecl(text[i:], dtd, systemID)
			if err != nil {
				return err
			}
			i += consumed
		case c == '%':
			consumed, err := p.parseTopLevelPERef(text[i:], dtd, baseDir, systemID, func(expanded string) error {
				return p.parseSubset(expanded, dtd, baseDir, systemID)
			})
			if err != nil {
				return err
			}
			i += consumed
		default:
			return newFatal(WellFormednessErrorKind, systemID, int64(i), "unexpected content in DTD subset: %q", snippet(text[i:]))
		}
	}
	return nil
}

func snippet(s string) string {
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}

// parseTopLevelPERef handles a bare `%name;` appearing between
// declarations: an internal parameter entity's value is spliced in
// and parsed recursively as textual substitution at the current
// position; an external one is parsed as a DTD subset of its own,
// with a sub-parser invoked recursively and the resulting grammar
// merged back in.
func (p *DTDParser) parseTopLevelPERef(text string, dtd *DTD, baseDir, systemID string, parseExpanded func(string) error) (int, error) {
	end := strings.IndexByte(text, ';')
	if end < 0 {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated parameter entity reference")
	}
	name := text[1:end]
	if !xmlchar.IsName(name) {
		if p.validating {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "invalid parameter entity name %q", name)
		}
		p.warnf(systemID, "invalid parameter entity name %q", name)
		return end + 1, nil
	}
	ent, ok := dtd.ParameterEntity(name)
	if !ok {
		if p.validating {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unresolved parameter entity %%%s;", name)
		}
		p.warnf(systemID, "unresolved parameter entity %%%s;", name)
		return end + 1, nil
	}
	if ent.IsExternal() {
		sub := NewDTD(dtd.docnode.name, ent.publicID, ent.systemID)
		if err := p.ParseExternalSubset(ent.publicID, ent.systemID, baseDir, sub); err != nil {
			return 0, err
		}
		dtd.Merge(sub)
		return end + 1, nil
	}
	if err := parseExpanded(ent.Value()); err != nil {
		return 0, err
	}
	return end + 1, nil
}

// parseConditional handles `<![ INCLUDE [ ... ]]>` and
// `<![ IGNORE [ ... ]]>`. The keyword may itself be a parameter
// entity reference, which is expanded first.
func (p *DTDParser) parseConditional(text string, dtd *DTD, baseDir, systemID string) (int, error) {
	// text starts with "<!["
	i := 3
	for i < len(text) && xmlchar.IsWhitespace(rune(text[i])) {
		i++
	}
	start := i
	for i < len(text) && text[i] != '[' && !xmlchar.IsWhitespace(rune(text[i])) {
		i++
	}
	keyword := text[start:i]
	if strings.HasPrefix(keyword, "%") {
		expanded, err := dtd.ResolveParameterEntities(keyword)
		if err != nil {
			return 0, err
		}
		keyword = strings.TrimSpace(expanded)
	}
	for i < len(text) && text[i] != '[' {
		i++
	}
	if i >= len(text) {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "malformed conditional section")
	}
	i++ // consume the inner '['

	bodyStart := i
	depth := 1
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "<!["):
			depth++
			i += 3
		case strings.HasPrefix(text[i:], "]]>"):
			depth--
			if depth == 0 {
				body := text[bodyStart:i]
				end := i + 3
				switch keyword {
				case "INCLUDE":
					if err := p.parseSubset(body, dtd, baseDir, systemID); err != nil {
						return 0, err
					}
				case "IGNORE":
					// skipped entirely
				default:
					return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unknown conditional section keyword %q", keyword)
				}
				return end, nil
			}
			i += 3
		default:
			i++
		}
	}
	return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated conditional section")
}

// findDeclEnd scans text (which starts at the declaration keyword)
// for the '>' that closes the declaration, honoring quoted strings so
// a '>' inside a literal default value doesn't end the scan early.
func findDeclEnd(text string) int {
	inQuote := byte(0)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '>':
			return i
		}
	}
	return -1
}

func (p *DTDParser) parseElementDecl(text string, dtd *DTD, systemID string) (int, error) {
	end := findDeclEnd(text)
	if end < 0 {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated <!ELEMENT declaration")
	}
	body := strings.TrimSpace(text[len("<!ELEMENT") : end])
	name, rest, err := splitName(body)
	if err != nil {
		return 0, wrapWF(systemID, "<!ELEMENT", err)
	}
	spec := strings.TrimSpace(rest)
	expanded, err := dtd.ResolveParameterEntities(spec)
	if err != nil {
		return 0, err
	}
	dtd.AddElementDecl(newElementDecl(name, expanded))
	return end + 1, nil
}

func splitName(body string) (name, rest string, err error) {
	i := 0
	for i < len(body) && !xmlchar.IsWhitespace(rune(body[i])) {
		i++
	}
	name = body[:i]
	if !xmlchar.IsName(name) {
		return "", "", fmt.Errorf("invalid name %q", name)
	}
	return name, body[i:], nil
}

func wrapWF(systemID, context string, err error) *XMLError {
	return newFatal(WellFormednessErrorKind, systemID, 0, "%s: %v", context, err)
}

// parseAttlistDecl parses `<!ATTLIST elem (name type default)+ >`.
// Parameter entities are expanded over the whole body before
// splitting; splitting respects quoted strings and parenthesized
// enumerations and requires whitespace between tokens.
func (p *DTDParser) parseAttlistDecl(text string, dtd *DTD, systemID string) (int, error) {
	end := findDeclEnd(text)
	if end < 0 {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated <!ATTLIST declaration")
	}
	body := strings.TrimSpace(text[len("<!ATTLIST") : end])
	expanded, err := dtd.ResolveParameterEntities(body)
	if err != nil {
		return 0, err
	}
	elem, rest, err := splitName(expanded)
	if err != nil {
		return 0, wrapWF(systemID, "<!ATTLIST", err)
	}

	toks := tokenizeAttlistBody(rest)
	idx := 0
	for idx < len(toks) {
		aName := toks[idx]
		idx++
		if !xmlchar.IsName(aName) {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s: invalid attribute name %q", elem, aName)
		}
		if idx >= len(toks) {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s: attribute %q has no type", elem, aName)
		}
		atype, enum, consumed, err := parseAttType(toks[idx:])
		if err != nil {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s.%s: %v", elem, aName, err)
		}
		idx += consumed
		if idx >= len(toks) {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s.%s: missing default", elem, aName)
		}
		def, defValue, consumed, err := parseAttDefault(toks[idx:])
		if err != nil {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s.%s: %v", elem, aName, err)
		}
		idx += consumed

		decl, err := NewAttributeDecl(elem, aName, atype, def, defValue, enum)
		if err != nil {
			return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ATTLIST %s.%s: %v", elem, aName, err)
		}
		dtd.AddAttributeDecl(decl)
	}
	return end + 1, nil
}

// tokenizeAttlistBody splits on whitespace while keeping quoted
// strings and parenthesized enumerations intact as single tokens.
func tokenizeAttlistBody(body string) []string {
	var toks []string
	i := 0
	n := len(body)
	for i < n {
		for i < n && xmlchar.IsWhitespace(rune(body[i])) {
			i++
		}
		if i >= n {
			break
		}
		switch body[i] {
		case '"', '\'':
			quote := body[i]
			start := i
			i++
			for i < n && body[i] != quote {
				i++
			}
			if i < n {
				i++
			}
			toks = append(toks, body[start:i])
		case '(':
			depth := 1
			start := i
			i++
			for i < n && depth > 0 {
				if body[i] == '(' {
					depth++
				} else if body[i] == ')' {
					depth--
				}
				i++
			}
			toks = append(toks, body[start:i])
		default:
			start := i
			for i < n && !xmlchar.IsWhitespace(rune(body[i])) && body[i] != '(' {
				i++
			}
			toks = append(toks, body[start:i])
		}
	}
	return toks
}

func parseAttType(toks []string) (AttributeType, Enumeration, int, error) {
	t := toks[0]
	switch t {
	case "CDATA":
		return AttrCDATA, nil, 1, nil
	case "ID":
		return AttrID, nil, 1, nil
	case "IDREF":
		return AttrIDRef, nil, 1, nil
	case "IDREFS":
		return AttrIDRefs, nil, 1, nil
	case "ENTITY":
		return AttrEntity, nil, 1, nil
	case "ENTITIES":
		return AttrEntities, nil, 1, nil
	case "NMTOKEN":
		return AttrNmtoken, nil, 1, nil
	case "NMTOKENS":
		return AttrNmtokens, nil, 1, nil
	case "NOTATION":
		if len(toks) < 2 || !strings.HasPrefix(toks[1], "(") {
			return 0, nil, 0, fmt.Errorf("NOTATION must be followed by an enumeration")
		}
		enum, err := parseEnumerationGroup(toks[1])
		if err != nil {
			return 0, nil, 0, err
		}
		return AttrNotation, enum, 2, nil
	default:
		if strings.HasPrefix(t, "(") {
			enum, err := parseEnumerationGroup(t)
			if err != nil {
				return 0, nil, 0, err
			}
			return AttrEnumeration, enum, 1, nil
		}
		return 0, nil, 0, fmt.Errorf("unrecognized attribute type %q", t)
	}
}

func parseEnumerationGroup(tok string) (Enumeration, error) {
	if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
		return nil, fmt.Errorf("malformed enumeration %q", tok)
	}
	inner := tok[1 : len(tok)-1]
	parts := strings.Split(inner, "|")
	out := make(Enumeration, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out, nil
}

func parseAttDefault(toks []string) (AttributeDefault, string, int, error) {
	t := toks[0]
	switch t {
	case "#REQUIRED":
		return AttrDefaultRequired, "", 1, nil
	case "#IMPLIED":
		return AttrDefaultImplied, "", 1, nil
	case "#FIXED":
		if len(toks) < 2 {
			return 0, "", 0, fmt.Errorf("#FIXED requires a default value")
		}
		val, err := unquote(toks[1])
		if err != nil {
			return 0, "", 0, err
		}
		return AttrDefaultFixed, val, 2, nil
	default:
		val, err := unquote(t)
		if err != nil {
			return 0, "", 0, err
		}
		return AttrDefaultNone, val, 1, nil
	}
}

func unquote(tok string) (string, error) {
	if len(tok) < 2 || (tok[0] != '"' && tok[0] != '\'') || tok[len(tok)-1] != tok[0] {
		return "", fmt.Errorf("expected a quoted literal, got %q", tok)
	}
	return tok[1 : len(tok)-1], nil
}

// parseEntityDecl parses `<!ENTITY [%] name "value">` or
// `<!ENTITY [%] name (SYSTEM|PUBLIC) ... [NDATA name]>`. Literal
// values have CRLF/CR->LF normalized (already done by the character
// source for the whole subset) and, for both general and parameter
// entities, undergo parameter-entity expansion immediately.
func (p *DTDParser) parseEntityDecl(text string, dtd *DTD, baseDir, systemID string) (int, error) {
	end := findDeclEnd(text)
	if end < 0 {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated <!ENTITY declaration")
	}
	body := strings.TrimSpace(text[len("<!ENTITY") : end])

	isParam := false
	if strings.HasPrefix(body, "%") {
		isParam = true
		body = strings.TrimSpace(body[1:])
	}
	name, rest, err := splitName(body)
	if err != nil {
		return 0, wrapWF(systemID, "<!ENTITY", err)
	}
	rest = strings.TrimSpace(rest)

	var ent *Entity
	switch {
	case strings.HasPrefix(rest, "\"") || strings.HasPrefix(rest, "'"):
		value, err := unquote(rest)
		if err != nil {
			return 0, wrapWF(systemID, "<!ENTITY", err)
		}
		expanded, err := dtd.ResolveParameterEntities(value)
		if err != nil {
			return 0, err
		}
		etype := InternalGeneralEntity
		if isParam {
			etype = InternalParameterEntity
		}
		ent = newEntity(name, etype, "", "", expanded)
	case strings.HasPrefix(rest, "SYSTEM") || strings.HasPrefix(rest, "PUBLIC"):
		publicID, sysID, tail, err := parseExternalID(rest)
		if err != nil {
			return 0, wrapWF(systemID, "<!ENTITY", err)
		}
		ndata := ""
		tail = strings.TrimSpace(tail)
		if strings.HasPrefix(tail, "NDATA") {
			ndata = strings.TrimSpace(tail[len("NDATA"):])
		}
		etype := ExternalGeneralParsedEntity
		switch {
		case isParam:
			etype = ExternalParameterEntity
		case ndata != "":
			etype = ExternalGeneralUnparsedEntity
		}
		ent = newEntity(name, etype, publicID, resolveSystemIDPath(baseDir, sysID), "")
		ent.ndata = ndata
	default:
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "<!ENTITY %s: expected a literal value or SYSTEM/PUBLIC", name)
	}
	dtd.AddEntity(ent)
	return end + 1, nil
}

func resolveSystemIDPath(baseDir, systemID string) string {
	if baseDir == "" || filepath.IsAbs(systemID) {
		return systemID
	}
	return filepath.Join(baseDir, systemID)
}

// parseExternalID parses `SYSTEM "sysid"` or `PUBLIC "pubid" "sysid"`,
// returning whatever text follows (e.g. an NDATA clause).
func parseExternalID(s string) (publicID, systemID, tail string, err error) {
	switch {
	case strings.HasPrefix(s, "SYSTEM"):
		s = strings.TrimSpace(s[len("SYSTEM"):])
		sys, rest, err := readQuotedLiteral(s)
		if err != nil {
			return "", "", "", err
		}
		return "", sys, rest, nil
	case strings.HasPrefix(s, "PUBLIC"):
		s = strings.TrimSpace(s[len("PUBLIC"):])
		pub, rest, err := readQuotedLiteral(s)
		if err != nil {
			return "", "", "", err
		}
		rest = strings.TrimSpace(rest)
		if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
			return pub, "", rest, nil
		}
		sys, rest2, err := readQuotedLiteral(rest)
		if err != nil {
			return "", "", "", err
		}
		return pub, sys, rest2, nil
	default:
		return "", "", "", fmt.Errorf("expected SYSTEM or PUBLIC")
	}
}

func readQuotedLiteral(s string) (value, rest string, err error) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return "", "", fmt.Errorf("expected a quoted literal")
	}
	quote := s[0]
	end := strings.IndexByte(s[1:], quote)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated quoted literal")
	}
	return s[1 : 1+end], s[1+end+1:], nil
}

func (p *DTDParser) parseNotationDecl(text string, dtd *DTD, systemID string) (int, error) {
	end := findDeclEnd(text)
	if end < 0 {
		return 0, newFatal(WellFormednessErrorKind, systemID, 0, "unterminated <!NOTATION declaration")
	}
	body := strings.TrimSpace(text[len("<!NOTATION") : end])
	name, rest, err := splitName(body)
	if err != nil {
		return 0, wrapWF(systemID, "<!NOTATION", err)
	}
	publicID, sysID, _, err := parseExternalID(strings.TrimSpace(rest))
	if err != nil {
		return 0, wrapWF(systemID, "<!NOTATION", err)
	}
	dtd.AddNotation(NewNotationDecl(name, publicID, sysID))
	return end + 1, nil
}
