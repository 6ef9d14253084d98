package typesxml

// ParseOption is a bitmask of parser behaviors, modeled after the
// libxml2-style xmlParserOption flags. The XInclude-family flags have
// no XInclude processor here and are not defined. Every flag below
// except ParseNoError is consulted by the parser or the tree builder.
type ParseOption int

const (
	// ParseRecover keeps going past the errors the parser treats as
	// recoverable (a malformed internal DTD subset or content model,
	// a bad reference in an attribute value, an unreadable external
	// subset, validity errors), reporting them to the WarningSink.
	// Other well-formedness errors, such as a mismatched end tag,
	// still abort the parse.
	ParseRecover ParseOption = 1 << iota
	// ParseDTDLoad fetches and parses the external DTD subset even if
	// validation is off (needed to pick up default attribute values
	// and entity declarations it carries).
	ParseDTDLoad
	// ParseDTDAttr adds default attribute values from the DTD into
	// every element, whether or not ParseDTDValid is set.
	ParseDTDAttr
	// ParseDTDValid validates against the DTD and reports validity
	// errors as fatal.
	ParseDTDValid
	// ParseNoError is not consulted by the parser: fatal errors are
	// returned whether or not it is set.
	ParseNoError
	// ParseNoWarning suppresses WarningSink delivery entirely.
	ParseNoWarning
	// ParseNoBlanks drops whitespace-only text nodes between element
	// children that IgnorableWhitespace would otherwise report.
	ParseNoBlanks
	// ParsePedantic promotes a handful of validity-adjacent conditions
	// (e.g. an unresolved entity in a non-validating parse) to fatal.
	ParsePedantic
)

func (o ParseOption) has(flag ParseOption) bool { return o&flag != 0 }

// Config bundles the options a Parser is constructed with: which
// grammar to validate against (nil means "build one from the
// document's own DOCTYPE"), a catalog for external identifier
// resolution, the behavior flags above, and where to send non-fatal
// diagnostics.
type Config struct {
	Options    ParseOption
	Catalog    *Catalog
	Grammar    Grammar // pre-supplied grammar; nil means derive from the DOCTYPE
	Warn       WarningSink
	XMLVersion string // assumed XML version if no declaration is present; defaults to "1.0"
}

func (c *Config) validating() bool { return c != nil && c.Options.has(ParseDTDValid) }
func (c *Config) loadDTD() bool {
	return c != nil && (c.Options.has(ParseDTDLoad) || c.Options.has(ParseDTDValid) || c.Options.has(ParseDTDAttr))
}
func (c *Config) addDefaultAttrs() bool {
	return c != nil && (c.Options.has(ParseDTDAttr) || c.Options.has(ParseDTDValid))
}
func (c *Config) recover() bool   { return c != nil && c.Options.has(ParseRecover) }
func (c *Config) keepBlanks() bool { return c == nil || !c.Options.has(ParseNoBlanks) }
func (c *Config) pedantic() bool  { return c != nil && c.Options.has(ParsePedantic) }

func (c *Config) warn(e *XMLError) {
	if c == nil || c.Warn == nil || c.Options.has(ParseNoWarning) {
		return
	}
	c.Warn(e)
}

func (c *Config) xmlVersion() string {
	if c != nil && c.XMLVersion != "" {
		return c.XMLVersion
	}
	return "1.0"
}
