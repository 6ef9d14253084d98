// Package sax defines the handler contract the parser drives: a
// SAX2-flavored set of interfaces split the way libxml2/SAX2 split
// them (core content events, DTD declaration events, lexical events,
// entity resolution, and a couple of non-standard extension hooks),
// plus a Handler aggregate and a function-field dispatcher (SAX) so
// callers can wire up only the events they care about.
package sax

// Context is always passed as the first argument to SAX handlers. It
// is intentionally left opaque so applications can type-assert it
// back to whatever the parser actually hands them.
type Context interface{}

// DocumentLocator lets a handler ask where in the source a callback
// fired, for diagnostics.
type DocumentLocator interface {
	SystemID() string
	LineNumber() int
	ColumnNumber() int
}

// ParsedAttribute is a single attribute as reported by StartElement.
type ParsedAttribute interface {
	Prefix() string
	LocalName() string
	Name() string
	URI() string
	Value() string
	// Defaulted reports whether this attribute's value came from the
	// grammar's default rather than appearing in the source.
	Defaulted() bool
}

// ParsedElement is the (qualified name, attributes) pair reported by
// StartElement/EndElement.
type ParsedElement interface {
	Prefix() string
	URI() string
	LocalName() string
	Name() string
	Attributes() []ParsedAttribute
}

// Enumeration is the value list of an enumerated or NOTATION attribute
// declaration.
type Enumeration []string

// AttributeDefaultValue reports an attribute declaration's default
// disposition (#REQUIRED / #IMPLIED / #FIXED / a literal default) to
// DeclHandler.AttributeDecl.
type AttributeDefaultValue interface {
	IsRequired() bool
	IsImplied() bool
	IsFixed() bool
	Value() string
}

// ElementContentType distinguishes the particle kinds of a CHILDREN
// content model tree.
type ElementContentType int

const (
	ElementContentPCDATA ElementContentType = iota + 1
	ElementContentElement
	ElementContentSeq
	ElementContentOr
)

// ElementContentOccur is a particle's cardinality operator.
type ElementContentOccur int

const (
	ElementContentOnce ElementContentOccur = iota + 1
	ElementContentOpt
	ElementContentMult
	ElementContentPlus
)

// ElementContent is a read-only view over one content-model particle,
// reported to DeclHandler.ElementDecl.
type ElementContent interface {
	Type() ElementContentType
	Occur() ElementContentOccur
	Name() string
	Prefix() string
	FirstChild() ElementContent
	SecondChild() ElementContent
}

// Entity is a read-only view over a declared general or parameter
// entity, returned by GetEntity/GetParameterEntity/ResolveEntity.
type Entity interface {
	Name() string
	Value() string
	SystemID() string
	PublicID() string
	NotationName() string
	IsParameter() bool
}

// DTDHandler receives notification of basic DTD-related events: see
// http://sax.sourceforge.net/apidoc/org/xml/sax/DTDHandler.html
type DTDHandler interface {
	NotationDecl(ctx Context, name string, publicID string, systemID string) error
	UnparsedEntityDecl(ctx Context, name string, publicID string, systemID string, notation string) error
}

// ContentHandler is the core SAX2 handler: document and element
// structure, character data, processing instructions.
type ContentHandler interface {
	// Receive an object for locating the origin of SAX document events.
	SetDocumentLocator(ctx Context, loc DocumentLocator) error
	// Receive notification of the beginning of a document.
	StartDocument(ctx Context) error
	EndDocument(ctx Context) error
	// Receive notification of a processing instruction.
	ProcessingInstruction(ctx Context, target string, data string) error
	// Receive notification of the beginning/end of an element.
	StartElement(ctx Context, elem ParsedElement) error
	EndElement(ctx Context, elem ParsedElement) error
	Characters(ctx Context, content []byte) error
	// Receive notification of ignorable whitespace in element content.
	IgnorableWhitespace(ctx Context, content []byte) error
	// Receive notification of a skipped entity.
	SkippedEntity(ctx Context, name string) error
}

// DeclHandler is a SAX2 extension handler for DTD declaration events.
// Note the signature differs from the upstream SAX2 DeclHandler
// extension (which has no typ/content parameters): a content model
// and attribute type need to reach the handler for it to be useful to
// a tree builder or a grammar-checking tool.
type DeclHandler interface {
	AttributeDecl(ctx Context, eName string, aName string, typ int, deftype int, value AttributeDefaultValue, enum Enumeration) error

	// ElementDecl is called when an element definition has been parsed.
	// Note that the signature differs from SAX2 API in http://sax.sourceforge.net/apidoc/org/xml/sax/ext/DeclHandler.html#elementDecl%28java.lang.String%2C%20java.lang.String%29
	ElementDecl(ctx Context, name string, typ int, content ElementContent) error
	ExternalEntityDecl(ctx Context, name string, publicID string, systemID string) error
	InternalEntityDecl(ctx Context, name string, value string) error
}

// LexicalHandler is SAX2 extension for lexical events
type LexicalHandler interface {
	Comment(ctx Context, content []byte) error
	StartCDATA(ctx Context) error
	EndCDATA(ctx Context) error
	StartDTD(ctx Context, name string, publicID string, systemID string) error
	EndDTD(ctx Context) error
	StartEntity(ctx Context, name string) error
	EndEntity(ctx Context, name string) error
}

// EntityResolver is an extended interface for mapping external entity
// references to input sources, or providing a missing external subset.
type EntityResolver interface {
	GetExternalSubset(ctx Context, name string, baseURI string) error
	ResolveEntity(ctx Context, name string, publicID string, baseURI string, systemID string) (Entity, error)
}

// Extensions bundles non-standard hooks for a handler that also wants
// to drive entity/subset bookkeeping (TreeBuilder implements them in
// addition to the standard handlers). The parser in this module does
// not call them.
type Extensions interface {
	ExternalSubset(ctx Context, name string, publicID string, systemID string) error
	InternalSubset(ctx Context, name string, publicID string, systemID string) error
	GetEntity(ctx Context, name string) (Entity, error)
	GetParameterEntity(ctx Context, name string) (Entity, error)
}

// Handler aggregates every event family the parser can emit. A handler
// implements all of it; *SAX supplies no-op behavior for every
// callback whose function field is left nil.
type Handler interface {
	ContentHandler
	DTDHandler
	DeclHandler
	LexicalHandler
	EntityResolver
	Extensions
}
