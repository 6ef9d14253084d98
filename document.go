package typesxml

// Document is the root of the in-memory tree the DOM builder
// assembles: a single root Element plus the XML declaration's
// version/encoding/standalone status and the internal/external DTD
// subsets.
//
// The internal and external subsets are both stored as the same DTD
// grammar-storage type (dtd.go) rather than a separate thin
// DocumentType struct, since that is the type with real
// entity/attribute/content-model handling behind it.
type Document struct {
	docnode
	version    string
	encoding   string
	standalone DocumentStandaloneType

	intSubset *DTD
	extSubset *DTD
}

// NewDocument creates an empty Document; AddChild attaches the root
// element (and, before/after it, comments and processing
// instructions).
func NewDocument(version, encoding string, standalone DocumentStandaloneType) *Document {
	d := &Document{version: version, encoding: encoding, standalone: standalone}
	d.etype = DocumentNode
	d.doc = d
	return d
}

func (d *Document) Version() string                    { return d.version }
func (d *Document) Encoding() string                    { return d.encoding }
func (d *Document) Standalone() DocumentStandaloneType  { return d.standalone }
func (d *Document) IntSubset() *DTD                     { return d.intSubset }
func (d *Document) ExtSubset() *DTD                     { return d.extSubset }
func (d *Document) SetIntSubset(dtd *DTD)                { d.intSubset = dtd }
func (d *Document) SetExtSubset(dtd *DTD)                { d.extSubset = dtd }

// Content/AddContent: a Document holds no character data of its own.
func (d *Document) Content() []byte         { return nil }
func (d *Document) AddContent([]byte) error { return ErrInvalidOperation }

// AddChild attaches child (the root Element, or a prolog/epilog
// Comment/ProcessingInstruction) as the document's next top-level
// node.
func (d *Document) AddChild(child Node) error { return addChild(d, child) }

// AddSibling is invalid at the document level: there is exactly one
// document node.
func (d *Document) AddSibling(Node) error { return ErrInvalidOperation }

// DocumentElement returns the single root Element, or nil if none has
// been added yet.
func (d *Document) DocumentElement() *Element {
	for c := d.FirstChild(); c != nil; c = c.NextSibling() {
		if e, ok := c.(*Element); ok {
			return e
		}
	}
	return nil
}

// activeDTDs picks which DTD subset entity/attribute lookups should
// consult: the internal subset always participates; the external
// subset only when the document is not marked standalone.
func (d *Document) activeDTDs() []*DTD {
	var out []*DTD
	if d.intSubset != nil {
		out = append(out, d.intSubset)
	}
	if d.standalone != StandaloneExplicitYes && d.extSubset != nil {
		out = append(out, d.extSubset)
	}
	return out
}

// GetEntity resolves a general entity by name: predefined entities
// first, then the internal subset, then (unless standalone) the
// external subset.
func (d *Document) GetEntity(name string) (*Entity, bool) {
	if v, ok := predefinedCharByName[name]; ok {
		return newEntity(name, InternalPredefinedEntity, "", "", v), true
	}
	for _, dtd := range d.activeDTDs() {
		if e, ok := dtd.Entity(name); ok {
			return e, true
		}
	}
	return nil, false
}

// GetParameterEntity resolves a parameter entity by name (without the
// leading '%'), consulting the internal subset then the external
// subset.
func (d *Document) GetParameterEntity(name string) (*Entity, bool) {
	for _, dtd := range d.activeDTDs() {
		if e, ok := dtd.ParameterEntity(name); ok {
			return e, true
		}
	}
	return nil, false
}

// Grammar returns a Grammar view over whichever DTD subsets are
// active, merged into one DTDGrammar, or NoOpGrammar if the document
// has no DOCTYPE at all.
func (d *Document) Grammar() Grammar {
	dtds := d.activeDTDs()
	switch len(dtds) {
	case 0:
		return NoOpGrammar{}
	case 1:
		return NewDTDGrammar(dtds[0])
	default:
		merged := NewDTD(dtds[0].docnode.name, dtds[0].publicID, dtds[0].systemID)
		for _, dtd := range dtds {
			merged.Merge(dtd)
		}
		if err := merged.ProcessModels(); err != nil {
			// Content models were already processed on each source
			// DTD; Merge copies the same *ElementDecl pointers, so
			// this can only fail if a caller bypassed ProcessModels
			// on a source DTD. Surface nothing here — ValidateElement
			// will report the unprocessed model instead.
			_ = err
		}
		return NewDTDGrammar(merged)
	}
}

// --- node construction -------------------------------------------------

// CreateElement creates an Element owned by d, not yet attached to
// the tree.
func (d *Document) CreateElement(localName string) (*Element, error) {
	if localName == "" {
		return nil, ErrInvalidOperation
	}
	e := &Element{}
	e.name = localName
	e.etype = ElementNode
	e.doc = d
	return e, nil
}

// CreateElementNS is CreateElement plus a namespace prefix/URI.
func (d *Document) CreateElementNS(localName, prefix, uri string) (*Element, error) {
	e, err := d.CreateElement(localName)
	if err != nil {
		return nil, err
	}
	e.prefix = prefix
	e.uri = uri
	return e, nil
}

func (d *Document) CreateText(content []byte) *Text {
	t := &Text{}
	t.etype = TextNode
	t.doc = d
	t.content = append([]byte(nil), content...)
	return t
}

func (d *Document) CreateCDATA(content []byte) *CDATA {
	c := &CDATA{}
	c.etype = CDATASectionNode
	c.doc = d
	c.content = append([]byte(nil), content...)
	return c
}

func (d *Document) CreateComment(content []byte) (*Comment, error) {
	c := &Comment{}
	c.etype = CommentNode
	c.doc = d
	c.content = append([]byte(nil), content...)
	return c, nil
}

func (d *Document) CreatePI(target, data string) (*ProcessingInstruction, error) {
	if target == "" {
		return nil, ErrInvalidOperation
	}
	p := &ProcessingInstruction{target: target, data: data}
	p.etype = ProcessingInstructionNode
	p.doc = d
	return p, nil
}
