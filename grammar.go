package typesxml

import "fmt"

// GrammarType identifies which concrete grammar flavor a Grammar
// implementation is. RelaxNG/XSD are named here as scaffolding for a
// future implementation, even though only DTDGrammar has a full
// implementation in this module.
type GrammarType int

const (
	GrammarNone GrammarType = iota
	GrammarDTD
	GrammarRelaxNG
	GrammarXMLSchema
)

func (g GrammarType) String() string {
	switch g {
	case GrammarDTD:
		return "DTD"
	case GrammarRelaxNG:
		return "RelaxNG"
	case GrammarXMLSchema:
		return "XMLSchema"
	default:
		return "none"
	}
}

// AttributeInfo is what Grammar.GetElementAttributes/GetDefaultAttributes
// report per attribute.
type AttributeInfo struct {
	Type         AttributeType
	Default      AttributeDefault
	DefaultValue string
}

// Grammar is the single contract every grammar flavor implements. The
// SAX parser talks only to this interface, never to
// DTD/ContentModel/AttributeDecl directly, so that a RelaxNG or XML
// Schema grammar could be substituted without the parser changing.
type Grammar interface {
	// ValidateElement checks a child-name sequence against the
	// element's declared content model. An unknown element is an
	// error only when validating is true; success otherwise.
	ValidateElement(name string, children []string, validating bool) error
	// ValidateAttributes checks declared presence, #REQUIRED,
	// #FIXED, and type validity for attrs on element name. Attributes
	// in the xml: namespace are exempt when no declaration exists for
	// them.
	ValidateAttributes(name string, attrs map[string]string, validating bool) error
	GetElementAttributes(name string) map[string]AttributeInfo
	GetDefaultAttributes(name string) map[string]AttributeInfo
	ResolveEntity(name string) (*Entity, bool)
	ResolveParameterEntity(name string) (*Entity, bool)
	GetGrammarType() GrammarType
	GetTargetNamespace() string
	GetNamespaceDeclarations() []*Namespace
}

// NoOpGrammar accepts every element and attribute; it backs
// non-validating parses that carry no DTD.
type NoOpGrammar struct{}

func (NoOpGrammar) ValidateElement(string, []string, bool) error            { return nil }
func (NoOpGrammar) ValidateAttributes(string, map[string]string, bool) error { return nil }
func (NoOpGrammar) GetElementAttributes(string) map[string]AttributeInfo    { return nil }
func (NoOpGrammar) GetDefaultAttributes(string) map[string]AttributeInfo    { return nil }
func (NoOpGrammar) ResolveEntity(string) (*Entity, bool)                   { return nil, false }
func (NoOpGrammar) ResolveParameterEntity(string) (*Entity, bool)          { return nil, false }
func (NoOpGrammar) GetGrammarType() GrammarType                            { return GrammarNone }
func (NoOpGrammar) GetTargetNamespace() string                             { return "" }
func (NoOpGrammar) GetNamespaceDeclarations() []*Namespace                 { return nil }

var _ Grammar = NoOpGrammar{}

// DTDGrammar adapts a *DTD to the Grammar interface, delegating
// element-content checks to ContentModel.Matches and attribute checks
// to AttributeDecl.Validate.
type DTDGrammar struct {
	dtd *DTD
}

func NewDTDGrammar(dtd *DTD) *DTDGrammar { return &DTDGrammar{dtd: dtd} }

func (g *DTDGrammar) DTD() *DTD { return g.dtd }

func (g *DTDGrammar) ValidateElement(name string, children []string, validating bool) error {
	decl, ok := g.dtd.ElementDecl(name)
	if !ok {
		if validating {
			return fmt.Errorf("element %q is not declared in the DTD", name)
		}
		return nil
	}
	if decl.model == nil {
		return fmt.Errorf("element %q has an unprocessed content model", name)
	}
	return decl.model.Matches(name, children)
}

func (g *DTDGrammar) ValidateAttributes(name string, attrs map[string]string, validating bool) error {
	decls := g.dtd.AttributeDecls(name)
	for attrName, decl := range decls {
		value, present := attrs[attrName]
		if !present {
			if decl.def == AttrDefaultRequired {
				return fmt.Errorf("element %q is missing required attribute %q", name, attrName)
			}
			continue
		}
		if decl.def == AttrDefaultFixed && decl.NormalizeValue(value) != decl.defvalue {
			return fmt.Errorf("element %q attribute %q has value %q but is #FIXED to %q", name, attrName, value, decl.defvalue)
		}
		if err := decl.Validate(value, g.dtd.Notations()); err != nil {
			return fmt.Errorf("element %q attribute %q: %w", name, attrName, err)
		}
	}
	for attrName := range attrs {
		if _, declared := decls[attrName]; declared {
			continue
		}
		if isXMLNamespaceAttr(attrName) {
			continue
		}
		if validating {
			return fmt.Errorf("element %q has undeclared attribute %q", name, attrName)
		}
	}
	return nil
}

func isXMLNamespaceAttr(name string) bool {
	const prefix = XMLPrefix + ":"
	return len(name) > len(prefix) && name[:len(prefix)] == prefix
}

func (g *DTDGrammar) GetElementAttributes(name string) map[string]AttributeInfo {
	decls := g.dtd.AttributeDecls(name)
	if decls == nil {
		return nil
	}
	out := make(map[string]AttributeInfo, len(decls))
	for n, d := range decls {
		out[n] = AttributeInfo{Type: d.atype, Default: d.def, DefaultValue: d.defvalue}
	}
	return out
}

// GetDefaultAttributes returns the subset of GetElementAttributes
// with a value that should be defaulted in, i.e. defaultDecl is
// neither #REQUIRED nor #IMPLIED.
func (g *DTDGrammar) GetDefaultAttributes(name string) map[string]AttributeInfo {
	decls := g.dtd.AttributeDecls(name)
	if decls == nil {
		return nil
	}
	out := map[string]AttributeInfo{}
	for n, d := range decls {
		if d.HasFixedOrDefault() {
			out[n] = AttributeInfo{Type: d.atype, Default: d.def, DefaultValue: d.defvalue}
		}
	}
	return out
}

func (g *DTDGrammar) ResolveEntity(name string) (*Entity, bool) { return g.dtd.Entity(name) }
func (g *DTDGrammar) ResolveParameterEntity(name string) (*Entity, bool) {
	return g.dtd.ParameterEntity(name)
}
func (g *DTDGrammar) GetGrammarType() GrammarType         { return GrammarDTD }
func (g *DTDGrammar) GetTargetNamespace() string          { return "" }
func (g *DTDGrammar) GetNamespaceDeclarations() []*Namespace { return nil }

var _ Grammar = (*DTDGrammar)(nil)

// CompositeGrammar dispatches per-element across several Grammars,
// using the first one that has a declaration for the element name in
// question — e.g. a DTDGrammar plus a stub RelaxNG pattern grammar
// sharing the same document.
type CompositeGrammar struct {
	grammars []Grammar
}

func NewCompositeGrammar(grammars ...Grammar) *CompositeGrammar {
	return &CompositeGrammar{grammars: grammars}
}

func (c *CompositeGrammar) forElement(name string) Grammar {
	for _, g := range c.grammars {
		if dg, ok := g.(*DTDGrammar); ok {
			if _, declared := dg.dtd.ElementDecl(name); declared {
				return g
			}
			continue
		}
		if attrs := g.GetElementAttributes(name); attrs != nil {
			return g
		}
	}
	if len(c.grammars) > 0 {
		return c.grammars[0]
	}
	return NoOpGrammar{}
}

func (c *CompositeGrammar) ValidateElement(name string, children []string, validating bool) error {
	return c.forElement(name).ValidateElement(name, children, validating)
}

func (c *CompositeGrammar) ValidateAttributes(name string, attrs map[string]string, validating bool) error {
	return c.forElement(name).ValidateAttributes(name, attrs, validating)
}

func (c *CompositeGrammar) GetElementAttributes(name string) map[string]AttributeInfo {
	return c.forElement(name).GetElementAttributes(name)
}

func (c *CompositeGrammar) GetDefaultAttributes(name string) map[string]AttributeInfo {
	return c.forElement(name).GetDefaultAttributes(name)
}

func (c *CompositeGrammar) ResolveEntity(name string) (*Entity, bool) {
	for _, g := range c.grammars {
		if e, ok := g.ResolveEntity(name); ok {
			return e, true
		}
	}
	return nil, false
}

func (c *CompositeGrammar) ResolveParameterEntity(name string) (*Entity, bool) {
	for _, g := range c.grammars {
		if e, ok := g.ResolveParameterEntity(name); ok {
			return e, true
		}
	}
	return nil, false
}

func (c *CompositeGrammar) GetGrammarType() GrammarType {
	if len(c.grammars) == 0 {
		return GrammarNone
	}
	return c.grammars[0].GetGrammarType()
}

func (c *CompositeGrammar) GetTargetNamespace() string {
	if len(c.grammars) == 0 {
		return ""
	}
	return c.grammars[0].GetTargetNamespace()
}

func (c *CompositeGrammar) GetNamespaceDeclarations() []*Namespace {
	var out []*Namespace
	for _, g := range c.grammars {
		out = append(out, g.GetNamespaceDeclarations()...)
	}
	return out
}

var _ Grammar = (*CompositeGrammar)(nil)
