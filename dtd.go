package typesxml

import "strings"

// ElementDecl is a single `<!ELEMENT name spec>` declaration. Its
// content model is parsed lazily: the raw content-spec text is
// parameter-entity-expanded as soon as the `<!ELEMENT>` is read, but
// the particle tree itself is only built once the whole DTD has been
// read (ProcessModels), so that an `<!ELEMENT>` referencing a
// not-yet-declared element name in its content model is never a
// problem.
type ElementDecl struct {
	docnode
	rawSpec string
	model   *ContentModel
}

func newElementDecl(name, rawSpec string) *ElementDecl {
	d := &ElementDecl{rawSpec: rawSpec}
	d.name = name
	d.etype = ElementDeclNode
	return d
}

func (d *ElementDecl) RawSpec() string       { return d.rawSpec }
func (d *ElementDecl) ContentModel() *ContentModel { return d.model }

// DTD is the grammar storage: four name-keyed mappings (elements,
// attributes-per-element, entities, notations), with
// first-declaration-wins conflict resolution and the five predefined
// general entities present from construction.
type DTD struct {
	docnode
	publicID   string
	systemID   string
	elements   map[string]*ElementDecl
	attributes map[string]map[string]*AttributeDecl // element name -> attr name -> decl
	entities   map[string]*Entity                   // general entities, keyed by name
	pentities  map[string]*Entity                   // parameter entities, keyed by name (no '%' prefix)
	notations  map[string]*NotationDecl
}

// NewDTD creates an empty grammar preloaded with the five predefined
// general entities.
func NewDTD(name, publicID, systemID string) *DTD {
	d := &DTD{
		publicID:   publicID,
		systemID:   systemID,
		elements:   map[string]*ElementDecl{},
		attributes: map[string]map[string]*AttributeDecl{},
		entities:   predefinedEntities(),
		pentities:  map[string]*Entity{},
		notations:  map[string]*NotationDecl{},
	}
	d.docnode.name = name
	d.etype = DTDNode
	return d
}

func (d *DTD) PublicID() string { return d.publicID }
func (d *DTD) SystemID() string { return d.systemID }

// AddElementDecl merges e into the grammar; first declaration wins —
// a second `<!ELEMENT>` for the same name is silently ignored.
func (d *DTD) AddElementDecl(e *ElementDecl) {
	if _, exists := d.elements[e.name]; exists {
		return
	}
	d.elements[e.name] = e
}

func (d *DTD) ElementDecl(name string) (*ElementDecl, bool) {
	e, ok := d.elements[name]
	return e, ok
}

// AddAttributeDecl merges a into the per-element attribute map;
// first declaration wins per attribute name within one element.
func (d *DTD) AddAttributeDecl(a *AttributeDecl) {
	m, ok := d.attributes[a.elem]
	if !ok {
		m = map[string]*AttributeDecl{}
		d.attributes[a.elem] = m
	}
	if _, exists := m[a.name]; exists {
		return
	}
	m[a.name] = a
}

func (d *DTD) AttributeDecls(elem string) map[string]*AttributeDecl {
	return d.attributes[elem]
}

func (d *DTD) AttributeDecl(elem, attr string) (*AttributeDecl, bool) {
	m, ok := d.attributes[elem]
	if !ok {
		return nil, false
	}
	a, ok := m[attr]
	return a, ok
}

// AddEntity merges e into the appropriate (general/parameter) entity
// table, first-declaration-wins, and never overwrites a predefined
// entity.
func (d *DTD) AddEntity(e *Entity) {
	if e.IsParameter() {
		if _, exists := d.pentities[e.name]; exists {
			return
		}
		d.pentities[e.name] = e
		return
	}
	if _, exists := d.entities[e.name]; exists {
		return
	}
	d.entities[e.name] = e
}

// Entity looks up a general entity by name.
func (d *DTD) Entity(name string) (*Entity, bool) {
	e, ok := d.entities[name]
	return e, ok
}

// ParameterEntity looks up a parameter entity by name (without the
// leading '%').
func (d *DTD) ParameterEntity(name string) (*Entity, bool) {
	e, ok := d.pentities[name]
	return e, ok
}

func (d *DTD) AddNotation(n *NotationDecl) {
	if _, exists := d.notations[n.name]; exists {
		return
	}
	d.notations[n.name] = n
}

func (d *DTD) Notation(name string) (*NotationDecl, bool) {
	n, ok := d.notations[name]
	return n, ok
}

func (d *DTD) Notations() map[string]*NotationDecl { return d.notations }

// ProcessModels parses every ElementDecl's raw content-spec text into
// a ContentModel, now that the whole DTD (and so every parameter
// entity) has been read. The document parser (parseDoctype) calls it
// once per subset after the subset is fully consumed; DTDParser itself
// does not, so code that drives DTDParser directly calls it afterwards.
func (d *DTD) ProcessModels() error {
	for _, e := range d.elements {
		if e.model != nil {
			continue
		}
		m, err := ParseContentSpec(e.rawSpec)
		if err != nil {
			return err
		}
		e.model = m
	}
	return nil
}

// ResolveParameterEntities performs a fixed-point textual
// substitution: iterative in-place replacement of `%name;` references
// with cycle detection (bail with an error after maxPEIterations
// rounds still containing an unresolved reference).
const maxPEIterations = 50

func (d *DTD) ResolveParameterEntities(text string) (string, error) {
	seen := map[string]bool{}
	cur := text
	for i := 0; i < maxPEIterations; i++ {
		next, changed, err := d.expandParameterEntitiesOnce(cur, seen)
		if err != nil {
			return cur, err
		}
		if !changed {
			return next, nil
		}
		cur = next
	}
	return cur, newFatal(WellFormednessErrorKind, d.systemID, 0, "parameter entity expansion did not reach a fixed point after %d iterations", maxPEIterations)
}

func (d *DTD) expandParameterEntitiesOnce(text string, seen map[string]bool) (string, bool, error) {
	var b strings.Builder
	changed := false
	i := 0
	for i < len(text) {
		if text[i] != '%' {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], ';')
		if end < 0 {
			// Not a well-formed reference; copy literally.
			b.WriteByte(text[i])
			i++
			continue
		}
		name := text[i+1 : i+1+end]
		ref := "%" + name + ";"
		ent, ok := d.pentities[name]
		if !ok {
			// Unresolved: leave the reference in place; it is copied
			// through unchanged and not reported.
			b.WriteString(ref)
			i += len(ref)
			continue
		}
		if seen[name] {
			return "", false, newFatal(WellFormednessErrorKind, d.systemID, 0, "parameter entity %%%s recursively references itself", name)
		}
		seen[name] = true
		b.WriteString(ent.Value())
		i += len(ref)
		changed = true
	}
	return b.String(), changed, nil
}

// Merge folds other's declarations into d using first-wins semantics,
// so a DTD built by re-entrant parsing (an external subset drawn in
// while already parsing another) shares and appends to the same
// grammar.
func (d *DTD) Merge(other *DTD) {
	for _, e := range other.elements {
		d.AddElementDecl(e)
	}
	for _, attrs := range other.attributes {
		for _, a := range attrs {
			d.AddAttributeDecl(a)
		}
	}
	for _, e := range other.entities {
		if e.entityType == InternalPredefinedEntity {
			continue
		}
		d.AddEntity(e)
	}
	for _, e := range other.pentities {
		d.AddEntity(e)
	}
	for _, n := range other.notations {
		d.AddNotation(n)
	}
}
