package typesxml

import (
	"fmt"
	"strings"

	"github.com/rmraya/typesxml/internal/xmlchar"
	"github.com/rmraya/typesxml/sax"
)

// AttributeType is one of the nine standard DTD attribute types, or
// Enumeration/Notation.
type AttributeType int

const (
	AttrInvalid AttributeType = iota
	AttrCDATA
	AttrID
	AttrIDRef
	AttrIDRefs
	AttrEntity
	AttrEntities
	AttrNmtoken
	AttrNmtokens
	AttrEnumeration
	AttrNotation
)

func (t AttributeType) String() string {
	switch t {
	case AttrCDATA:
		return "CDATA"
	case AttrID:
		return "ID"
	case AttrIDRef:
		return "IDREF"
	case AttrIDRefs:
		return "IDREFS"
	case AttrEntity:
		return "ENTITY"
	case AttrEntities:
		return "ENTITIES"
	case AttrNmtoken:
		return "NMTOKEN"
	case AttrNmtokens:
		return "NMTOKENS"
	case AttrEnumeration:
		return "ENUMERATION"
	case AttrNotation:
		return "NOTATION"
	default:
		return "INVALID"
	}
}

// AttributeDefault is the #REQUIRED/#IMPLIED/#FIXED/"" disposition of
// an attribute declaration's default value.
type AttributeDefault int

const (
	AttrDefaultInvalid AttributeDefault = iota
	AttrDefaultNone // a literal default value, no keyword
	AttrDefaultRequired
	AttrDefaultImplied
	AttrDefaultFixed
)

func (d AttributeDefault) String() string {
	switch d {
	case AttrDefaultRequired:
		return "#REQUIRED"
	case AttrDefaultImplied:
		return "#IMPLIED"
	case AttrDefaultFixed:
		return "#FIXED"
	default:
		return ""
	}
}

// Enumeration is the parsed value list of an `(a|b|c)` or
// `NOTATION (n1|n2)` attribute type.
type Enumeration []string

func (e Enumeration) contains(v string) bool {
	for _, x := range e {
		if x == v {
			return true
		}
	}
	return false
}

// AttributeDecl is a single `<!ATTLIST elem name type default>` entry.
// Enumeration/notation value lists are parsed and validated as
// NMTOKENs/Names at construction (NewAttributeDecl), not lazily.
type AttributeDecl struct {
	docnode
	elem     string
	atype    AttributeType
	def      AttributeDefault
	defvalue string
	tree     Enumeration
}

// NewAttributeDecl validates the enumeration/notation value list (if
// any) and returns the declaration, or an error if a value fails its
// own syntactic constraint (NMTOKEN for enumeration members, Name for
// notation members).
func NewAttributeDecl(elem, name string, atype AttributeType, def AttributeDefault, defvalue string, tree Enumeration) (*AttributeDecl, error) {
	if atype == AttrEnumeration {
		for _, v := range tree {
			if !xmlchar.IsNmtoken(v) {
				return nil, fmt.Errorf("typesxml: enumeration value %q is not a valid Nmtoken", v)
			}
		}
	}
	if atype == AttrNotation {
		for _, v := range tree {
			if !xmlchar.IsName(v) {
				return nil, fmt.Errorf("typesxml: notation value %q is not a valid Name", v)
			}
		}
	}
	a := &AttributeDecl{elem: elem, atype: atype, def: def, defvalue: defvalue, tree: tree}
	a.name = name
	a.etype = AttributeDeclNode
	return a, nil
}

func (a *AttributeDecl) ElementName() string       { return a.elem }
func (a *AttributeDecl) Type() AttributeType       { return a.atype }
func (a *AttributeDecl) Default() AttributeDefault { return a.def }
func (a *AttributeDecl) DefaultValue() string      { return a.defvalue }
func (a *AttributeDecl) Tree() Enumeration         { return a.tree }

// HasFixedOrDefault reports whether a.DefaultValue() should be used
// to default a missing attribute: true for a #FIXED value or a plain
// literal default, false for #REQUIRED/#IMPLIED.
func (a *AttributeDecl) HasFixedOrDefault() bool {
	return a.def == AttrDefaultFixed || a.def == AttrDefaultNone
}

// NormalizeValue applies XML 1.0 §3.3.3 attribute-value
// normalization: for any type other than CDATA, leading/trailing
// whitespace is stripped and internal whitespace runs are collapsed
// to a single space. Validate always normalizes before checking a
// value against its declared type, so enumeration/NMTOKEN matching
// never sees an un-normalized token list.
func (a *AttributeDecl) NormalizeValue(raw string) string {
	if a.atype == AttrCDATA {
		return raw
	}
	fields := xmlchar.Fields(raw)
	return strings.Join(fields, " ")
}

// Validate checks a normalized attribute value against the
// declaration's type. notations, when non-nil, is
// consulted for AttrNotation membership beyond the declaration's own
// tree (callers pass the owning grammar's notation set so a NOTATION
// attribute can also be checked for "declared at all", not just
// "one of the listed alternatives" — in this engine the tree IS the
// full alternative list, so notations is currently unused beyond a
// belt-and-suspenders existence check).
func (a *AttributeDecl) Validate(value string, notations map[string]*NotationDecl) error {
	norm := a.NormalizeValue(value)
	switch a.atype {
	case AttrCDATA:
		return nil
	case AttrID, AttrIDRef, AttrEntity:
		if !xmlchar.IsName(norm) {
			return fmt.Errorf("value %q is not a valid Name", norm)
		}
		return nil
	case AttrIDRefs, AttrEntities:
		toks := xmlchar.Fields(norm)
		if len(toks) == 0 {
			return fmt.Errorf("value %q must contain at least one Name", norm)
		}
		for _, t := range toks {
			if !xmlchar.IsName(t) {
				return fmt.Errorf("token %q is not a valid Name", t)
			}
		}
		return nil
	case AttrNmtoken:
		if !xmlchar.IsNmtoken(norm) {
			return fmt.Errorf("value %q is not a valid Nmtoken", norm)
		}
		return nil
	case AttrNmtokens:
		toks := xmlchar.Fields(norm)
		if len(toks) == 0 {
			return fmt.Errorf("value %q must contain at least one Nmtoken", norm)
		}
		// Explicit loop rather than a closure-based every(): it
		// short-circuits on the first bad token instead of scanning
		// the rest of the list after already finding a failure.
		for _, t := range toks {
			if !xmlchar.IsNmtoken(t) {
				return fmt.Errorf("token %q is not a valid Nmtoken", t)
			}
		}
		return nil
	case AttrEnumeration:
		if !a.tree.contains(norm) {
			return fmt.Errorf("value %q is not one of %v", norm, []string(a.tree))
		}
		return nil
	case AttrNotation:
		if !a.tree.contains(norm) {
			return fmt.Errorf("value %q is not one of %v", norm, []string(a.tree))
		}
		if notations != nil {
			if _, ok := notations[norm]; !ok {
				return fmt.Errorf("notation %q is not declared", norm)
			}
		}
		return nil
	default:
		return fmt.Errorf("attribute has no declared type")
	}
}

// sax.AttributeDefaultValue adapter.
type attrDefaultValue struct{ a *AttributeDecl }

func (v attrDefaultValue) IsRequired() bool { return v.a.def == AttrDefaultRequired }
func (v attrDefaultValue) IsImplied() bool  { return v.a.def == AttrDefaultImplied }
func (v attrDefaultValue) IsFixed() bool    { return v.a.def == AttrDefaultFixed }
func (v attrDefaultValue) Value() string    { return v.a.defvalue }

func (a *AttributeDecl) AsSAXDefaultValue() sax.AttributeDefaultValue { return attrDefaultValue{a} }

// NotationDecl is a `<!NOTATION name PUBLIC|SYSTEM ...>` declaration.
type NotationDecl struct {
	docnode
	publicID string
	systemID string
}

func NewNotationDecl(name, publicID, systemID string) *NotationDecl {
	n := &NotationDecl{publicID: publicID, systemID: systemID}
	n.name = name
	n.etype = NotationNode
	return n
}

func (n *NotationDecl) PublicID() string { return n.publicID }
func (n *NotationDecl) SystemID() string { return n.systemID }
