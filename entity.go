package typesxml

import "github.com/rmraya/typesxml/sax"

// EntityType distinguishes the six kinds of entity storable in a
// DTD/Document entity table.
type EntityType int

const (
	InternalGeneralEntity EntityType = iota + 1
	ExternalGeneralParsedEntity
	ExternalGeneralUnparsedEntity
	InternalParameterEntity
	ExternalParameterEntity
	InternalPredefinedEntity
)

// Entity is a declared general or parameter entity. A general entity
// is resolved in document context; a parameter entity ("%name") only
// in DTD context — entityType keeps the two apart without needing two
// Go types.
type Entity struct {
	node
	entityType EntityType
	publicID   string
	systemID   string
	ndata      string // notation name, for unparsed external entities
}

func newEntity(name string, etype EntityType, publicID, systemID, value string) *Entity {
	e := &Entity{entityType: etype, publicID: publicID, systemID: systemID}
	e.name = name
	e.etype = EntityDeclNode
	e.content = []byte(value)
	return e
}

// IsParameter reports whether this is a parameter entity (declared
// with `<!ENTITY %`), usable only inside the DTD.
func (e *Entity) IsParameter() bool {
	return e.entityType == InternalParameterEntity || e.entityType == ExternalParameterEntity
}

// IsExternal reports whether the entity's replacement text must be
// fetched from systemID rather than being the literal value already
// stored in content.
func (e *Entity) IsExternal() bool {
	switch e.entityType {
	case ExternalGeneralParsedEntity, ExternalGeneralUnparsedEntity, ExternalParameterEntity:
		return true
	}
	return false
}

// IsUnparsed reports whether this is an unparsed external entity
// (carries NDATA, referenceable only from an ENTITY/ENTITIES
// attribute value, never from content).
func (e *Entity) IsUnparsed() bool { return e.entityType == ExternalGeneralUnparsedEntity }

func (e *Entity) Value() string      { return string(e.content) }
func (e *Entity) PublicID() string   { return e.publicID }
func (e *Entity) SystemID() string   { return e.systemID }
func (e *Entity) NotationName() string { return e.ndata }

var _ sax.Entity = (*Entity)(nil)

// predefinedEntities are the five entities every grammar carries from
// construction.
func predefinedEntities() map[string]*Entity {
	return map[string]*Entity{
		"lt":   newEntity("lt", InternalPredefinedEntity, "", "", "<"),
		"gt":   newEntity("gt", InternalPredefinedEntity, "", "", ">"),
		"amp":  newEntity("amp", InternalPredefinedEntity, "", "", "&"),
		"apos": newEntity("apos", InternalPredefinedEntity, "", "", "'"),
		"quot": newEntity("quot", InternalPredefinedEntity, "", "", `"`),
	}
}

// predefinedCharByName maps a predefined entity name straight to its
// single-character replacement, used by the parser's reference
// expansion fast path (these always resolve, even in a document with
// no DTD at all).
var predefinedCharByName = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": `"`,
}
