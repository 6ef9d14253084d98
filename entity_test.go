package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityIsParameter(t *testing.T) {
	gen := newEntity("g", InternalGeneralEntity, "", "", "v")
	assert.False(t, gen.IsParameter())

	param := newEntity("p", InternalParameterEntity, "", "", "v")
	assert.True(t, param.IsParameter())
}

func TestEntityIsExternal(t *testing.T) {
	internal := newEntity("i", InternalGeneralEntity, "", "", "v")
	assert.False(t, internal.IsExternal())

	for _, et := range []EntityType{ExternalGeneralParsedEntity, ExternalGeneralUnparsedEntity, ExternalParameterEntity} {
		e := newEntity("e", et, "pub", "sys", "")
		assert.True(t, e.IsExternal())
	}
}

func TestEntityIsUnparsed(t *testing.T) {
	unparsed := newEntity("u", ExternalGeneralUnparsedEntity, "", "img.png", "")
	unparsed.ndata = "png"
	assert.True(t, unparsed.IsUnparsed())

	parsed := newEntity("p", ExternalGeneralParsedEntity, "", "text.xml", "")
	assert.False(t, parsed.IsUnparsed())
}

func TestPredefinedEntitiesCoverTheFive(t *testing.T) {
	ents := predefinedEntities()
	want := map[string]string{"lt": "<", "gt": ">", "amp": "&", "apos": "'", "quot": `"`}
	for name, val := range want {
		e, ok := ents[name]
		if assert.True(t, ok, "missing predefined entity %q", name) {
			assert.Equal(t, val, e.Value())
		}
	}
}
