package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDTDPreloadsPredefinedEntities(t *testing.T) {
	dtd := NewDTD("root", "", "")
	for _, name := range []string{"lt", "gt", "amp", "apos", "quot"} {
		_, ok := dtd.Entity(name)
		assert.True(t, ok, "expected predefined entity %q", name)
	}
}

func TestDTDAddElementDeclFirstWins(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddElementDecl(newElementDecl("e", "EMPTY"))
	dtd.AddElementDecl(newElementDecl("e", "ANY"))

	decl, ok := dtd.ElementDecl("e")
	require.True(t, ok)
	assert.Equal(t, "EMPTY", decl.RawSpec())
}

func TestDTDAddAttributeDeclFirstWins(t *testing.T) {
	dtd := NewDTD("root", "", "")
	first, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	second, err := NewAttributeDecl("e", "a", AttrID, AttrDefaultImplied, "", nil)
	require.NoError(t, err)

	dtd.AddAttributeDecl(first)
	dtd.AddAttributeDecl(second)

	decl, ok := dtd.AttributeDecl("e", "a")
	require.True(t, ok)
	assert.Equal(t, AttrCDATA, decl.Type())
}

func TestDTDAddEntityNeverOverwritesPredefined(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddEntity(newEntity("amp", InternalGeneralEntity, "", "", "CUSTOM"))

	e, ok := dtd.Entity("amp")
	require.True(t, ok)
	assert.Equal(t, "&", e.Value())
}

func TestDTDAddEntitySeparatesGeneralAndParameter(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddEntity(newEntity("shared", InternalGeneralEntity, "", "", "general"))
	dtd.AddEntity(newEntity("shared", InternalParameterEntity, "", "", "parameter"))

	g, ok := dtd.Entity("shared")
	require.True(t, ok)
	assert.Equal(t, "general", g.Value())

	p, ok := dtd.ParameterEntity("shared")
	require.True(t, ok)
	assert.Equal(t, "parameter", p.Value())
}

func TestDTDProcessModelsParsesEveryElement(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddElementDecl(newElementDecl("root", "(child)*"))
	dtd.AddElementDecl(newElementDecl("child", "EMPTY"))

	require.NoError(t, dtd.ProcessModels())

	decl, _ := dtd.ElementDecl("root")
	require.NotNil(t, decl.ContentModel())
	assert.Equal(t, ContentChildren, decl.ContentModel().Type())
}

func TestDTDResolveParameterEntitiesFixedPoint(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddEntity(newEntity("inner", InternalParameterEntity, "", "", "EMPTY"))
	dtd.AddEntity(newEntity("outer", InternalParameterEntity, "", "", "%inner;"))

	out, err := dtd.ResolveParameterEntities("<!ELEMENT e %outer;>")
	require.NoError(t, err)
	assert.Equal(t, "<!ELEMENT e EMPTY>", out)
}

func TestDTDResolveParameterEntitiesDetectsCycle(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dtd.AddEntity(newEntity("a", InternalParameterEntity, "", "", "%b;"))
	dtd.AddEntity(newEntity("b", InternalParameterEntity, "", "", "%a;"))

	_, err := dtd.ResolveParameterEntities("%a;")
	assert.Error(t, err)
}

func TestDTDMergeIsFirstWinsAcrossSubsets(t *testing.T) {
	into := NewDTD("root", "", "")
	into.AddElementDecl(newElementDecl("e", "EMPTY"))

	other := NewDTD("root", "", "")
	other.AddElementDecl(newElementDecl("e", "ANY"))
	other.AddElementDecl(newElementDecl("f", "ANY"))

	into.Merge(other)

	decl, ok := into.ElementDecl("e")
	require.True(t, ok)
	assert.Equal(t, "EMPTY", decl.RawSpec())

	_, ok = into.ElementDecl("f")
	assert.True(t, ok)
}
