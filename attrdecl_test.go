package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttributeDeclValidatesEnumerationMembers(t *testing.T) {
	_, err := NewAttributeDecl("elem", "attr", AttrEnumeration, AttrDefaultNone, "a", Enumeration{"a", "b"})
	assert.NoError(t, err)

	_, err = NewAttributeDecl("elem", "attr", AttrEnumeration, AttrDefaultNone, "a", Enumeration{"not valid!"})
	assert.Error(t, err)
}

func TestNewAttributeDeclValidatesNotationMembers(t *testing.T) {
	_, err := NewAttributeDecl("elem", "attr", AttrNotation, AttrDefaultNone, "png", Enumeration{"png", "jpeg"})
	assert.NoError(t, err)

	_, err = NewAttributeDecl("elem", "attr", AttrNotation, AttrDefaultNone, "1bad", Enumeration{"1bad"})
	assert.Error(t, err)
}

func TestAttributeDeclHasFixedOrDefault(t *testing.T) {
	required, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultRequired, "", nil)
	require.NoError(t, err)
	assert.False(t, required.HasFixedOrDefault())

	implied, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.False(t, implied.HasFixedOrDefault())

	fixed, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultFixed, "v", nil)
	require.NoError(t, err)
	assert.True(t, fixed.HasFixedOrDefault())

	withDefault, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultNone, "v", nil)
	require.NoError(t, err)
	assert.True(t, withDefault.HasFixedOrDefault())
}

func TestAttributeDeclNormalizeValueCollapsesWhitespace(t *testing.T) {
	decl, err := NewAttributeDecl("e", "a", AttrNmtokens, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "a b c", decl.NormalizeValue("  a\tb\n c "))

	cdata, err := NewAttributeDecl("e", "a", AttrCDATA, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "  a\tb\n c ", cdata.NormalizeValue("  a\tb\n c "))
}

func TestAttributeDeclValidateByType(t *testing.T) {
	id, err := NewAttributeDecl("e", "a", AttrID, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.NoError(t, id.Validate("elem1", nil))
	assert.Error(t, id.Validate("1bad", nil))

	idrefs, err := NewAttributeDecl("e", "a", AttrIDRefs, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.NoError(t, idrefs.Validate("a b c", nil))
	assert.Error(t, idrefs.Validate("", nil))
	assert.Error(t, idrefs.Validate("a 1bad", nil))

	nmtoken, err := NewAttributeDecl("e", "a", AttrNmtoken, AttrDefaultImplied, "", nil)
	require.NoError(t, err)
	assert.NoError(t, nmtoken.Validate("abc-123", nil))
	assert.Error(t, nmtoken.Validate("has space", nil))

	enum, err := NewAttributeDecl("e", "a", AttrEnumeration, AttrDefaultImplied, "", Enumeration{"red", "green"})
	require.NoError(t, err)
	assert.NoError(t, enum.Validate("red", nil))
	assert.Error(t, enum.Validate("blue", nil))
}

func TestAttributeDeclValidateNotationRequiresDeclaration(t *testing.T) {
	notation, err := NewAttributeDecl("e", "a", AttrNotation, AttrDefaultImplied, "", Enumeration{"png"})
	require.NoError(t, err)

	assert.NoError(t, notation.Validate("png", nil))
	assert.NoError(t, notation.Validate("png", map[string]*NotationDecl{"png": NewNotationDecl("png", "", "")}))
	assert.Error(t, notation.Validate("png", map[string]*NotationDecl{}))
}

func TestNotationDecl(t *testing.T) {
	n := NewNotationDecl("png", "pub", "sys")
	assert.Equal(t, "png", n.Name())
	assert.Equal(t, "pub", n.PublicID())
	assert.Equal(t, "sys", n.SystemID())
}
