package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseInternal(t *testing.T, body string) *DTD {
	t.Helper()
	dtd := NewDTD("root", "", "")
	dp := NewDTDParser(nil, true, nil)
	require.NoError(t, dp.ParseInternalSubset(body, dtd, ""))
	return dtd
}

func TestParseInternalSubsetElementAndAttlist(t *testing.T) {
	dtd := parseInternal(t, `
		<!ELEMENT root (child*)>
		<!ELEMENT child EMPTY>
		<!ATTLIST child id ID #REQUIRED class CDATA #IMPLIED>
	`)

	decl, ok := dtd.ElementDecl("root")
	require.True(t, ok)
	assert.Equal(t, "(child*)", decl.RawSpec())

	idDecl, ok := dtd.AttributeDecl("child", "id")
	require.True(t, ok)
	assert.Equal(t, AttrID, idDecl.Type())
	assert.Equal(t, AttrDefaultRequired, idDecl.Default())

	classDecl, ok := dtd.AttributeDecl("child", "class")
	require.True(t, ok)
	assert.Equal(t, AttrDefaultImplied, classDecl.Default())
}

func TestParseInternalSubsetEntityDecl(t *testing.T) {
	dtd := parseInternal(t, `<!ENTITY greeting "hello">`)
	e, ok := dtd.Entity("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", e.Value())
}

func TestParseInternalSubsetParameterEntityExpansion(t *testing.T) {
	dtd := parseInternal(t, `
		<!ENTITY % contentspec "EMPTY">
		<!ELEMENT leaf %contentspec;>
	`)
	decl, ok := dtd.ElementDecl("leaf")
	require.True(t, ok)
	assert.Equal(t, "EMPTY", decl.RawSpec())
}

func TestParseInternalSubsetNotationDecl(t *testing.T) {
	dtd := parseInternal(t, `<!NOTATION png SYSTEM "image/png">`)
	n, ok := dtd.Notation("png")
	require.True(t, ok)
	assert.Equal(t, "image/png", n.SystemID())
}

func TestParseInternalSubsetConditionalSections(t *testing.T) {
	dtd := parseInternal(t, `
		<![INCLUDE[
		<!ELEMENT included EMPTY>
		]]>
		<![IGNORE[
		<!ELEMENT excluded EMPTY>
		]]>
	`)
	_, ok := dtd.ElementDecl("included")
	assert.True(t, ok)
	_, ok = dtd.ElementDecl("excluded")
	assert.False(t, ok)
}

func TestParseInternalSubsetEnumerationAttribute(t *testing.T) {
	dtd := parseInternal(t, `<!ATTLIST e color (red|green|blue) "red">`)
	decl, ok := dtd.AttributeDecl("e", "color")
	require.True(t, ok)
	assert.Equal(t, AttrEnumeration, decl.Type())
	assert.Equal(t, AttrDefaultNone, decl.Default())
	assert.Equal(t, "red", decl.DefaultValue())
	assert.ElementsMatch(t, []string{"red", "green", "blue"}, []string(decl.Tree()))
}

func TestParseInternalSubsetRejectsUnterminatedDeclaration(t *testing.T) {
	dtd := NewDTD("root", "", "")
	dp := NewDTDParser(nil, true, nil)
	err := dp.ParseInternalSubset(`<!ELEMENT root (a)`, dtd, "")
	assert.Error(t, err)
}

func TestParseExternalIDVariants(t *testing.T) {
	_, sys, tail, err := parseExternalID(`SYSTEM "foo.dtd" extra`)
	require.NoError(t, err)
	assert.Equal(t, "foo.dtd", sys)
	assert.Equal(t, " extra", tail)

	pub, sys, _, err := parseExternalID(`PUBLIC "-//X//Y" "foo.dtd"`)
	require.NoError(t, err)
	assert.Equal(t, "-//X//Y", pub)
	assert.Equal(t, "foo.dtd", sys)
}
