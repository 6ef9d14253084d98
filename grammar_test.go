package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrammar(t *testing.T, internalSubset string) Grammar {
	t.Helper()
	dtd := NewDTD("root", "", "")
	dp := NewDTDParser(nil, true, nil)
	require.NoError(t, dp.ParseInternalSubset(internalSubset, dtd, ""))
	require.NoError(t, dtd.ProcessModels())
	return NewDTDGrammar(dtd)
}

func TestNoOpGrammarAcceptsEverything(t *testing.T) {
	g := NoOpGrammar{}
	assert.NoError(t, g.ValidateElement("anything", []string{"x", "y"}, true))
	assert.NoError(t, g.ValidateAttributes("anything", map[string]string{"a": "b"}, true))
	assert.Equal(t, GrammarNone, g.GetGrammarType())
}

func TestDTDGrammarValidateElementUndeclared(t *testing.T) {
	g := buildGrammar(t, `<!ELEMENT root (child)> <!ELEMENT child EMPTY>`)

	assert.Error(t, g.ValidateElement("unknown", nil, true))
	assert.NoError(t, g.ValidateElement("unknown", nil, false))
}

func TestDTDGrammarValidateElementContentModel(t *testing.T) {
	g := buildGrammar(t, `<!ELEMENT root (child)> <!ELEMENT child EMPTY>`)

	assert.NoError(t, g.ValidateElement("root", []string{"child"}, true))
	assert.Error(t, g.ValidateElement("root", []string{"child", "child"}, true))
}

func TestDTDGrammarValidateAttributesRequiredAndFixed(t *testing.T) {
	g := buildGrammar(t, `
		<!ELEMENT e EMPTY>
		<!ATTLIST e
			id ID #REQUIRED
			kind CDATA #FIXED "k1">
	`)

	assert.Error(t, g.ValidateAttributes("e", map[string]string{}, true))
	assert.NoError(t, g.ValidateAttributes("e", map[string]string{"id": "x1"}, true))
	assert.Error(t, g.ValidateAttributes("e", map[string]string{"id": "x1", "kind": "other"}, true))
	assert.NoError(t, g.ValidateAttributes("e", map[string]string{"id": "x1", "kind": "k1"}, true))
}

func TestDTDGrammarValidateAttributesUndeclaredOnlyErrorsWhenValidating(t *testing.T) {
	g := buildGrammar(t, `<!ELEMENT e EMPTY>`)

	assert.Error(t, g.ValidateAttributes("e", map[string]string{"extra": "v"}, true))
	assert.NoError(t, g.ValidateAttributes("e", map[string]string{"extra": "v"}, false))
}

func TestDTDGrammarGetDefaultAttributesOnlyFixedOrLiteral(t *testing.T) {
	g := buildGrammar(t, `
		<!ELEMENT e EMPTY>
		<!ATTLIST e
			a CDATA #REQUIRED
			b CDATA #IMPLIED
			c CDATA #FIXED "fixedval"
			d CDATA "defaultval">
	`)

	defaults := g.GetDefaultAttributes("e")
	_, hasA := defaults["a"]
	_, hasB := defaults["b"]
	cInfo, hasC := defaults["c"]
	dInfo, hasD := defaults["d"]

	assert.False(t, hasA)
	assert.False(t, hasB)
	require.True(t, hasC)
	assert.Equal(t, "fixedval", cInfo.DefaultValue)
	require.True(t, hasD)
	assert.Equal(t, "defaultval", dInfo.DefaultValue)
}

func TestCompositeGrammarDispatchesPerElement(t *testing.T) {
	a := buildGrammar(t, `<!ELEMENT a EMPTY>`)
	b := buildGrammar(t, `<!ELEMENT b EMPTY>`)
	c := NewCompositeGrammar(a, b)

	assert.NoError(t, c.ValidateElement("a", nil, true))
	assert.NoError(t, c.ValidateElement("b", nil, true))
}
