package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCreateElementRequiresName(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneNoXMLDecl)
	_, err := doc.CreateElement("")
	assert.Error(t, err)

	e, err := doc.CreateElement("root")
	require.NoError(t, err)
	assert.Equal(t, "root", e.Name())
	assert.Same(t, doc, e.OwnerDocument())
}

func TestDocumentAddChildAndDocumentElement(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneNoXMLDecl)
	comment, err := doc.CreateComment([]byte(" hi "))
	require.NoError(t, err)
	require.NoError(t, doc.AddChild(comment))

	root, err := doc.CreateElement("root")
	require.NoError(t, err)
	require.NoError(t, doc.AddChild(root))

	assert.Same(t, root, doc.DocumentElement())
}

func TestElementSetAttributeOverwritesInPlace(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneNoXMLDecl)
	e, err := doc.CreateElement("root")
	require.NoError(t, err)

	e.SetAttribute("id", "1")
	e.SetAttribute("id", "2")
	require.Len(t, e.Attributes(), 1)
	assert.Equal(t, "2", e.Attribute("id").Value())
}

func TestDocumentGetEntityChecksPredefinedThenSubsets(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneNoXMLDecl)

	e, ok := doc.GetEntity("amp")
	require.True(t, ok)
	assert.Equal(t, "&", e.Value())

	dtd := NewDTD("root", "", "")
	dtd.AddEntity(newEntity("custom", InternalGeneralEntity, "", "", "value"))
	doc.SetIntSubset(dtd)

	e, ok = doc.GetEntity("custom")
	require.True(t, ok)
	assert.Equal(t, "value", e.Value())

	_, ok = doc.GetEntity("missing")
	assert.False(t, ok)
}

func TestDocumentStandaloneSkipsExternalSubset(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneExplicitYes)

	ext := NewDTD("root", "", "")
	ext.AddEntity(newEntity("ext", InternalGeneralEntity, "", "", "fromext"))
	doc.SetExtSubset(ext)

	_, ok := doc.GetEntity("ext")
	assert.False(t, ok)
}

func TestDocumentGrammarMergesBothSubsets(t *testing.T) {
	doc := NewDocument("1.0", "UTF-8", StandaloneExplicitNo)

	intSub := NewDTD("root", "", "")
	intSub.AddElementDecl(newElementDecl("root", "(child)"))
	doc.SetIntSubset(intSub)

	extSub := NewDTD("root", "", "")
	extSub.AddElementDecl(newElementDecl("child", "EMPTY"))
	doc.SetExtSubset(extSub)

	g := doc.Grammar()
	require.NoError(t, g.ValidateElement("root", []string{"child"}, true))
	require.NoError(t, g.ValidateElement("child", nil, true))
}
