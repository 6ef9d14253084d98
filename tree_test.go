package typesxml_test

import (
	"testing"

	"github.com/rmraya/typesxml"
	"github.com/rmraya/typesxml/internal/charsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeBuilderNestsElementsByTagOrder(t *testing.T) {
	const doc = `<root><a><b/></a><c/></root>`
	p := typesxml.NewParser(nil)
	tree, err := p.ParseDocument(charsrc.NewString("doc.xml", doc))
	require.NoError(t, err)

	root := tree.DocumentElement()
	require.NotNil(t, root)
	assert.Equal(t, "root", root.Name())

	a := root.FirstChild()
	require.NotNil(t, a)
	assert.Equal(t, "a", a.Name())

	c := a.NextSibling()
	require.NotNil(t, c)
	assert.Equal(t, "c", c.Name())
}

func TestTreeBuilderCollectsCharacterContent(t *testing.T) {
	const doc = `<root>hello <b>world</b></root>`
	p := typesxml.NewParser(nil)
	tree, err := p.ParseDocument(charsrc.NewString("doc.xml", doc))
	require.NoError(t, err)

	root := tree.DocumentElement()
	require.NotNil(t, root)
	assert.Equal(t, "hello ", string(root.Content()))
}

func TestTreeBuilderProcessingInstructionAttachesToCurrentNode(t *testing.T) {
	const doc = `<root><?target data?></root>`
	p := typesxml.NewParser(nil)
	tree, err := p.ParseDocument(charsrc.NewString("doc.xml", doc))
	require.NoError(t, err)

	root := tree.DocumentElement()
	require.NotNil(t, root)
	pi, ok := root.FirstChild().(*typesxml.ProcessingInstruction)
	require.True(t, ok)
	assert.Equal(t, "target", pi.Target())
	assert.Equal(t, "data", pi.Data())
}

func TestTreeBuilderAssignsNamespacedAttributes(t *testing.T) {
	const doc = `<root a:id="x" xmlns:a="urn:a"/>`
	p := typesxml.NewParser(nil)
	tree, err := p.ParseDocument(charsrc.NewString("doc.xml", doc))
	require.NoError(t, err)

	root := tree.DocumentElement()
	require.NotNil(t, root)
	attr := root.Attribute("a:id")
	require.NotNil(t, attr)
	assert.Equal(t, "x", attr.Value())
}
