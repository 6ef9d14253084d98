package typesxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentSpecEmptyAndAny(t *testing.T) {
	m, err := ParseContentSpec("EMPTY")
	require.NoError(t, err)
	assert.Equal(t, ContentEmpty, m.Type())

	m, err = ParseContentSpec("ANY")
	require.NoError(t, err)
	assert.Equal(t, ContentAny, m.Type())
}

func TestParseContentSpecMixed(t *testing.T) {
	m, err := ParseContentSpec("(#PCDATA|a|b)*")
	require.NoError(t, err)
	assert.Equal(t, ContentMixed, m.Type())
	assert.ElementsMatch(t, []string{"a", "b"}, m.MixedNames())

	m, err = ParseContentSpec("(#PCDATA)")
	require.NoError(t, err)
	assert.Equal(t, ContentMixed, m.Type())
	assert.Empty(t, m.MixedNames())
}

func TestParseContentSpecMixedRequiresTrailingStar(t *testing.T) {
	_, err := ParseContentSpec("(#PCDATA|a|b)")
	assert.Error(t, err)
}

func TestParseContentSpecChildrenSequence(t *testing.T) {
	m, err := ParseContentSpec("(a,b,c)")
	require.NoError(t, err)
	assert.Equal(t, ContentChildren, m.Type())
	assert.Equal(t, ParticleSequence, m.Root().Type())
	assert.Len(t, m.Root().Children(), 3)
}

func TestParseContentSpecChildrenChoiceAndCardinality(t *testing.T) {
	m, err := ParseContentSpec("(a|b|c)+")
	require.NoError(t, err)
	root := m.Root()
	assert.Equal(t, ParticleChoice, root.Type())
	assert.Equal(t, CardinalityOneOrMore, root.Cardinality())
}

func TestParseContentSpecRejectsMalformedGroup(t *testing.T) {
	_, err := ParseContentSpec("(a,b")
	assert.Error(t, err)

	_, err = ParseContentSpec("(a b)")
	assert.Error(t, err)
}

func TestContentModelMatchesEmpty(t *testing.T) {
	m, err := ParseContentSpec("EMPTY")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", nil))
	assert.Error(t, m.Matches("x", []string{"a"}))
}

func TestContentModelMatchesAny(t *testing.T) {
	m, err := ParseContentSpec("ANY")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", []string{"a", "b", "anything"}))
}

func TestContentModelMatchesMixed(t *testing.T) {
	m, err := ParseContentSpec("(#PCDATA|a|b)*")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", []string{"a", "b", "a"}))
	assert.Error(t, m.Matches("x", []string{"a", "c"}))
}

func TestContentModelMatchesSequence(t *testing.T) {
	m, err := ParseContentSpec("(a,b,c)")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", []string{"a", "b", "c"}))
	assert.Error(t, m.Matches("x", []string{"a", "c", "b"}))
	assert.Error(t, m.Matches("x", []string{"a", "b"}))
}

func TestContentModelMatchesOptionalAndStar(t *testing.T) {
	m, err := ParseContentSpec("(a,b?,c*)")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", []string{"a"}))
	assert.NoError(t, m.Matches("x", []string{"a", "b"}))
	assert.NoError(t, m.Matches("x", []string{"a", "c", "c", "c"}))
	assert.Error(t, m.Matches("x", []string{"a", "b", "b"}))
}

func TestContentModelMatchesNestedGroups(t *testing.T) {
	m, err := ParseContentSpec("(a,(b|c)+,d)")
	require.NoError(t, err)
	assert.NoError(t, m.Matches("x", []string{"a", "b", "c", "b", "d"}))
	assert.Error(t, m.Matches("x", []string{"a", "d"}))
}

func TestParseContentSpecRejectsInvalidNames(t *testing.T) {
	_, err := ParseContentSpec("(1bad)")
	assert.Error(t, err)
}
