package jmx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHashTree_Minimal(t *testing.T) {
	doc := mustParse(t, minimalJMX)
	tree := BuildHashTree(doc)

	plan := doc.Root.Iter("TestPlan")[0]
	children, ok := tree.ChildrenOf(plan)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "ThreadGroup", children[0].Tag)

	tg := children[0]
	children, ok = tree.ChildrenOf(tg)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "HTTPSamplerProxy", children[0].Tag)

	// The sampler is followed by an empty hashTree: registered, no children.
	sampler := children[0]
	children, ok = tree.ChildrenOf(sampler)
	assert.True(t, ok)
	assert.Empty(t, children)
}

func TestBuildHashTree_UnvisitedNodesAreAbsent(t *testing.T) {
	doc := mustParse(t, minimalJMX)
	tree := BuildHashTree(doc)

	// Property elements live inside their parent element, not in the
	// hashTree sibling convention, so the builder never sees them.
	prop := doc.Root.Iter("stringProp")[0]
	children, ok := tree.ChildrenOf(prop)
	assert.False(t, ok)
	assert.Nil(t, children)
}

func TestBuildHashTree_NestedControllers(t *testing.T) {
	doc := mustParse(t, randomControllerJMX)
	tree := BuildHashTree(doc)

	tg := doc.Root.Iter("ThreadGroup")[0]
	children, ok := tree.ChildrenOf(tg)
	require.True(t, ok)
	require.Len(t, children, 2)
	assert.Equal(t, "RandomController", children[0].Tag)
	assert.Equal(t, "HTTPSamplerProxy", children[1].Tag)

	inner, ok := tree.ChildrenOf(children[0])
	require.True(t, ok)
	require.Len(t, inner, 2)
	assert.Equal(t, "Option A", Attr(inner[0], "testname", ""))
	assert.Equal(t, "Option B", Attr(inner[1], "testname", ""))
}

func TestBuildHashTree_NodeWithoutFollowingContainer(t *testing.T) {
	doc := mustParse(t, `<jmeterTestPlan>
  <hashTree>
    <TestPlan testname="Plan"/>
    <hashTree>
      <HeaderManager testname="Orphan"/>
    </hashTree>
  </hashTree>
</jmeterTestPlan>`)
	tree := BuildHashTree(doc)

	manager := doc.Root.Iter("HeaderManager")[0]
	children, ok := tree.ChildrenOf(manager)
	assert.True(t, ok, "a node with no following hashTree is still registered")
	assert.Empty(t, children)
}

func TestBuildHashTree_EmptyDocument(t *testing.T) {
	doc := mustParse(t, `<jmeterTestPlan/>`)
	tree := BuildHashTree(doc)

	_, ok := tree.ChildrenOf(doc.Root)
	assert.False(t, ok)
}
