package jmx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const propsSnippet = `<Element testname="Sample" enabled="true">
  <stringProp name="str.set">value</stringProp>
  <stringProp name="str.empty"></stringProp>
  <boolProp name="bool.true">true</boolProp>
  <boolProp name="bool.false">false</boolProp>
  <intProp name="int.set">42</intProp>
  <stringProp name="int.string"> 7 </stringProp>
  <stringProp name="int.junk">abc</stringProp>
</Element>`

func TestStringProp(t *testing.T) {
	n := mustParse(t, propsSnippet).Root

	assert.Equal(t, "value", StringProp(n, "str.set", "def"))
	assert.Equal(t, "def", StringProp(n, "str.empty", "def"), "empty value falls back to default")
	assert.Equal(t, "def", StringProp(n, "str.missing", "def"))
}

func TestBoolProp(t *testing.T) {
	n := mustParse(t, propsSnippet).Root

	assert.True(t, BoolProp(n, "bool.true", false))
	assert.False(t, BoolProp(n, "bool.false", true))
	assert.True(t, BoolProp(n, "bool.missing", true))
}

func TestIntProp(t *testing.T) {
	n := mustParse(t, propsSnippet).Root

	assert.Equal(t, 42, IntProp(n, "int.set", 0))
	assert.Equal(t, 7, IntProp(n, "int.string", 0), "stringProp numbers count too")
	assert.Equal(t, 9, IntProp(n, "int.junk", 9))
	assert.Equal(t, 9, IntProp(n, "int.missing", 9))
}

func TestAttrAndIsEnabled(t *testing.T) {
	n := mustParse(t, propsSnippet).Root

	assert.Equal(t, "Sample", Attr(n, "testname", ""))
	assert.Equal(t, "def", Attr(n, "missing", "def"))
	assert.True(t, IsEnabled(n))

	disabled := mustParse(t, `<Element enabled="false"/>`).Root
	assert.False(t, IsEnabled(disabled))

	unmarked := mustParse(t, `<Element/>`).Root
	assert.True(t, IsEnabled(unmarked), "missing enabled attribute counts as enabled")
}

func TestNormalizeVariableRefs(t *testing.T) {
	assert.Equal(t, "${token}", NormalizeVariableRefs("$${token}"))
	assert.Equal(t, "/users/${id}/x", NormalizeVariableRefs("/users/$${id}/x"))
	assert.Equal(t, "plain", NormalizeVariableRefs("plain"))
}

func TestStripCarriageReturns(t *testing.T) {
	assert.Equal(t, "a\nb", StripCarriageReturns("a\r\nb"))
	assert.Equal(t, "plain", StripCarriageReturns("plain"))
}
