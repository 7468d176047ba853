package jmx

import (
	"strconv"
	"strings"
)

// StringProp returns the named stringProp value from the element's direct
// children, or def when absent or empty.
func StringProp(n *Node, name, def string) string {
	if p := n.ChildProp("stringProp", name); p != nil && p.Text != "" {
		return p.Text
	}
	return def
}

// BoolProp returns the named boolProp value, or def when absent or empty.
func BoolProp(n *Node, name string, def bool) bool {
	if p := n.ChildProp("boolProp", name); p != nil && p.Text != "" {
		return strings.EqualFold(p.Text, "true")
	}
	return def
}

// IntProp returns the named property as an integer. JMeter stores numbers
// as intProp or stringProp depending on the element, so both are checked.
func IntProp(n *Node, name string, def int) int {
	if p := n.ChildProp("intProp", name); p != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(p.Text)); err == nil {
			return v
		}
	}
	if p := n.ChildProp("stringProp", name); p != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(p.Text)); err == nil {
			return v
		}
	}
	return def
}

// Attr returns the named attribute, or def when absent.
func Attr(n *Node, name, def string) string {
	if v, ok := n.Attr[name]; ok {
		return v
	}
	return def
}

// IsEnabled reports whether the element is enabled. A missing enabled
// attribute counts as enabled.
func IsEnabled(n *Node) bool {
	return strings.EqualFold(Attr(n, "enabled", "true"), "true")
}

// NormalizeVariableRefs rewrites the escaped $${var} form to ${var}.
func NormalizeVariableRefs(text string) string {
	return strings.ReplaceAll(text, "$${", "${")
}

// StripCarriageReturns removes Windows line-ending CR bytes from text.
func StripCarriageReturns(text string) string {
	return strings.ReplaceAll(text, "\r", "")
}
