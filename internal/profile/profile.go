// Package profile loads an optional HCL conversion profile that extends a
// conversion without editing the source plan: extra elements to skip, and
// headers/variables merged below the plan's own.
package profile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Profile is the decoded conversion profile.
type Profile struct {
	Skips     []Skip     `hcl:"skip,block"`
	Headers   []Header   `hcl:"header,block"`
	Variables []Variable `hcl:"variable,block"`
}

// Skip marks an element tag as unsupported with a reason; matching elements
// are warned about and not recursed into.
type Skip struct {
	Element string `hcl:"element,label"`
	Reason  string `hcl:"reason"`
}

// Header is an extra global header applied below the plan's own.
type Header struct {
	Name  string `hcl:"name,label"`
	Value string `hcl:"value"`
}

// Variable is an extra user variable applied below the plan's own.
type Variable struct {
	Name  string `hcl:"name,label"`
	Value string `hcl:"value"`
}

// Load decodes the profile at path (.hcl or .json).
func Load(path string) (*Profile, error) {
	var p Profile
	if err := hclsimple.DecodeFile(path, nil, &p); err != nil {
		return nil, fmt.Errorf("load profile %s: %w", path, err)
	}
	return &p, nil
}

// SkipMap returns the skip blocks as a tag-to-reason map.
func (p *Profile) SkipMap() map[string]string {
	out := make(map[string]string, len(p.Skips))
	for _, s := range p.Skips {
		out[s.Element] = s.Reason
	}
	return out
}

// HeaderMap returns the header blocks as a map.
func (p *Profile) HeaderMap() map[string]string {
	out := make(map[string]string, len(p.Headers))
	for _, h := range p.Headers {
		out[h.Name] = h.Value
	}
	return out
}

// VariableMap returns the variable blocks as a map.
func (p *Profile) VariableMap() map[string]string {
	out := make(map[string]string, len(p.Variables))
	for _, v := range p.Variables {
		out[v.Name] = v.Value
	}
	return out
}
