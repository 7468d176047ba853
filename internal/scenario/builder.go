package scenario

import (
	"fmt"
	"strings"
)

// Builder assembles the final scenario from extracted samplers.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build converts samplers to ordered steps. A sampler carrying a think time
// produces two steps: the content step, then a pause-only "Think Time" step
// with a nil endpoint. Pauses are never inlined into the content step.
func (b *Builder) Build(name string, samplers []Sampler, settings Settings, variables map[string]string, description string) *Scenario {
	var steps []Step
	for _, sampler := range samplers {
		steps = append(steps, b.samplerToStep(sampler))

		if sampler.ThinkTime != nil {
			steps = append(steps, Step{
				Name:      "Think Time",
				Endpoint:  nil,
				Enabled:   true,
				ThinkTime: sampler.ThinkTime,
			})
		}
	}

	return &Scenario{
		Name:        name,
		Description: description,
		Settings:    settings,
		Variables:   variables,
		Steps:       steps,
	}
}

func (b *Builder) samplerToStep(sampler Sampler) Step {
	endpoint := fmt.Sprintf("%s %s", sampler.Method, sampler.Path)

	return Step{
		Name:     sampler.Name,
		Endpoint: &endpoint,
		Enabled:  sampler.Enabled,
		Headers:  dropEmptyValues(sampler.Headers),
		Params:   dropEmptyValues(sampler.Params),
		Payload:  sampler.Payload,
		Files:    sampler.Files,
		Captures: formatCaptures(sampler.Captures),
		Assert:   formatAssertions(sampler.Asserts),
		Loop:     formatLoop(sampler.Loop),
		Random:   sampler.Random,
	}
}

func dropEmptyValues(m map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// formatCaptures renders each capture in the most compact equivalent form:
// a bare variable name when the path is exactly "$.<name>" with the first
// policy, a {name: field} map for other simple first-policy fields, and an
// explicit {name: {path, [match]}} map otherwise.
func formatCaptures(captures []Capture) []any {
	var out []any

	for _, c := range captures {
		switch {
		case c.Match == "first" && c.Path == "$."+c.Variable:
			out = append(out, c.Variable)

		case c.Match == "first" && strings.HasPrefix(c.Path, "$."):
			field := strings.TrimPrefix(c.Path, "$.")
			if !strings.Contains(field, ".") && !strings.Contains(field, "[") {
				out = append(out, map[string]any{c.Variable: field})
			} else {
				out = append(out, map[string]any{c.Variable: map[string]any{"path": c.Path}})
			}

		default:
			detail := map[string]any{"path": c.Path}
			if c.Match != "first" {
				detail["match"] = c.Match
			}
			out = append(out, map[string]any{c.Variable: detail})
		}
	}
	return out
}

func formatAssertions(a *Assertions) map[string]any {
	if !a.Active() {
		return nil
	}

	out := map[string]any{}
	if a.Status != nil {
		out["status"] = *a.Status
	}
	if len(a.Body) > 0 {
		out["body"] = a.Body
	}
	if len(a.BodyContains) > 0 {
		out["body_contains"] = a.BodyContains
	}
	if len(a.Headers) > 0 {
		out["headers"] = a.Headers
	}
	return out
}

func formatLoop(l *Loop) map[string]any {
	if l == nil {
		return nil
	}

	out := map[string]any{}
	if l.Count != nil {
		out["count"] = *l.Count
	}
	if l.While != nil {
		out["while"] = *l.While
	}
	if l.MaxIterations != 0 && l.MaxIterations != DefaultMaxIterations {
		out["max"] = l.MaxIterations
	}
	if l.Interval != nil {
		out["interval"] = *l.Interval
	}
	if l.Variable != nil {
		out["variable"] = *l.Variable
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
