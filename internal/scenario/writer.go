package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteError is fatal to the write phase only; the computed scenario stays
// valid even when the destination cannot be written.
type WriteError struct {
	Msg     string
	Details string
}

func (e *WriteError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Msg, e.Details)
	}
	return e.Msg
}

// Writer serializes a Scenario to the pt_scenario YAML layout. The document
// tree is built by hand so key order stays stable, multiline strings render
// in literal block style, and absent values render as empty scalars.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes the scenario to the file at path.
func (w *Writer) Write(s *Scenario, path string) error {
	data, err := w.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Msg: "Failed to write YAML file", Details: err.Error()}
	}
	return nil
}

// Marshal serializes the scenario to YAML bytes.
func (w *Writer) Marshal(s *Scenario) ([]byte, error) {
	doc := buildDocument(s)
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, &WriteError{Msg: "Failed to encode YAML", Details: err.Error()}
	}
	return out, nil
}

func buildDocument(s *Scenario) *yaml.Node {
	doc := newMap()
	mapPut(doc, "name", strNode(s.Name))

	if s.Description != "" {
		mapPut(doc, "description", strNode(s.Description))
	}

	if settings := buildSettings(s.Settings); len(settings.Content) > 0 {
		mapPut(doc, "settings", settings)
	}

	if len(s.Variables) > 0 {
		mapPut(doc, "variables", stringMapNode(s.Variables))
	}

	steps := &yaml.Node{Kind: yaml.SequenceNode}
	for _, step := range s.Steps {
		steps.Content = append(steps.Content, buildStep(step))
	}
	mapPut(doc, "scenario", steps)

	return doc
}

// buildSettings emits only settings that differ from their defaults.
func buildSettings(s Settings) *yaml.Node {
	settings := newMap()
	if s.Threads != 1 {
		mapPut(settings, "threads", intNode(s.Threads))
	}
	if s.RampUp != 0 {
		mapPut(settings, "rampup", intNode(s.RampUp))
	}
	if s.Loops != nil && *s.Loops != 1 {
		mapPut(settings, "loops", intNode(*s.Loops))
	}
	if s.Duration != nil {
		mapPut(settings, "duration", intNode(*s.Duration))
	}
	if s.BaseURL != "" {
		mapPut(settings, "base_url", strNode(s.BaseURL))
	}
	return settings
}

func buildStep(step Step) *yaml.Node {
	node := newMap()
	mapPut(node, "name", strNode(step.Name))

	if step.Endpoint != nil {
		mapPut(node, "endpoint", strNode(*step.Endpoint))
	} else {
		mapPut(node, "endpoint", nullNode())
	}

	if !step.Enabled {
		mapPut(node, "enabled", boolNode(false))
	}
	if len(step.Headers) > 0 {
		mapPut(node, "headers", stringMapNode(step.Headers))
	}
	if len(step.Params) > 0 {
		mapPut(node, "params", stringMapNode(step.Params))
	}
	if step.Payload != nil {
		mapPut(node, "payload", anyNode(step.Payload))
	}
	if len(step.Files) > 0 {
		mapPut(node, "files", filesNode(step.Files))
	}
	if len(step.Captures) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range step.Captures {
			seq.Content = append(seq.Content, anyNode(c))
		}
		mapPut(node, "capture", seq)
	}
	if len(step.Assert) > 0 {
		mapPut(node, "assert", anyMapNode(step.Assert))
	}
	if len(step.Loop) > 0 {
		mapPut(node, "loop", anyMapNode(step.Loop))
	}
	if step.ThinkTime != nil {
		mapPut(node, "think_time", intNode(*step.ThinkTime))
	}
	if step.Random {
		mapPut(node, "random", boolNode(true))
	}
	return node
}

func filesNode(files []FileUpload) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, f := range files {
		entry := newMap()
		mapPut(entry, "path", strNode(f.Path))
		mapPut(entry, "param", strNode(f.Param))
		if f.MimeType != "" {
			mapPut(entry, "mime_type", strNode(f.MimeType))
		}
		seq.Content = append(seq.Content, entry)
	}
	return seq
}

func newMap() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func mapPut(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func strNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", i)}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", b)}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
}

// stringMapNode renders a string map with sorted keys for stable output.
func stringMapNode(m map[string]string) *yaml.Node {
	node := newMap()
	for _, k := range sortedKeys(m) {
		mapPut(node, k, strNode(m[k]))
	}
	return node
}

func anyMapNode(m map[string]any) *yaml.Node {
	node := newMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mapPut(node, k, anyNode(m[k]))
	}
	return node
}

// anyNode renders an arbitrary decoded value (JSON payloads, compact
// capture forms) as a YAML node.
func anyNode(v any) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return nullNode()
	case string:
		return strNode(t)
	case bool:
		return boolNode(t)
	case int:
		return intNode(t)
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", t)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%v", t)}
	case map[string]any:
		return anyMapNode(t)
	case map[string]string:
		return stringMapNode(t)
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			seq.Content = append(seq.Content, strNode(e))
		}
		return seq
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			seq.Content = append(seq.Content, anyNode(e))
		}
		return seq
	default:
		return strNode(fmt.Sprintf("%v", t))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
