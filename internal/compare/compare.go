// Package compare builds a Markdown report contrasting the element
// inventories of two JMX files, typically an original plan and one
// regenerated from a converted scenario.
package compare

import (
	"fmt"
	"sort"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"

	"github.com/agentic-research/jmx2scenario/internal/jmx"
)

// ThreadGroupInfo summarizes one ThreadGroup.
type ThreadGroupInfo struct {
	Name     string
	Threads  string
	RampUp   string
	Duration string
	Loops    string
}

// SamplerInfo summarizes one HTTP sampler.
type SamplerInfo struct {
	Name   string
	Method string
	Path   string
	Domain string
}

// ExtractorInfo summarizes one JSON or regex extractor.
type ExtractorInfo struct {
	Name       string
	Variable   string
	Expression string
}

// Stats is the element inventory of one JMX document.
type Stats struct {
	ThreadGroups       []ThreadGroupInfo
	Samplers           []SamplerInfo
	JSONExtractors     []ExtractorInfo
	RegexExtractors    []ExtractorInfo
	ResponseAssertions int
	JSONPathAssertions int
	HeaderManagers     int
	Timers             int
	Controllers        []string
	Other              map[string]int
}

var controllerTags = []string{
	"LoopController",
	"WhileController",
	"IfController",
	"TransactionController",
	"GenericController",
}

// trackedTags are structural or accounted-for elements excluded from the
// "other" bucket.
var trackedTags = map[string]bool{
	"jmeterTestPlan": true, "TestPlan": true, "hashTree": true,
	"ThreadGroup": true, "HTTPSamplerProxy": true,
	"JSONPostProcessor": true, "RegexExtractor": true,
	"ResponseAssertion": true, "JSONPathAssertion": true,
	"HeaderManager": true, "ConstantTimer": true,
	"elementProp": true, "stringProp": true, "boolProp": true,
	"intProp": true, "longProp": true, "collectionProp": true,
	"objProp": true, "Arguments": true, "ConfigTestElement": true,
	"ResultCollector": true, "LoopController": true,
	"WhileController": true, "IfController": true,
	"TransactionController": true, "GenericController": true,
}

// Collect gathers the inventory of one document.
func Collect(doc *jmx.Document) *Stats {
	stats := &Stats{Other: map[string]int{}}

	for _, tg := range doc.Root.Iter("ThreadGroup") {
		info := ThreadGroupInfo{Name: jmx.Attr(tg, "testname", "Unknown")}
		info.Threads = jmx.StringProp(tg, "ThreadGroup.num_threads", "")
		info.RampUp = jmx.StringProp(tg, "ThreadGroup.ramp_time", "")
		info.Duration = jmx.StringProp(tg, "ThreadGroup.duration", "")
		if ctrl := tg.FindProp("elementProp", "ThreadGroup.main_controller"); ctrl != nil {
			info.Loops = jmx.StringProp(ctrl, "LoopController.loops", "")
		}
		stats.ThreadGroups = append(stats.ThreadGroups, info)
	}

	for _, s := range doc.Root.Iter("HTTPSamplerProxy") {
		stats.Samplers = append(stats.Samplers, SamplerInfo{
			Name:   jmx.Attr(s, "testname", "Unknown"),
			Method: jmx.StringProp(s, "HTTPSampler.method", ""),
			Path:   jmx.StringProp(s, "HTTPSampler.path", ""),
			Domain: jmx.StringProp(s, "HTTPSampler.domain", ""),
		})
	}

	for _, e := range doc.Root.Iter("JSONPostProcessor") {
		stats.JSONExtractors = append(stats.JSONExtractors, ExtractorInfo{
			Name:       jmx.Attr(e, "testname", "Unknown"),
			Variable:   jmx.StringProp(e, "JSONPostProcessor.referenceNames", ""),
			Expression: jmx.StringProp(e, "JSONPostProcessor.jsonPathExprs", ""),
		})
	}

	for _, e := range doc.Root.Iter("RegexExtractor") {
		stats.RegexExtractors = append(stats.RegexExtractors, ExtractorInfo{
			Name:       jmx.Attr(e, "testname", "Unknown"),
			Variable:   jmx.StringProp(e, "RegexExtractor.refname", ""),
			Expression: jmx.StringProp(e, "RegexExtractor.regex", ""),
		})
	}

	stats.ResponseAssertions = len(doc.Root.Iter("ResponseAssertion"))
	stats.JSONPathAssertions = len(doc.Root.Iter("JSONPathAssertion"))
	stats.HeaderManagers = len(doc.Root.Iter("HeaderManager"))
	stats.Timers = len(doc.Root.Iter("ConstantTimer"))

	for _, tag := range controllerTags {
		for _, c := range doc.Root.Iter(tag) {
			stats.Controllers = append(stats.Controllers, fmt.Sprintf("%s: %s", tag, jmx.Attr(c, "testname", "Unknown")))
		}
	}

	countOther(doc.Root, stats.Other)
	return stats
}

func countOther(n *jmx.Node, other map[string]int) {
	if !trackedTags[n.Tag] {
		other[n.Tag]++
	}
	for _, c := range n.Children {
		countOther(c, other)
	}
}

// summary returns the name/count rows shared by the table and the
// compatibility score.
func (s *Stats) summary() []struct {
	Name  string
	Count int
} {
	return []struct {
		Name  string
		Count int
	}{
		{"Thread Groups", len(s.ThreadGroups)},
		{"HTTP Samplers", len(s.Samplers)},
		{"JSON Extractors", len(s.JSONExtractors)},
		{"Regex Extractors", len(s.RegexExtractors)},
		{"Response Assertions", s.ResponseAssertions},
		{"JSONPath Assertions", s.JSONPathAssertions},
		{"Header Managers", s.HeaderManagers},
		{"Timers", s.Timers},
		{"Controllers", len(s.Controllers)},
	}
}

// Report renders the Markdown comparison of two inventories.
func Report(originalPath, generatedPath string, original, generated *Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# JMX comparison report\n\n")
	fmt.Fprintf(&b, "**Original:** `%s`\n", originalPath)
	fmt.Fprintf(&b, "**Generated:** `%s`\n\n---\n\n## Summary\n\n", generatedPath)

	b.WriteString("| Element | Original | Generated | Diff |\n")
	b.WriteString("|---------|----------|-----------|------|\n")

	origSummary := original.summary()
	genSummary := generated.summary()
	totalOrig, totalGen := 0, 0
	for i, row := range origSummary {
		gen := genSummary[i].Count
		diff := gen - row.Count
		sign := ""
		if diff > 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %s%d |\n", row.Name, row.Count, gen, sign, diff)
		totalOrig += row.Count
		totalGen += gen
	}

	b.WriteString("\n---\n\n## Thread Groups\n\n### Original\n")
	writeThreadGroups(&b, original.ThreadGroups)
	b.WriteString("\n### Generated\n")
	writeThreadGroups(&b, generated.ThreadGroups)

	b.WriteString("\n---\n\n## HTTP Samplers\n\n")
	fmt.Fprintf(&b, "**Original:** %d samplers\n", len(original.Samplers))
	fmt.Fprintf(&b, "**Generated:** %d samplers\n\n", len(generated.Samplers))

	if missing := missingSamplers(original.Samplers, generated.Samplers); len(missing) > 0 {
		b.WriteString("**Missing in generated:**\n")
		for _, name := range missing {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## JSON Extractors\n\n### Original\n")
	writeExtractors(&b, original.JSONExtractors)
	b.WriteString("\n### Generated\n")
	writeExtractors(&b, generated.JSONExtractors)

	if diff := inventoryDiff(original, generated); diff != "" {
		b.WriteString("\n---\n\n## Inventory diff\n\n```diff\n")
		b.WriteString(diff)
		b.WriteString("```\n")
	}

	compatibility := 100.0
	if totalOrig > 0 {
		compatibility = float64(totalGen) / float64(totalOrig) * 100
	}
	fmt.Fprintf(&b, "\n---\n\n## Assessment\n\n**Compatibility:** %.1f%%\n", compatibility)

	return b.String()
}

func writeThreadGroups(b *strings.Builder, groups []ThreadGroupInfo) {
	for _, tg := range groups {
		fmt.Fprintf(b, "- **%s**: threads=%s, rampup=%s, duration=%s, loops=%s\n",
			tg.Name, tg.Threads, tg.RampUp, tg.Duration, tg.Loops)
	}
}

func writeExtractors(b *strings.Builder, extractors []ExtractorInfo) {
	for _, e := range extractors {
		fmt.Fprintf(b, "- `%s` = `%s`\n", e.Variable, e.Expression)
	}
}

// missingSamplers lists original sampler names absent from the generated
// plan. Generated names may carry a "[N] " ordering prefix, which is
// stripped before matching.
func missingSamplers(original, generated []SamplerInfo) []string {
	genNames := map[string]bool{}
	for _, s := range generated {
		name := s.Name
		if strings.HasPrefix(name, "[") {
			if _, rest, ok := strings.Cut(name, "] "); ok {
				name = rest
			}
		}
		genNames[name] = true
	}

	var missing []string
	for _, s := range original {
		if !genNames[s.Name] {
			missing = append(missing, s.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// inventoryDiff renders the untracked-element counts of both files as
// sorted "tag: count" listings and unified-diffs them.
func inventoryDiff(original, generated *Stats) string {
	return udiff.Unified("original", "generated",
		renderInventory(original.Other), renderInventory(generated.Other))
}

func renderInventory(other map[string]int) string {
	tags := make([]string, 0, len(other))
	for tag := range other {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var b strings.Builder
	for _, tag := range tags {
		fmt.Fprintf(&b, "%s: %d\n", tag, other[tag])
	}
	return b.String()
}
