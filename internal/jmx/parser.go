package jmx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/jmx2scenario/internal/scenario"
)

// Defaults holds the HTTP Request Defaults config element values.
type Defaults struct {
	Domain          string
	Port            string
	Protocol        string
	ContentEncoding string
}

// Result is everything one parse run produces. Warnings are recoverable
// findings; Errors are only populated alongside a failed run.
type Result struct {
	Name      string
	Settings  scenario.Settings
	Variables map[string]string
	Defaults  Defaults
	Samplers  []scenario.Sampler
	Warnings  []string
	Errors    []string
}

// Parser converts a JMX document into a Result. The zero value is usable;
// the optional fields extend the conversion without editing the plan.
type Parser struct {
	// Skip maps additional element tags to a reason; matching elements are
	// warned about and not recursed into, like the built-in unsupported set.
	Skip map[string]string
	// ExtraHeaders are merged below the plan's global headers.
	ExtraHeaders map[string]string
	// ExtraVariables are merged below the plan's user-defined variables.
	ExtraVariables map[string]string
}

// New returns a Parser with no profile extensions.
func New() *Parser {
	return &Parser{}
}

// Parse reads and converts the JMX file at path. A *ParseError is returned
// for unreadable or malformed documents; everything else degrades to
// warnings on the Result.
func (p *Parser) Parse(path string) (*Result, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc)
}

// ParseDocument converts an already-decoded document.
func (p *Parser) ParseDocument(doc *Document) (*Result, error) {
	diags := &Diagnostics{}
	tree := BuildHashTree(doc)

	defaults := extractDefaults(doc)
	settings := extractThreadSettings(doc, diags)
	if defaults.Domain != "" {
		settings.BaseURL = buildBaseURL(defaults.Domain, defaults.Port, defaults.Protocol)
	}

	variables := p.extractVariables(doc)
	globalHeaders := p.extractGlobalHeaders(doc, tree)

	w := &walker{
		parser:        p,
		tree:          tree,
		globalHeaders: globalHeaders,
		diags:         diags,
	}
	samplers := w.extractSamplers(doc)

	return &Result{
		Name:      extractTestPlanName(doc),
		Settings:  settings,
		Variables: variables,
		Defaults:  defaults,
		Samplers:  samplers,
		Warnings:  diags.Warnings,
		Errors:    diags.Errors,
	}, nil
}

func extractTestPlanName(doc *Document) string {
	const def = "Converted Test Plan"
	plans := doc.Root.Iter("TestPlan")
	if len(plans) == 0 {
		return def
	}
	return Attr(plans[0], "testname", def)
}

// extractDefaults reads the HTTP Request Defaults ConfigTestElement,
// identified by its gui class.
func extractDefaults(doc *Document) Defaults {
	defaults := Defaults{Protocol: "http", ContentEncoding: "UTF-8"}

	for _, config := range doc.Root.Iter("ConfigTestElement") {
		if !containsHTTPDefaultsGui(config) {
			continue
		}
		defaults.Domain = StringProp(config, "HTTPSampler.domain", "")
		defaults.Port = StringProp(config, "HTTPSampler.port", "")
		defaults.Protocol = StringProp(config, "HTTPSampler.protocol", "http")
		defaults.ContentEncoding = StringProp(config, "HTTPSampler.contentEncoding", "UTF-8")
		break
	}
	return defaults
}

func containsHTTPDefaultsGui(n *Node) bool {
	return strings.Contains(Attr(n, "guiclass", ""), "HttpDefaultsGui")
}

// extractVariables reads User Defined Variables from ArgumentsPanel
// elements. Profile-supplied variables sit below the plan's own.
func (p *Parser) extractVariables(doc *Document) map[string]string {
	variables := map[string]string{}
	for name, value := range p.ExtraVariables {
		variables[name] = value
	}

	for _, args := range doc.Root.Iter("Arguments") {
		if !strings.Contains(Attr(args, "guiclass", ""), "ArgumentsPanel") {
			continue
		}
		collection := args.ChildProp("collectionProp", "Arguments.arguments")
		if collection == nil {
			continue
		}
		for _, prop := range collection.Children {
			if prop.Tag != "elementProp" {
				continue
			}
			name := StringProp(prop, "Argument.name", "")
			if name != "" {
				variables[name] = StringProp(prop, "Argument.value", "")
			}
		}
	}
	return variables
}

// extractThreadSettings reads the first ThreadGroup's execution settings.
// Additional thread groups still contribute samplers, but only the first
// one's settings are honored.
func extractThreadSettings(doc *Document, diags *Diagnostics) scenario.Settings {
	settings := scenario.DefaultSettings()

	groups := doc.Root.Iter("ThreadGroup")
	if len(groups) == 0 {
		return settings
	}
	if len(groups) > 1 {
		diags.Warnf("Multiple ThreadGroups found (%d), using first only", len(groups))
	}

	tg := groups[0]
	settings.Threads = IntProp(tg, "ThreadGroup.num_threads", 1)
	settings.RampUp = IntProp(tg, "ThreadGroup.ramp_time", 0)

	if BoolProp(tg, "ThreadGroup.scheduler", false) {
		duration := IntProp(tg, "ThreadGroup.duration", 0)
		settings.Duration = &duration
	}

	if controller := tg.FindProp("elementProp", "ThreadGroup.main_controller"); controller != nil {
		loops := StringProp(controller, "LoopController.loops", "1")
		var count int
		if loops == "-1" {
			count = 0 // infinite by convention
		} else if v, err := strconv.Atoi(loops); err == nil {
			count = v
		} else {
			count = 1
		}
		settings.Loops = &count
	}

	return settings
}

// extractGlobalHeaders collects HeaderManager headers attached directly
// under the TestPlan. Profile-supplied headers sit below the plan's own.
func (p *Parser) extractGlobalHeaders(doc *Document, tree *HashTree) map[string]string {
	headers := map[string]string{}
	for name, value := range p.ExtraHeaders {
		headers[name] = value
	}

	plans := doc.Root.Iter("TestPlan")
	if len(plans) == 0 {
		return headers
	}

	children, _ := tree.ChildrenOf(plans[0])
	for _, child := range children {
		if child.Tag == "HeaderManager" {
			mergeHeaders(headers, extractHeadersFromManager(child))
		}
	}
	return headers
}

func mergeHeaders(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func buildBaseURL(domain, port, protocol string) string {
	if domain == "" {
		return ""
	}
	if protocol == "" {
		protocol = "http"
	}

	switch {
	case port != "" && port != "80" && port != "443":
		return fmt.Sprintf("%s://%s:%s", protocol, domain, port)
	case port == "443" && protocol == "https":
		return "https://" + domain
	case port == "80" && protocol == "http":
		return "http://" + domain
	default:
		return fmt.Sprintf("%s://%s", protocol, domain)
	}
}
