package jmx

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/jmx2scenario/internal/groovy"
	"github.com/agentic-research/jmx2scenario/internal/scenario"
)

// Element tags with dedicated walk semantics.
const (
	tagHTTPSampler           = "HTTPSamplerProxy"
	tagRandomController      = "RandomController"
	tagTransactionController = "TransactionController"
	tagTestAction            = "TestAction"
)

// TestAction.action code for a pause.
const pauseAction = 1

// unsupportedElements are recognized but not representable in the scenario
// format. They produce a warning and are not recursed into.
var unsupportedElements = map[string]string{
	"JSR223Sampler":    "Groovy/JavaScript scripts not portable",
	"BeanShellSampler": "BeanShell scripts not portable",
	"RegexExtractor":   "Regex extraction not supported in pt_scenario",
	"CSVDataSetConfig": "External data sources not supported",
}

// walkContext is the state threaded down the recursive walk. A new value is
// derived whenever a controlling ancestor modifies one of the fields; the
// pending pause is consumed exactly once, at the next matched sampler.
type walkContext struct {
	inRandom     bool
	transaction  string // empty means no enclosing transaction
	pendingPause *int   // milliseconds
}

// walker performs one extraction pass over a document.
type walker struct {
	parser        *Parser
	tree          *HashTree
	globalHeaders map[string]string
	diags         *Diagnostics
}

// extractSamplers walks every ThreadGroup in document order. Each group
// starts with a fresh all-default context.
func (w *walker) extractSamplers(doc *Document) []scenario.Sampler {
	var samplers []scenario.Sampler
	for _, tg := range doc.Root.Iter("ThreadGroup") {
		slog.Debug("walking thread group", "name", Attr(tg, "testname", ""))
		w.walk(tg, walkContext{}, &samplers)
	}
	return samplers
}

// walk processes the direct children of node, threading ctx. Transaction
// name and random flag persist across siblings; a pending pause set by one
// sibling applies only until the next sampler consumes it.
func (w *walker) walk(node *Node, ctx walkContext, results *[]scenario.Sampler) {
	children, _ := w.tree.ChildrenOf(node)

	for _, child := range children {
		if !IsEnabled(child) {
			continue
		}

		switch {
		// Skip entries take precedence over dedicated tag handling, so a
		// profile can exclude samplers and controllers too.
		case w.skipReason(child.Tag) != "":
			name := Attr(child, "testname", child.Tag)
			w.diags.Warnf("%s ignored (%s)", name, w.skipReason(child.Tag))

		case child.Tag == tagRandomController:
			derived := ctx
			derived.inRandom = true
			w.walk(child, derived, results)

		case child.Tag == tagTransactionController:
			derived := ctx
			derived.transaction = Attr(child, "testname", "Transaction")
			w.walk(child, derived, results)

		case child.Tag == tagTestAction:
			if IntProp(child, "TestAction.action", 0) == pauseAction {
				if duration := IntProp(child, "TestAction.duration", 0); duration > 0 {
					ctx.pendingPause = &duration
				}
			}
			// A TestAction may itself contain children.
			w.walk(child, ctx, results)

		case child.Tag == tagHTTPSampler:
			sampler := w.extractSampler(child)

			if ctx.inRandom {
				sampler.Random = true
			}
			if ctx.transaction != "" {
				sampler.Name = ctx.transaction + ": " + sampler.Name
			}
			if ctx.pendingPause != nil && sampler.ThinkTime == nil {
				sampler.ThinkTime = ctx.pendingPause
			}

			*results = append(*results, sampler)
			ctx.pendingPause = nil

		default:
			// Generic, loop, if and while controllers carry no context of
			// their own; recurse unchanged.
			w.walk(child, ctx, results)
		}
	}
}

// skipReason returns the unsupported-element reason for a tag, profile
// extensions included, or "" when the tag is handled.
func (w *walker) skipReason(tag string) string {
	if reason, ok := w.parser.Skip[tag]; ok {
		return reason
	}
	return unsupportedElements[tag]
}

// extractSampler assembles the full intermediate record for one
// HTTPSamplerProxy. Every sub-extractor is independent and optional.
func (w *walker) extractSampler(sampler *Node) scenario.Sampler {
	children, _ := w.tree.ChildrenOf(sampler)

	path := NormalizeVariableRefs(StringProp(sampler, "HTTPSampler.path", "/"))
	payload, params := w.extractBody(sampler)

	headers := map[string]string{}
	mergeHeaders(headers, w.globalHeaders)
	mergeHeaders(headers, extractChildHeaders(children))

	var thinkTime *int
	if delay := extractTimers(children); delay > 0 {
		thinkTime = &delay
	}

	return scenario.Sampler{
		Name:      Attr(sampler, "testname", "HTTP Request"),
		Method:    StringProp(sampler, "HTTPSampler.method", "GET"),
		Path:      path,
		Enabled:   IsEnabled(sampler),
		Domain:    StringProp(sampler, "HTTPSampler.domain", ""),
		Port:      StringProp(sampler, "HTTPSampler.port", ""),
		Protocol:  StringProp(sampler, "HTTPSampler.protocol", ""),
		Payload:   payload,
		Params:    params,
		Headers:   headers,
		Files:     extractFiles(sampler),
		Captures:  w.extractCaptures(children),
		Asserts:   extractAssertions(children),
		Loop:      nil, // parent-controller loops are not tracked per sampler
		ThinkTime: thinkTime,
	}
}

// extractBody returns the raw payload or the form-parameter map, never
// both. Raw mode takes the first non-blank argument value and attempts a
// strict JSON parse, keeping the raw string on failure.
func (w *walker) extractBody(sampler *Node) (any, map[string]string) {
	arguments := sampler.FindProp("elementProp", "HTTPsampler.Arguments")
	if arguments == nil {
		return nil, map[string]string{}
	}
	collection := arguments.ChildProp("collectionProp", "Arguments.arguments")
	if collection == nil {
		return nil, map[string]string{}
	}

	if BoolProp(sampler, "HTTPSampler.postBodyRaw", false) {
		for _, arg := range collection.Children {
			if arg.Tag != "elementProp" {
				continue
			}
			value := StringProp(arg, "Argument.value", "")
			if value == "" {
				continue
			}
			value = StripCarriageReturns(strings.TrimSpace(value))
			if value == "" {
				continue
			}
			if parsed, err := oj.Parse([]byte(value)); err == nil {
				return parsed, map[string]string{}
			}
			return value, map[string]string{}
		}
		return nil, map[string]string{}
	}

	params := map[string]string{}
	for _, arg := range collection.Children {
		if arg.Tag != "elementProp" {
			continue
		}
		name := StringProp(arg, "Argument.name", "")
		if name != "" {
			params[name] = NormalizeVariableRefs(StringProp(arg, "Argument.value", ""))
		}
	}
	return nil, params
}

// extractChildHeaders merges every HeaderManager found among the sampler's
// direct children. Sampler-level headers override global ones upstream.
func extractChildHeaders(children []*Node) map[string]string {
	headers := map[string]string{}
	for _, child := range children {
		if child.Tag == "HeaderManager" {
			mergeHeaders(headers, extractHeadersFromManager(child))
		}
	}
	return headers
}

func extractHeadersFromManager(manager *Node) map[string]string {
	headers := map[string]string{}
	collection := manager.ChildProp("collectionProp", "HeaderManager.headers")
	if collection == nil {
		return headers
	}
	for _, prop := range collection.Children {
		if prop.Tag != "elementProp" {
			continue
		}
		name := StringProp(prop, "Header.name", "")
		if name == "" {
			continue
		}
		// JMeter sometimes records header names with a leading "- ".
		name = strings.TrimLeft(name, "- ")
		headers[name] = NormalizeVariableRefs(StringProp(prop, "Header.value", ""))
	}
	return headers
}

// extractFiles reads multipart file attachments from HTTPsampler.Files.
func extractFiles(sampler *Node) []scenario.FileUpload {
	var files []scenario.FileUpload

	fileArgs := sampler.FindProp("elementProp", "HTTPsampler.Files")
	if fileArgs == nil {
		return files
	}
	collection := fileArgs.ChildProp("collectionProp", "HTTPFileArgs.files")
	if collection == nil {
		return files
	}

	for _, prop := range collection.Children {
		if prop.Tag != "elementProp" || prop.Attr["elementType"] != "HTTPFileArg" {
			continue
		}
		path := StringProp(prop, "File.path", "")
		param := StringProp(prop, "File.paramname", "")
		if path == "" || param == "" {
			continue
		}
		files = append(files, scenario.FileUpload{
			Path:     NormalizeVariableRefs(path),
			Param:    param,
			MimeType: StringProp(prop, "File.mimetype", ""),
		})
	}
	return files
}

// extractCaptures reads enabled JSONPostProcessor children. Reference names
// and path expressions are parallel comma-separated lists; a missing path
// defaults to "$.<name>".
func (w *walker) extractCaptures(children []*Node) []scenario.Capture {
	var captures []scenario.Capture

	for _, child := range children {
		if child.Tag != "JSONPostProcessor" || !IsEnabled(child) {
			continue
		}

		names := splitTrimmed(StringProp(child, "JSONPostProcessor.referenceNames", ""))
		paths := splitTrimmed(StringProp(child, "JSONPostProcessor.jsonPathExprs", ""))

		match, warnings := groovy.ConvertMatchNumber(StringProp(child, "JSONPostProcessor.match_numbers", ""))
		w.diags.Warn(warnings...)

		for i, name := range names {
			path := "$." + name
			if i < len(paths) {
				path = paths[i]
			}
			if _, err := jp.ParseString(path); err != nil {
				w.diags.Warnf("Capture %s has an unparseable JSONPath %q", name, path)
			}
			captures = append(captures, scenario.Capture{
				Variable: name,
				Path:     path,
				Match:    match,
			})
		}
	}
	return captures
}

func splitTrimmed(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// extractAssertions folds every enabled assertion child into one bundle.
// A bundle that ends up with no active field is returned as nil.
func extractAssertions(children []*Node) *scenario.Assertions {
	config := &scenario.Assertions{
		Body:    map[string]any{},
		Headers: map[string]string{},
	}

	for _, child := range children {
		if !IsEnabled(child) {
			continue
		}

		switch child.Tag {
		case "ResponseAssertion":
			testField := StringProp(child, "Assertion.test_field", "")
			testStrings := assertionTestStrings(child)

			switch testField {
			case "Assertion.response_code":
				// Only the first listed code counts; a malformed value is
				// skipped, not fatal.
				for _, s := range testStrings {
					if s == "" {
						continue
					}
					if status, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
						config.Status = &status
					}
					break
				}
			case "Assertion.response_data":
				for _, s := range testStrings {
					if s != "" {
						config.BodyContains = append(config.BodyContains, s)
					}
				}
			}

		case "JSONPathAssertion":
			path := StringProp(child, "JSON_PATH", "")
			expected := StringProp(child, "EXPECTED_VALUE", "")
			if path == "" || expected == "" {
				continue
			}
			// TrimLeft strips any leading run of '$' and '.' characters,
			// not just a literal "$." prefix.
			field := strings.TrimLeft(path, "$.")
			if !strings.Contains(field, ".") && !strings.Contains(field, "[") {
				config.Body[field] = expected
			}
		}
	}

	if !config.Active() {
		return nil
	}
	return config
}

// assertionTestStrings reads the comparison strings, tolerating the
// historical "Asserion" typo JMeter ships with.
func assertionTestStrings(assertion *Node) []string {
	collection := assertion.ChildProp("collectionProp", "Asserion.test_strings")
	if collection == nil {
		collection = assertion.ChildProp("collectionProp", "Assertion.test_strings")
	}
	if collection == nil {
		return nil
	}
	var out []string
	for _, prop := range collection.Children {
		if prop.Tag == "stringProp" {
			out = append(out, prop.Text)
		}
	}
	return out
}

// extractTimers returns the think time from the first qualifying enabled
// timer child: a constant timer's delay, or a uniform random timer's
// average (constant + range/2). Zero means no timer applies.
func extractTimers(children []*Node) int {
	for _, child := range children {
		if !IsEnabled(child) {
			continue
		}

		switch child.Tag {
		case "ConstantTimer":
			if delay := IntProp(child, "ConstantTimer.delay", 0); delay > 0 {
				return delay
			}
		case "UniformRandomTimer":
			constant := IntProp(child, "ConstantTimer.delay", 0)
			rangeVal := IntProp(child, "RandomTimer.range", 0)
			if avg := constant + rangeVal/2; avg > 0 {
				return avg
			}
		}
	}
	return 0
}
