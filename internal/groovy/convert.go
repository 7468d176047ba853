// Package groovy rewrites JMeter Groovy/JavaScript expressions into the
// plain comparison syntax the scenario format understands.
package groovy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// conditionRule pairs a matcher with its rewriter. Rules are tried in order;
// the first structural match wins.
type conditionRule struct {
	re      *regexp.Regexp
	rewrite func(m []string) (cond string, cap *int)
}

var conditionRules = []conditionRule{
	// ${__groovy(vars.get('varName') != 'value')}
	{
		re:      regexp.MustCompile(`\$\{__groovy\(vars\.get\(['"](\w+)['"]\)\s*(!=|==)\s*['"]([^'"]+)['"]\)\}`),
		rewrite: quotedComparison,
	},
	// vars.get('varName') != 'value' without the wrapper
	{
		re:      regexp.MustCompile(`vars\.get\(['"](\w+)['"]\)\s*(!=|==)\s*['"]([^'"]+)['"]`),
		rewrite: quotedComparison,
	},
	// ${varName} != 'value'
	{
		re:      regexp.MustCompile(`\$\{(\w+)\}\s*(!=|==)\s*['"]([^'"]+)['"]`),
		rewrite: quotedComparison,
	},
	// ${__javaScript("${count}" < "10")}
	{
		re: regexp.MustCompile(`\$\{__javaScript\(['"]?\$\{(\w+)\}['"]?\s*([<>=!]+)\s*['"]?(\d+)['"]?\)\}`),
		rewrite: func(m []string) (string, *int) {
			cond := fmt.Sprintf("${%s} %s %s", m[1], m[2], m[3])
			n, _ := strconv.Atoi(m[3])
			return cond, &n
		},
	},
	// ${varName} < 10 without quoting
	{
		re: regexp.MustCompile(`\$\{(\w+)\}\s*(!=|==|<|>|<=|>=)\s*(\d+)`),
		rewrite: func(m []string) (string, *int) {
			return fmt.Sprintf("${%s} %s %s", m[1], m[2], m[3]), nil
		},
	},
}

func quotedComparison(m []string) (string, *int) {
	return fmt.Sprintf("${%s} %s '%s'", m[1], m[2], m[3]), nil
}

// ConvertCondition rewrites a scripted while-condition into the scenario
// comparison syntax. Unconvertible input is returned unchanged together with
// a warning. The iteration cap is searched for independently of which rule
// matched; the javascript numeric rule supplies its literal as the cap only
// when the textual search finds none.
func ConvertCondition(expr string) (cond string, maxIterations *int, warnings []string) {
	limit := extractIterationLimit(expr)

	for _, rule := range conditionRules {
		m := rule.re.FindStringSubmatch(expr)
		if m == nil {
			continue
		}
		cond, ruleCap := rule.rewrite(m)
		if limit == nil {
			limit = ruleCap
		}
		return cond, limit, nil
	}

	warnings = append(warnings, fmt.Sprintf("Could not convert Groovy expression: %s", expr))
	return expr, limit, warnings
}

var iterationLimitRe = regexp.MustCompile(`getIteration\(\)\s*<=?\s*(\d+)`)

func extractIterationLimit(expr string) *int {
	m := iterationLimitRe.FindStringSubmatch(expr)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ConvertMatchNumber maps a JSONPostProcessor match_numbers value onto a
// selection policy. Only the first ("1", blank) and all ("-1") policies are
// representable; everything else degrades to "first" with a warning.
func ConvertMatchNumber(matchNumbers string) (string, []string) {
	trimmed := strings.TrimSpace(matchNumbers)
	if trimmed == "" {
		return "first", nil
	}

	num, err := strconv.Atoi(trimmed)
	if err != nil {
		return "first", []string{fmt.Sprintf("Invalid match_numbers value: %s, using 'first'", matchNumbers)}
	}

	switch {
	case num == 1:
		return "first", nil
	case num == -1:
		return "all", nil
	case num == 0:
		return "first", []string{"match_numbers=0 (random) converted to 'first'"}
	default:
		return "first", []string{fmt.Sprintf("match_numbers=%d (N-th) converted to 'first' (not supported)", num)}
	}
}
