package rules

import (
	"sort"
	"strings"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // UPPER(code) -> index
)

// Register adds a rule at init time. The registry is read-only after
// start-up; no cross-file state lives in rule instances.
func Register(r Rule) {
	registry = append(registry, r)
	ruleIndex[strings.ToUpper(strings.TrimSpace(r.Code))] = len(registry) - 1
}

// List returns all registered rules ordered by code.
func List() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Select narrows the registry by an inclusion list (nil means all) and
// an exclusion list subtracted afterwards. Unknown codes are ignored,
// never an error.
func Select(include, exclude []string) []Rule {
	var out []Rule
	if include == nil {
		out = List()
	} else {
		seen := map[string]struct{}{}
		for _, code := range include {
			code = strings.ToUpper(strings.TrimSpace(code))
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			if idx, ok := ruleIndex[code]; ok {
				out = append(out, registry[idx])
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	}
	if len(exclude) > 0 {
		drop := map[string]struct{}{}
		for _, code := range exclude {
			drop[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
		}
		kept := out[:0]
		for _, r := range out {
			if _, ok := drop[strings.ToUpper(r.Code)]; !ok {
				kept = append(kept, r)
			}
		}
		out = kept
	}
	return out
}

// Get returns a rule by code if registered.
func Get(code string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}

// Evaluate runs the selected rules over one parsed file. Issue order is
// rule-code order, then each rule's own occurrence order. Missing
// severities default to error. Settings is normalized once here so a
// zero value always means the documented defaults.
func Evaluate(f *parser.File, include, exclude []string, s Settings) []ir.LintIssue {
	s = s.withDefaults()
	var all []ir.LintIssue
	for _, rule := range Select(include, exclude) {
		issues := rule.Check(f, s)
		for k := range issues {
			if issues[k].Severity == "" {
				issues[k].Severity = ir.SeverityError
			}
			if issues[k].FilePath == "" {
				issues[k].FilePath = f.Path
			}
		}
		all = append(all, issues...)
	}
	return all
}
