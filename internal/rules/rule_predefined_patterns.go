package rules

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL009",
		Message: "Use predefined Rules constants instead of Rule with common patterns",
		Check:   checkPredefinedPatterns,
	})
}

// Fixed condition -> canonical replacement table. Matching stops at the
// first hit per occurrence.
var predefinedPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`^\$CI_COMMIT_BRANCH\s*==\s*\$CI_DEFAULT_BRANCH$`), "Rules.ON_DEFAULT_BRANCH"},
	{regexp.MustCompile(`^\$CI_COMMIT_TAG$`), "Rules.ON_TAG"},
	{regexp.MustCompile(`^\$CI_PIPELINE_SOURCE\s*==\s*["']merge_request_event["']$`), "Rules.ON_MERGE_REQUEST"},
}

func checkPredefinedPatterns(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Rule", func(call *sitter.Node) {
		value, ok := f.StringValue(f.Keyword(call, "if_"))
		if !ok {
			return
		}
		for _, p := range predefinedPatterns {
			if !p.re.MatchString(value) {
				continue
			}
			issue := issueAt("WGL009",
				"Use predefined Rules constants instead of Rule with common patterns: use "+p.replacement, f, call)
			issue.Original = quoteOriginal("Rule(if_=", value, ")")
			issue.Suggestion = p.replacement
			issue.FixImports = []string{"from wetwire_gitlab.intrinsics import Rules"}
			out = append(out, issue)
			break
		}
	})
	return out
}
