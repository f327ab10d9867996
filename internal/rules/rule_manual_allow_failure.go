package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL019",
		Message: "Manual jobs should consider allow_failure to avoid blocking pipelines",
		Check:   checkManualAllowFailure,
	})
}

// A literal "manual" and a dotted MANUAL reference count the same.
// One issue per declaration, located at the when value when present.
func checkManualAllowFailure(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		when := f.Keyword(call, "when")
		if when == nil || f.HasKeyword(call, "allow_failure") {
			return
		}
		manual := false
		if s, ok := f.StringValue(when); ok {
			manual = s == "manual"
		} else {
			manual = f.IsDottedMember(when, "MANUAL")
		}
		if manual {
			out = append(out, issueAt("WGL019",
				"Manual jobs should consider allow_failure to avoid blocking pipelines",
				f, when))
		}
	})
	return out
}
