package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL015",
		Message: "Job should have explicit name",
		Check:   checkMissingName,
	})
}

func checkMissingName(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if !f.HasKeyword(call, "name") {
			out = append(out, issueAt("WGL015", "Job should have explicit name", f, call))
		}
	})
	return out
}
