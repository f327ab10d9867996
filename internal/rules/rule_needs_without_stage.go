package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL018",
		Message: "Jobs with needs should specify stage for clarity",
		Check:   checkNeedsWithoutStage,
	})
}

func checkNeedsWithoutStage(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if f.HasKeyword(call, "needs") && !f.HasKeyword(call, "stage") {
			out = append(out, issueAt("WGL018", "Jobs with needs should specify stage for clarity", f, call))
		}
	})
	return out
}
