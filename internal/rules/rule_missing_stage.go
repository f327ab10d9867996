package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL011",
		Message: "Job should have an explicit stage",
		Check:   checkMissingStage,
	})
}

func checkMissingStage(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if !f.HasKeyword(call, "stage") {
			out = append(out, issueAt("WGL011", "Job should have an explicit stage", f, call))
		}
	})
	return out
}
