package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL014",
		Message: "Job should have script, trigger, or extends",
		Check:   checkMissingScript,
	})
}

func checkMissingScript(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if f.HasKeyword(call, "script") || f.HasKeyword(call, "trigger") || f.HasKeyword(call, "extends") {
			return
		}
		out = append(out, issueAt("WGL014", "Job should have script, trigger, or extends", f, call))
	})
	return out
}
