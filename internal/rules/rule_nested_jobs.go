package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL020",
		Message: "Avoid nested Job constructors; bind the job to a name and reference it",
		Check:   checkNestedJobs,
	})
}

// A Job call inside the arguments of another Job call is reported at
// the inner call. References by binding or by literal name stay clean.
func checkNestedJobs(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		for p := call.Parent(); p != nil; p = p.Parent() {
			if p.Type() == "call" && f.IsCall(p, "Job") {
				out = append(out, issueAt("WGL020",
					"Avoid nested Job constructors; bind the job to a name and reference it",
					f, call))
				return
			}
		}
	})
	return out
}
