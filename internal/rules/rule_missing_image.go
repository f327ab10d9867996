package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL023",
		Message: "Script jobs should specify an image for reproducible builds",
		Check:   checkMissingImage,
	})
}

// Advisory only. Trigger jobs run no commands, so they are exempt.
func checkMissingImage(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if f.HasKeyword(call, "script") && !f.HasKeyword(call, "image") {
			issue := issueAt("WGL023",
				"Script jobs should specify an image for reproducible builds", f, call)
			issue.Severity = ir.SeverityInfo
			out = append(out, issue)
		}
	})
	return out
}
