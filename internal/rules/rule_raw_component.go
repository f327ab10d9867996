package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL001",
		Message: "Use typed component wrappers instead of raw Include(component=...)",
		Check:   checkRawComponent,
	})
}

func checkRawComponent(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Include", func(call *sitter.Node) {
		if f.HasKeyword(call, "component") {
			out = append(out, issueAt("WGL001",
				"Use typed component wrappers instead of raw Include(component=...)", f, call))
		}
	})
	return out
}
