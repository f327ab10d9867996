package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL017",
		Message: "Empty rules list means job never runs",
		Check:   checkEmptyRules,
	})
}

func checkEmptyRules(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		v := f.Keyword(call, "rules")
		if v != nil && v.Type() == "list" && v.NamedChildCount() == 0 {
			out = append(out, issueAt("WGL017", "Empty rules list means job never runs", f, v))
		}
	})
	return out
}
