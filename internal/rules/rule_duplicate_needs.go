package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL022",
		Message: "Duplicate entries in needs or dependencies list",
		Check:   checkDuplicateNeeds,
	})
}

// One issue per offending list, at the list's location. Only literal
// string entries participate; a bound reference never collides with a
// string of the same spelling.
func checkDuplicateNeeds(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		for _, kw := range []string{"needs", "dependencies"} {
			value := f.Keyword(call, kw)
			entries, ok := f.StringList(value)
			if !ok {
				continue
			}
			seen := map[string]bool{}
			for _, e := range entries {
				if seen[e] {
					out = append(out, issueAt("WGL022",
						"Duplicate entries in "+kw+" list: '"+e+"'", f, value))
					break
				}
				seen[e] = true
			}
		}
	})
	return out
}
