package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL007",
		Message: "Duplicate job name detected",
		Check:   checkDuplicateNames,
	})
}

// Every occurrence after the first is reported, keyed by the literal
// name, scoped to a single file.
func checkDuplicateNames(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	firstLine := map[string]int{}
	f.EachCall("Job", func(call *sitter.Node) {
		name, ok := f.StringValue(f.Keyword(call, "name"))
		if !ok {
			return
		}
		if _, seen := firstLine[name]; seen {
			out = append(out, issueAt("WGL007",
				"Duplicate job name detected: '"+name+"'", f, call))
			return
		}
		firstLine[name] = parser.Line(call)
	})
	return out
}
