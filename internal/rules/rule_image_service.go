package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL016",
		Message: "Use Image dataclass instead of string literal",
		Check:   checkImageString,
	})
	Register(Rule{
		Code:    "WGL021",
		Message: "Use Service dataclass instead of string literal",
		Check:   checkServiceStrings,
	})
}

func checkImageString(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		v := f.Keyword(call, "image")
		value, ok := f.StringValue(v)
		if !ok {
			return
		}
		out = append(out, issueAt("WGL016",
			`Use Image dataclass instead of string literal: use Image(name="`+value+`")`, f, v))
	})
	return out
}

func checkServiceStrings(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		v := f.Keyword(call, "services")
		if v == nil || v.Type() != "list" {
			return
		}
		for i := 0; i < int(v.NamedChildCount()); i++ {
			elt := v.NamedChild(i)
			if value, ok := f.StringValue(elt); ok {
				out = append(out, issueAt("WGL021",
					`Use Service dataclass instead of string literal: use Service(name="`+value+`")`, f, elt))
			}
		}
	})
	return out
}
