package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL010",
		Message: "Use typed When constants instead of string literals",
		Check:   checkWhenConstants,
	})
}

var whenValues = map[string]bool{
	"manual": true, "always": true, "never": true,
	"on_success": true, "on_failure": true, "delayed": true,
}

func checkWhenConstants(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	check := func(call *sitter.Node) {
		v := f.Keyword(call, "when")
		value, ok := f.StringValue(v)
		if !ok || !whenValues[value] {
			return
		}
		constant := "When." + strings.ToUpper(value)
		issue := issueAt("WGL010",
			"Use typed When constants instead of string literals: use "+constant+" instead of '"+value+"'", f, v)
		issue.Original = `when="` + value + `"`
		issue.Suggestion = "when=" + constant
		issue.FixImports = []string{"from wetwire_gitlab.intrinsics import When"}
		out = append(out, issue)
	}
	f.EachCall("Job", check)
	f.EachCall("Rule", check)
	return out
}
