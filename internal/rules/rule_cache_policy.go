package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL012",
		Message: "Use typed CachePolicy constants instead of string literals",
		Check:   checkCachePolicy,
	})
	Register(Rule{
		Code:    "WGL013",
		Message: "Use typed ArtifactsWhen constants instead of string literals",
		Check:   checkArtifactsWhen,
	})
}

var cachePolicies = map[string]bool{"pull": true, "push": true, "pull-push": true}

func checkCachePolicy(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Cache", func(call *sitter.Node) {
		v := f.Keyword(call, "policy")
		value, ok := f.StringValue(v)
		if !ok || !cachePolicies[value] {
			return
		}
		constant := "CachePolicy." + strings.ReplaceAll(strings.ToUpper(value), "-", "_")
		issue := issueAt("WGL012",
			"Use typed CachePolicy constants instead of string literals: use "+constant+" instead of '"+value+"'", f, v)
		issue.Original = `policy="` + value + `"`
		issue.Suggestion = "policy=" + constant
		issue.FixImports = []string{"from wetwire_gitlab.intrinsics import CachePolicy"}
		out = append(out, issue)
	})
	return out
}

var artifactsWhenValues = map[string]bool{"on_success": true, "on_failure": true, "always": true}

func checkArtifactsWhen(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Artifacts", func(call *sitter.Node) {
		v := f.Keyword(call, "when")
		value, ok := f.StringValue(v)
		if !ok || !artifactsWhenValues[value] {
			return
		}
		constant := "ArtifactsWhen." + strings.ToUpper(value)
		issue := issueAt("WGL013",
			"Use typed ArtifactsWhen constants instead of string literals: use "+constant+" instead of '"+value+"'", f, v)
		issue.Original = `when="` + value + `"`
		issue.Suggestion = "when=" + constant
		issue.FixImports = []string{"from wetwire_gitlab.intrinsics import ArtifactsWhen"}
		out = append(out, issue)
	})
	return out
}
