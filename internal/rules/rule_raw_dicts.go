package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

// Three sibling checks against raw dict literals where a dataclass
// exists: rules list elements, cache, artifacts.

func init() {
	Register(Rule{
		Code:    "WGL002",
		Message: "Use Rule dataclass instead of raw dict for rules",
		Check:   checkRawRuleDict,
	})
	Register(Rule{
		Code:    "WGL004",
		Message: "Use Cache dataclass instead of raw dict for cache",
		Check:   jobKeywordDictCheck("WGL004", "cache", "Use Cache dataclass instead of raw dict for cache"),
	})
	Register(Rule{
		Code:    "WGL005",
		Message: "Use Artifacts dataclass instead of raw dict for artifacts",
		Check:   jobKeywordDictCheck("WGL005", "artifacts", "Use Artifacts dataclass instead of raw dict for artifacts"),
	})
}

func checkRawRuleDict(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		v := f.Keyword(call, "rules")
		if v == nil || v.Type() != "list" {
			return
		}
		for i := 0; i < int(v.NamedChildCount()); i++ {
			elt := v.NamedChild(i)
			if elt.Type() == "dictionary" {
				out = append(out, issueAt("WGL002",
					"Use Rule dataclass instead of raw dict for rules", f, elt))
			}
		}
	})
	return out
}

func jobKeywordDictCheck(code, keyword, message string) func(*parser.File, Settings) []ir.LintIssue {
	return func(f *parser.File, _ Settings) []ir.LintIssue {
		var out []ir.LintIssue
		f.EachCall("Job", func(call *sitter.Node) {
			if v := f.Keyword(call, keyword); v != nil && v.Type() == "dictionary" {
				out = append(out, issueAt(code, message, f, v))
			}
		})
		return out
	}
}
