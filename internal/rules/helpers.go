package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func issueAt(code, message string, f *parser.File, n *sitter.Node) ir.LintIssue {
	return ir.LintIssue{
		Code:     code,
		Message:  message,
		FilePath: f.Path,
		Line:     parser.Line(n),
		Column:   parser.Column(n),
		Severity: ir.SeverityError,
	}
}

// quoteOriginal rebuilds a keyword snippet around a literal value,
// picking the quote style that survives the value's own quotes.
func quoteOriginal(prefix, value, suffix string) string {
	hasDouble := false
	hasSingle := false
	for _, r := range value {
		switch r {
		case '"':
			hasDouble = true
		case '\'':
			hasSingle = true
		}
	}
	if hasDouble && !hasSingle {
		return prefix + "'" + value + "'" + suffix
	}
	return prefix + `"` + value + `"` + suffix
}
