package rules

import (
	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	// Registered so selection by code recognizes it; a Stage constant
	// set does not exist yet, so the check reports nothing.
	Register(Rule{
		Code:    "WGL006",
		Message: "Consider using typed stage constants",
		Check:   func(f *parser.File, _ Settings) []ir.LintIssue { return nil },
	})
}
