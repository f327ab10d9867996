package rules

import (
	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

// Rule is a single static check executed over one parsed file.
type Rule struct {
	Code    string
	Message string
	// Check inspects the tree and returns issues. Rules are
	// independent, side-effect-free and order-independent. Settings
	// arrives normalized; most rules ignore it.
	Check func(f *parser.File, s Settings) []ir.LintIssue
}
