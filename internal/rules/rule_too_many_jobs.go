package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL008",
		Message: "File contains too many jobs",
		Check:   checkTooManyJobs,
	})
}

// Counts every Job constructor call regardless of validity; fires once
// per file, reported at line 1.
func checkTooManyJobs(f *parser.File, s Settings) []ir.LintIssue {
	count := 0
	f.EachCall("Job", func(*sitter.Node) { count++ })

	max := s.MaxJobs
	if count <= max {
		return nil
	}
	return []ir.LintIssue{{
		Code:     "WGL008",
		Message:  fmt.Sprintf("File contains too many jobs: %d jobs (max %d)", count, max),
		FilePath: f.Path,
		Line:     1,
		Severity: ir.SeverityError,
	}}
}
