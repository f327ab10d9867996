package rules

import (
	"strings"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/storage"
)

// ApplyWaivers filters out issues that match any active waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []ir.LintIssue, waivers []storage.Waiver) ([]ir.LintIssue, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.LintIssue
	waived := 0
nextIssue:
	for _, issue := range in {
		for _, w := range waivers {
			if !eqCI(issue.Code, w.Code) { continue }
			if w.FilePath != "" && !eqCI(issue.FilePath, w.FilePath) { continue }
			if w.PatternSub != "" {
				ps := strings.ToUpper(w.PatternSub)
				if !strings.Contains(strings.ToUpper(issue.Message), ps) {
					continue
				}
			}
			waived++
			continue nextIssue
		}
		out = append(out, issue)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
