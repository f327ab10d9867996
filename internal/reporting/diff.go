package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/wglint/internal/ir"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	New     []diffIssue   `json:"new"`
	Removed []diffIssue   `json:"removed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffIssue struct {
	Code     string `json:"code"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

type diffChanged struct {
	Key     string    `json:"key"`
	Base    diffIssue `json:"base"`
	Head    diffIssue `json:"head"`
	Changed []string  `json:"fields_changed"`
}

func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	// index issues
	bm := map[string]ir.LintIssue{}
	hm := map[string]ir.LintIssue{}
	for _, issue := range base.Issues {
		bm[keyOf(issue)] = issue
	}
	for _, issue := range head.Issues {
		hm[keyOf(issue)] = issue
	}

	var added []diffIssue
	var removed []diffIssue
	var changed []diffChanged

	// additions & changes
	for k, hi := range hm {
		if bi, ok := bm[k]; !ok {
			added = append(added, asDiff(hi))
		} else {
			var fields []string
			if norm(bi.Severity) != norm(hi.Severity) {
				fields = append(fields, "severity")
			}
			if bi.Line != hi.Line {
				fields = append(fields, "line")
			}
			if len(fields) > 0 {
				changed = append(changed, diffChanged{
					Key:     k,
					Base:    asDiff(bi),
					Head:    asDiff(hi),
					Changed: fields,
				})
			}
		}
	}
	// removals
	for k, bi := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bi))
		}
	}

	// stable sort
	sort.Slice(added, func(i, j int) bool { return lessDiff(added[i], added[j]) })
	sort.Slice(removed, func(i, j int) bool { return lessDiff(removed[i], removed[j]) })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// keyOf identifies an issue across runs. Line is left out of the key so
// a finding that merely moved shows up as changed, not as new+removed.
func keyOf(issue ir.LintIssue) string {
	sb := strings.Builder{}
	sb.WriteString(norm(issue.Code))
	sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(issue.FilePath))
	sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(issue.Message))
	return sb.String()
}

func asDiff(issue ir.LintIssue) diffIssue {
	return diffIssue{
		Code:     issue.Code,
		FilePath: issue.FilePath,
		Line:     issue.Line,
		Severity: issue.Severity,
		Message:  issue.Message,
	}
}

func lessDiff(a, b diffIssue) bool {
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	return a.Line < b.Line
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
