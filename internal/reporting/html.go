package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/codewithboateng/wglint/internal/ir"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Totals
	var errors, warnings, infos, fixable int
	for _, issue := range run.Issues {
		switch issue.Severity {
		case ir.SeverityError:
			errors++
		case ir.SeverityWarning:
			warnings++
		default:
			infos++
		}
		if issue.Fixable() {
			fixable++
		}
	}

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>wglint report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files checked: %d &nbsp; Jobs: %d &nbsp; Issues: %d</p>", run.FilesChecked, len(run.Jobs), len(run.Issues))
	fmt.Fprintf(f, "<p><b>By severity</b>: errors=%d &nbsp; warnings=%d &nbsp; info=%d &nbsp; <span class='dim'>fixable=%d</span></p>", errors, warnings, infos, fixable)

	// Rule selection banner
	if n := len(run.Context.IncludedRules); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Included rules: %d</p>", n)
	}
	if n := len(run.Context.ExcludedRules); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Excluded rules: %d</p>", n)
	}

	// Hits per rule (by count desc, then code)
	if len(run.Issues) > 0 {
		hits := map[string]int{}
		for _, issue := range run.Issues {
			hits[issue.Code]++
		}
		type rc struct {
			code string
			n    int
		}
		var tops []rc
		for code, n := range hits {
			tops = append(tops, rc{code, n})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].n == tops[j].n {
				return tops[i].code < tops[j].code
			}
			return tops[i].n > tops[j].n
		})
		fmt.Fprint(f, "<h2>Hits per Rule</h2><table><tr><th>Rule</th><th>Count</th></tr>")
		for _, t := range tops {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(t.code), t.n)
		}
		fmt.Fprint(f, "</table>")
	}

	// All issues
	if len(run.Issues) > 0 {
		fmt.Fprint(f, "<h2>All Issues</h2><table><tr><th>Severity</th><th>Rule</th><th>File</th><th>Line</th><th>Message</th><th>Fix</th></tr>")
		for _, issue := range run.Issues {
			fix := ""
			if issue.Fixable() {
				fix = "yes"
			}
			fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td class='mono'>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(issue.Severity),
				html.EscapeString(issue.Code),
				html.EscapeString(issue.FilePath),
				issue.Line,
				html.EscapeString(issue.Message),
				fix,
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Issues</h2><p class='dim'>No issues found.</p>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
