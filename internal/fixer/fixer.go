// Package fixer applies mechanical repairs suggested by lint issues:
// textual substitutions, line insertions, and import injection.
package fixer

import (
	"os"
	"sort"
	"strings"

	"github.com/codewithboateng/wglint/internal/ir"
)

// Fix returns source with every fixable issue applied. Issues without
// fix metadata are ignored; when none carry any, the input string is
// returned unchanged.
//
// Substitutions replace the first occurrence of the recorded snippet at
// or after the issue's line, exactly once, so an identical literal
// elsewhere in the file is never touched. Insertions run in descending
// line order so earlier ones cannot shift later targets. Imports are
// unioned across all applied issues, deduplicated in first-seen order,
// and injected after the leading documentation block.
func Fix(source string, issues []ir.LintIssue) string {
	var subs, inserts []ir.LintIssue
	for _, issue := range issues {
		switch {
		case issue.Original != "" && issue.Suggestion != "":
			subs = append(subs, issue)
		case issue.InsertAfterLine > 0 && issue.Suggestion != "":
			inserts = append(inserts, issue)
		}
	}
	if len(subs) == 0 && len(inserts) == 0 {
		return source
	}

	fixed := source
	var applied []ir.LintIssue

	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Line != subs[j].Line {
			return subs[i].Line > subs[j].Line
		}
		return subs[i].Column > subs[j].Column
	})
	for _, issue := range subs {
		if next, ok := substitute(fixed, issue); ok {
			fixed = next
			applied = append(applied, issue)
		}
	}

	if len(inserts) > 0 {
		sort.SliceStable(inserts, func(i, j int) bool {
			return inserts[i].InsertAfterLine > inserts[j].InsertAfterLine
		})
		lines := splitKeepEnds(fixed)
		for _, issue := range inserts {
			text := issue.Suggestion
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			at := issue.InsertAfterLine
			if at > len(lines) {
				at = len(lines)
			}
			lines = append(lines[:at:at], append([]string{text}, lines[at:]...)...)
			applied = append(applied, issue)
		}
		fixed = strings.Join(lines, "")
	}

	var imports []string
	seen := map[string]bool{}
	for _, issue := range applied {
		for _, imp := range issue.FixImports {
			if !seen[imp] {
				seen[imp] = true
				imports = append(imports, imp)
			}
		}
	}
	return addImports(fixed, imports)
}

// FixFile reads path, fixes it, and optionally writes the result back.
// The file is only rewritten when the content actually changed.
func FixFile(path string, issues []ir.LintIssue, write bool) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	fixed := Fix(string(src), issues)
	if write && fixed != string(src) {
		if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
			return "", err
		}
	}
	return fixed, nil
}

// substitute replaces the first occurrence of the issue's snippet at or
// after its recorded line. Quote-swapped variants cover sources written
// with the other quote style. A snippet that cannot be found is a no-op
// for that issue alone.
func substitute(source string, issue ir.LintIssue) (string, bool) {
	offset := lineOffset(source, issue.Line)
	for _, pattern := range []string{
		issue.Original,
		strings.ReplaceAll(issue.Original, `"`, "'"),
		strings.ReplaceAll(issue.Original, "'", `"`),
	} {
		if i := strings.Index(source[offset:], pattern); i >= 0 {
			at := offset + i
			return source[:at] + issue.Suggestion + source[at+len(pattern):], true
		}
	}
	return source, false
}

// lineOffset is the byte offset where the 1-based line begins.
func lineOffset(source string, line int) int {
	if line <= 1 {
		return 0
	}
	offset := 0
	for n := 1; n < line; n++ {
		i := strings.IndexByte(source[offset:], '\n')
		if i < 0 {
			return offset
		}
		offset += i + 1
	}
	return offset
}

// addImports injects import statements after the leading documentation
// block, or at the top of the file. Statements already present anywhere
// in the source are skipped.
func addImports(source string, imports []string) string {
	var missing []string
	for _, imp := range imports {
		if !strings.Contains(source, imp) {
			missing = append(missing, imp)
		}
	}
	if len(missing) == 0 {
		return source
	}

	lines := splitKeepEnds(source)
	at := len(lines)
	inDoc := false
	for i, line := range lines {
		s := strings.TrimSpace(line)
		if inDoc {
			if strings.HasSuffix(s, `"""`) || strings.HasSuffix(s, "'''") {
				inDoc = false
			}
			continue
		}
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.HasPrefix(s, `"""`) || strings.HasPrefix(s, "'''") {
			quote := s[:3]
			if len(s) < 6 || !strings.HasSuffix(s, quote) {
				inDoc = true
			}
			continue
		}
		at = i
		break
	}

	block := strings.Join(missing, "\n") + "\n"
	lines = append(lines[:at:at], append([]string{block}, lines[at:]...)...)
	return strings.Join(lines, "")
}

func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			return out
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
		if s == "" {
			return out
		}
	}
}
