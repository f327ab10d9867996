// Package linter ties the parser, rule registry, and fixer into the
// file- and directory-level operations the CLI exposes.
package linter

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/codewithboateng/wglint/internal/fixer"
	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
	"github.com/codewithboateng/wglint/internal/rules"
)

// Options selects and parameterizes the rules for one run.
type Options struct {
	// Rules is the inclusion list of codes; nil means every rule.
	Rules []string
	// ExcludeRules is subtracted after inclusion.
	ExcludeRules []string
	// MaxJobs is the per-file job threshold for this run only. Zero
	// means the default.
	MaxJobs int
}

func (o Options) settings() rules.Settings {
	return rules.Settings{MaxJobs: o.MaxJobs}
}

// LintSource lints source text. Unparseable input yields no issues.
func LintSource(src []byte, name string, opts Options) []ir.LintIssue {
	f, err := parser.ParseSource(src, name)
	if err != nil {
		return nil
	}
	defer f.Close()
	return rules.Evaluate(f, opts.Rules, opts.ExcludeRules, opts.settings())
}

// LintFile lints one file. Non-Python paths and unparseable files count
// as zero files checked and report success.
func LintFile(path string, opts Options) ir.LintResult {
	f, err := parser.ParseFile(path)
	if err != nil {
		return ir.LintResult{Success: true}
	}
	defer f.Close()
	issues := rules.Evaluate(f, opts.Rules, opts.ExcludeRules, opts.settings())
	return ir.LintResult{
		Success:      len(issues) == 0,
		Issues:       issues,
		FilesChecked: 1,
	}
}

// LintDirectory lints every Python file under dir recursively, skipping
// build-cache and dot-prefixed directories.
func LintDirectory(dir string, opts Options) ir.LintResult {
	res := ir.LintResult{Success: true}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".py") {
			return nil
		}
		r := LintFile(p, opts)
		res.Issues = append(res.Issues, r.Issues...)
		res.FilesChecked += r.FilesChecked
		return nil
	})
	res.Success = len(res.Issues) == 0
	return res
}

func skipDir(name string) bool {
	return name == "__pycache__" || strings.HasPrefix(name, ".")
}

// FixSource lints source text and applies every fixable issue.
func FixSource(src string, name string, opts Options) string {
	issues := LintSource([]byte(src), name, opts)
	return fixer.Fix(src, issues)
}

// FixFile fixes one file, rewriting it only when write is set and the
// content changed. The fixed text is returned either way.
func FixFile(path string, opts Options, write bool) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	issues := LintSource(src, path, opts)
	fixed := fixer.Fix(string(src), issues)
	if write && fixed != string(src) {
		if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
			return "", err
		}
	}
	return fixed, nil
}
