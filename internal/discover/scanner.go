package discover

import (
	"io/fs"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

// ScanFile discovers Job and Pipeline declarations in one file.
// A parse failure yields an empty result, never an error.
func ScanFile(path string) ir.ListResult {
	f, err := parser.ParseFile(path)
	if err != nil {
		return ir.ListResult{}
	}
	defer f.Close()
	return ScanParsed(f)
}

// ScanSource discovers declarations in source text.
func ScanSource(src []byte, name string) ir.ListResult {
	f, err := parser.ParseSource(src, name)
	if err != nil {
		return ir.ListResult{}
	}
	defer f.Close()
	return ScanParsed(f)
}

// ScanParsed walks an already-parsed tree. Every assignment whose
// right-hand side is a Job(...) or Pipeline(...) call, matched by bare
// name or by a qualified access ending in that name, becomes a record.
func ScanParsed(f *parser.File) ir.ListResult {
	var res ir.ListResult

	f.Walk(func(n *sitter.Node) {
		if n.Type() != "assignment" {
			return
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil || left.Type() != "identifier" {
			return
		}
		if right.Type() != "call" {
			return
		}
		switch f.CallName(right) {
		case "Job":
			res.Jobs = append(res.Jobs, jobFromCall(f, f.Text(left), n, right))
		case "Pipeline":
			res.Pipelines = append(res.Pipelines, ir.PipelineDecl{
				Name:     f.Text(left),
				FilePath: f.Path,
				Line:     parser.Line(n),
			})
		}
	})
	return res
}

func jobFromCall(f *parser.File, varName string, assign, call *sitter.Node) ir.JobDecl {
	job := ir.JobDecl{
		VarName:  varName,
		FilePath: f.Path,
		Line:     parser.Line(assign),
	}
	if v, ok := f.StringValue(f.Keyword(call, "name")); ok {
		job.Name = v
	}
	if deps, ok := f.StringList(f.Keyword(call, "needs")); ok && len(deps) > 0 {
		job.Dependencies = deps
	}
	if v, ok := f.StringValue(f.Keyword(call, "stage")); ok {
		job.Stage = v
	}
	if vars, ok := f.StringMap(f.Keyword(call, "variables")); ok && len(vars) > 0 {
		job.Variables = vars
	}
	if v, ok := f.WhenValue(f.Keyword(call, "when")); ok {
		job.When = v
	}
	return job
}

// ScanDirectory recurses through a tree, concatenating per-file results.
// Build-cache and dot-prefixed directories are skipped.
func ScanDirectory(dir string) ir.ListResult {
	var res ir.ListResult
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
		r := ScanFile(p)
		res.Jobs = append(res.Jobs, r.Jobs...)
		res.Pipelines = append(res.Pipelines, r.Pipelines...)
		return nil
	})
	return res
}

func skipDir(name string) bool {
	return name == "__pycache__" || strings.HasPrefix(name, ".")
}
