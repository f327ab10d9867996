package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/ordering"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL024",
		Message: "Circular dependency detected in job needs",
		Check:   checkCircularDeps,
	})
}

// The rule derives its own graph rather than consuming scanner output.
// Dependencies are literal need strings plus same-file top-level
// binding references resolved to their declared names. Each simple
// cycle is reported once, rotated to start at its lexicographically
// smallest member; after reporting, the closing edge is removed and
// the search restarts until the graph is acyclic.
func checkCircularDeps(f *parser.File, _ Settings) []ir.LintIssue {
	decls := topLevelJobs(f)
	if len(decls) == 0 {
		return nil
	}

	byVar := map[string]string{}
	declAt := map[string]*sitter.Node{}
	var names []string
	for _, d := range decls {
		byVar[d.varName] = d.name
		if _, ok := declAt[d.name]; !ok {
			declAt[d.name] = d.call
			names = append(names, d.name)
		}
	}

	graph := map[string][]string{}
	for _, d := range decls {
		deps := graph[d.name]
		needs := f.Keyword(d.call, "needs")
		if needs != nil && needs.Type() == "list" {
			for i := 0; i < int(needs.NamedChildCount()); i++ {
				elt := needs.NamedChild(i)
				if s, ok := f.StringValue(elt); ok {
					deps = append(deps, s)
				} else if elt.Type() == "identifier" {
					if name, ok := byVar[f.Text(elt)]; ok {
						deps = append(deps, name)
					}
				}
			}
		}
		graph[d.name] = deps
	}

	var out []ir.LintIssue
	seen := map[string]bool{}
	for {
		found, cycle := ordering.DetectCycle(names, graph)
		if !found {
			break
		}
		norm := rotateToSmallest(cycle)
		if !seen[strings.Join(norm, "\x00")] {
			seen[strings.Join(norm, "\x00")] = true
			msg := "Circular dependency detected: " +
				strings.Join(norm, " -> ") + " -> " + norm[0]
			if node := declAt[norm[0]]; node != nil {
				out = append(out, issueAt("WGL024", msg, f, node))
			}
		}
		last := cycle[len(cycle)-1]
		graph[last] = removeFirst(graph[last], cycle[0])
	}
	return out
}

type jobDeclNode struct {
	varName string
	name    string
	call    *sitter.Node
}

// topLevelJobs yields every module-level `var = Job(...)` binding,
// with the declared name falling back to the binding name.
func topLevelJobs(f *parser.File) []jobDeclNode {
	var out []jobDeclNode
	root := f.Root
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		assign := stmt.NamedChild(0)
		if assign.Type() != "assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		right := assign.ChildByFieldName("right")
		if left == nil || right == nil || left.Type() != "identifier" {
			continue
		}
		if right.Type() != "call" || !f.IsCall(right, "Job") {
			continue
		}
		varName := f.Text(left)
		name, ok := f.StringValue(f.Keyword(right, "name"))
		if !ok || name == "" {
			name = varName
		}
		out = append(out, jobDeclNode{varName: varName, name: name, call: right})
	}
	return out
}

func rotateToSmallest(cycle []string) []string {
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}

func removeFirst(deps []string, name string) []string {
	for i, d := range deps {
		if d == name {
			return append(deps[:i:i], deps[i+1:]...)
		}
	}
	return deps
}
