package ordering

import (
	"errors"

	"github.com/codewithboateng/wglint/internal/ir"
)

// ErrCycle is returned by TopologicalSort when the graph cannot be
// linearized. Callers use it to trigger the original-order fallback;
// it reaches users only through the circular-dependency lint rule.
var ErrCycle = errors.New("graph contains a cycle")

// TopologicalSort orders nodes so every dependency precedes its
// dependents (Kahn's algorithm). nodes lists each node exactly once and
// fixes the tie-break: independent nodes come out in the given order,
// so the result is stable across calls. Edges to names outside the node
// set are ignored. Fails with ErrCycle iff fewer nodes come out than
// went in.
func TopologicalSort(nodes []string, graph map[string][]string) ([]string, error) {
	inDegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, node := range nodes {
		inDegree[node] = 0
	}
	for _, node := range nodes {
		for _, dep := range graph[node] {
			if _, ok := inDegree[dep]; ok {
				inDegree[node]++
				dependents[dep] = append(dependents[dep], node)
			}
		}
	}

	var queue []string
	for _, node := range nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		for _, dep := range dependents[node] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(result) != len(inDegree) {
		return nil, ErrCycle
	}
	return result, nil
}

const (
	unvisited = iota
	visiting
	visited
)

// DetectCycle runs a colored depth-first search over nodes in the given
// order, so the reported cycle is the same on every call. On revisiting
// an in-progress node it reconstructs the cycle from the current path,
// starting at the repeated node. Edges to unknown names are ignored.
func DetectCycle(nodes []string, graph map[string][]string) (bool, []string) {
	known := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		known[node] = struct{}{}
	}
	color := make(map[string]int, len(nodes))
	var cycle []string

	var path []string
	var dfs func(node string) bool
	dfs = func(node string) bool {
		if color[node] == visiting {
			for i, p := range path {
				if p == node {
					cycle = append(cycle, path[i:]...)
					break
				}
			}
			return true
		}
		if color[node] == visited {
			return false
		}
		color[node] = visiting
		path = append(path, node)
		for _, dep := range graph[node] {
			if _, ok := known[dep]; ok && dfs(dep) {
				return true
			}
		}
		path = path[:len(path)-1]
		color[node] = visited
		return false
	}

	for _, node := range nodes {
		if color[node] == unvisited {
			path = path[:0]
			if dfs(node) {
				return true, cycle
			}
		}
	}
	return false, nil
}

// OrderJobsForYAML returns jobs in dependency order for serialization.
// Ordering is presentational: on a cycle the original discovery order
// is kept and the circular-dependency rule remains the correctness gate.
func OrderJobsForYAML(jobs []ir.JobDecl) []ir.JobDecl {
	if len(jobs) == 0 {
		return nil
	}
	graph := make(map[string][]string, len(jobs))
	byName := make(map[string]ir.JobDecl, len(jobs))
	order := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := byName[j.Name]; !ok {
			order = append(order, j.Name)
		}
		graph[j.Name] = j.Dependencies
		byName[j.Name] = j
	}

	names, err := TopologicalSort(order, graph)
	if err != nil {
		return jobs
	}
	out := make([]ir.JobDecl, 0, len(jobs))
	for _, name := range names {
		if j, ok := byName[name]; ok {
			out = append(out, j)
		}
	}
	return out
}

// ExtractStages lists each stage at its first appearance in the ordered
// job list, deduplicated.
func ExtractStages(ordered []ir.JobDecl, stageOf map[string]string) []string {
	seen := map[string]struct{}{}
	var stages []string
	for _, j := range ordered {
		stage := stageOf[j.Name]
		if stage == "" {
			continue
		}
		if _, ok := seen[stage]; ok {
			continue
		}
		seen[stage] = struct{}{}
		stages = append(stages, stage)
	}
	return stages
}
