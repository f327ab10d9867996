package discover

import (
	"fmt"

	"github.com/codewithboateng/wglint/internal/ir"
)

// BuildGraph maps each job name to its declared dependency names.
// Edges to names outside the key set are left in place here; the
// ordering algorithms ignore them and ValidateReferences reports them.
func BuildGraph(jobs []ir.JobDecl) map[string][]string {
	graph := make(map[string][]string, len(jobs))
	for _, j := range jobs {
		graph[j.Name] = j.Dependencies
	}
	return graph
}

// ValidateReferences reports needs entries that name no discovered job.
// This is the dangling-reference check, distinct from cycle detection.
func ValidateReferences(jobs []ir.JobDecl) []string {
	names := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		names[j.Name] = struct{}{}
	}
	var errs []string
	for _, j := range jobs {
		for _, dep := range j.Dependencies {
			if _, ok := names[dep]; !ok {
				errs = append(errs, fmt.Sprintf("Job '%s' references non-existent job '%s'", j.Name, dep))
			}
		}
	}
	return errs
}
