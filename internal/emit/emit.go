// Package emit renders discovered declarations as GitLab CI YAML.
// Key order is deliberate: stages first, then jobs in dependency order,
// so yaml.Node mappings are built by hand instead of marshaling maps.
package emit

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/ordering"
)

// Pipeline renders jobs into a .gitlab-ci.yml document. Jobs appear in
// dependency order; on a cycle the discovery order survives unchanged.
func Pipeline(jobs []ir.JobDecl) (string, error) {
	ordered := ordering.OrderJobsForYAML(jobs)

	stageOf := make(map[string]string, len(ordered))
	for _, j := range ordered {
		stageOf[j.Name] = j.Stage
	}
	stages := ordering.ExtractStages(ordered, stageOf)

	root := &yaml.Node{Kind: yaml.MappingNode}
	if len(stages) > 0 {
		root.Content = append(root.Content, scalar("stages"), stringSeq(stages))
	}
	for _, j := range ordered {
		name := j.Name
		if name == "" {
			name = j.VarName
		}
		root.Content = append(root.Content, scalar(name), jobNode(j))
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WritePipeline renders and writes the document, summarizing the run.
func WritePipeline(jobs []ir.JobDecl, path string) ir.BuildResult {
	text, err := Pipeline(jobs)
	if err != nil {
		return ir.BuildResult{Errors: []string{err.Error()}}
	}
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return ir.BuildResult{Errors: []string{err.Error()}}
		}
	}
	return ir.BuildResult{
		Success:    true,
		OutputPath: path,
		JobsCount:  len(jobs),
	}
}

func jobNode(j ir.JobDecl) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	if j.Stage != "" {
		n.Content = append(n.Content, scalar("stage"), scalar(j.Stage))
	}
	if len(j.Dependencies) > 0 {
		n.Content = append(n.Content, scalar("needs"), stringSeq(j.Dependencies))
	}
	if j.When != "" {
		n.Content = append(n.Content, scalar("when"), scalar(j.When))
	}
	if len(j.Variables) > 0 {
		vars := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range sortedKeys(j.Variables) {
			vars.Content = append(vars.Content, scalar(k), scalar(j.Variables[k]))
		}
		n.Content = append(n.Content, scalar("variables"), vars)
	}
	return n
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func stringSeq(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range items {
		n.Content = append(n.Content, scalar(s))
	}
	return n
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
