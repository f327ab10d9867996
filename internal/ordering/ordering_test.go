package ordering

import (
	"errors"
	"reflect"
	"testing"

	"github.com/codewithboateng/wglint/internal/ir"
)

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestTopologicalSort_Chain(t *testing.T) {
	nodes := []string{"deploy", "test", "build"}
	graph := map[string][]string{
		"build":  nil,
		"test":   {"build"},
		"deploy": {"test"},
	}
	order, err := TopologicalSort(nodes, graph)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("want 3 nodes, got %v", order)
	}
	if indexOf(order, "build") > indexOf(order, "test") {
		t.Errorf("build should precede test: %v", order)
	}
	if indexOf(order, "test") > indexOf(order, "deploy") {
		t.Errorf("test should precede deploy: %v", order)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	graph := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	if _, err := TopologicalSort([]string{"a", "b"}, graph); !errors.Is(err, ErrCycle) {
		t.Fatalf("want ErrCycle, got %v", err)
	}
}

func TestTopologicalSort_UnknownEdgesIgnored(t *testing.T) {
	graph := map[string][]string{
		"a": {"ghost"},
		"b": {"a"},
	}
	order, err := TopologicalSort([]string{"a", "b"}, graph)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("want 2 nodes, got %v", order)
	}
}

func TestTopologicalSort_IndependentNodesKeepGivenOrder(t *testing.T) {
	nodes := []string{"h", "c", "a", "f", "b", "e", "g", "d"}
	graph := map[string][]string{}
	for _, n := range nodes {
		graph[n] = nil
	}
	for i := 0; i < 20; i++ {
		order, err := TopologicalSort(nodes, graph)
		if err != nil {
			t.Fatalf("sort: %v", err)
		}
		if !reflect.DeepEqual(order, nodes) {
			t.Fatalf("run %d: want %v, got %v", i, nodes, order)
		}
	}
}

func TestDetectCycle_Simple(t *testing.T) {
	found, cycle := DetectCycle([]string{"a", "b"}, map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	if !found {
		t.Fatal("cycle not detected")
	}
	if len(cycle) != 2 {
		t.Fatalf("want cycle of 2, got %v", cycle)
	}
}

func TestDetectCycle_SelfReference(t *testing.T) {
	found, cycle := DetectCycle([]string{"a"}, map[string][]string{"a": {"a"}})
	if !found || len(cycle) != 1 || cycle[0] != "a" {
		t.Fatalf("want [a], got found=%v cycle=%v", found, cycle)
	}
}

func TestDetectCycle_Diamond(t *testing.T) {
	found, _ := DetectCycle([]string{"a", "b", "c", "d"}, map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	})
	if found {
		t.Fatal("diamond is acyclic")
	}
}

func TestDetectCycle_StableStartNode(t *testing.T) {
	nodes := []string{"x", "y", "z"}
	graph := map[string][]string{
		"x": {"y"},
		"y": {"z"},
		"z": {"x"},
	}
	_, first := DetectCycle(nodes, graph)
	for i := 0; i < 20; i++ {
		found, cycle := DetectCycle(nodes, graph)
		if !found {
			t.Fatal("cycle not detected")
		}
		if !reflect.DeepEqual(cycle, first) {
			t.Fatalf("run %d: cycle changed from %v to %v", i, first, cycle)
		}
	}
}

func TestOrderJobsForYAML_DependencyOrder(t *testing.T) {
	jobs := []ir.JobDecl{
		{Name: "deploy", Dependencies: []string{"test"}},
		{Name: "build"},
		{Name: "test", Dependencies: []string{"build"}},
	}
	out := OrderJobsForYAML(jobs)
	if len(out) != 3 {
		t.Fatalf("want 3 jobs, got %d", len(out))
	}
	names := []string{out[0].Name, out[1].Name, out[2].Name}
	if indexOf(names, "build") > indexOf(names, "test") ||
		indexOf(names, "test") > indexOf(names, "deploy") {
		t.Errorf("bad order: %v", names)
	}
}

func TestOrderJobsForYAML_StableAcrossCalls(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	jobs := make([]ir.JobDecl, 0, len(names))
	for _, n := range names {
		jobs = append(jobs, ir.JobDecl{Name: n})
	}
	for i := 0; i < 20; i++ {
		out := OrderJobsForYAML(jobs)
		got := make([]string, 0, len(out))
		for _, j := range out {
			got = append(got, j.Name)
		}
		if !reflect.DeepEqual(got, names) {
			t.Fatalf("run %d: want %v, got %v", i, names, got)
		}
	}
}

func TestOrderJobsForYAML_CycleFallsBack(t *testing.T) {
	jobs := []ir.JobDecl{
		{Name: "a", Dependencies: []string{"b"}},
		{Name: "b", Dependencies: []string{"a"}},
	}
	out := OrderJobsForYAML(jobs)
	if len(out) != 2 || out[0].Name != "a" || out[1].Name != "b" {
		t.Fatalf("want original order on cycle, got %v", out)
	}
}

func TestExtractStages_FirstSeenDedup(t *testing.T) {
	ordered := []ir.JobDecl{
		{Name: "j1"}, {Name: "j2"}, {Name: "j3"}, {Name: "j4"},
	}
	stageOf := map[string]string{
		"j1": "build", "j2": "test", "j3": "build", "j4": "",
	}
	stages := ExtractStages(ordered, stageOf)
	if len(stages) != 2 || stages[0] != "build" || stages[1] != "test" {
		t.Fatalf("want [build test], got %v", stages)
	}
}
