package discover

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJobs = `from wetwire_gitlab.pipeline import Job, Pipeline

build = Job(
    name="build",
    stage="build",
    script=["make build"],
    variables={"NODE_ENV": "production"},
)
test = Job(name="test", stage="test", script=["make test"], needs=["build"])
deploy = Job(
    name="deploy",
    stage="deploy",
    script=["make deploy"],
    needs=["test"],
    when="manual",
)
ci = Pipeline(name="ci")
`

func TestScanSource_Declarations(t *testing.T) {
	res := ScanSource([]byte(sampleJobs), "sample.py")
	if len(res.Jobs) != 3 {
		t.Fatalf("want 3 jobs, got %d", len(res.Jobs))
	}
	if len(res.Pipelines) != 1 {
		t.Fatalf("want 1 pipeline, got %d", len(res.Pipelines))
	}

	build := res.Jobs[0]
	if build.Name != "build" || build.VarName != "build" {
		t.Errorf("bad first job: %+v", build)
	}
	if build.Stage != "build" {
		t.Errorf("stage = %q", build.Stage)
	}
	if build.Variables["NODE_ENV"] != "production" {
		t.Errorf("variables = %v", build.Variables)
	}

	test := res.Jobs[1]
	if len(test.Dependencies) != 1 || test.Dependencies[0] != "build" {
		t.Errorf("deps = %v", test.Dependencies)
	}

	deploy := res.Jobs[2]
	if deploy.When != "manual" {
		t.Errorf("when = %q", deploy.When)
	}

	p := res.Pipelines[0]
	if p.Name != "ci" || len(p.Jobs) != 0 {
		t.Errorf("pipeline = %+v", p)
	}
}

func TestScanSource_DottedConstructorAndWhenConstant(t *testing.T) {
	src := `import wetwire_gitlab.pipeline as wg
from wetwire_gitlab.intrinsics import When

release = wg.Job(name="release", stage="deploy", script=["ship"], when=When.MANUAL)
`
	res := ScanSource([]byte(src), "dotted.py")
	if len(res.Jobs) != 1 {
		t.Fatalf("want 1 job, got %d", len(res.Jobs))
	}
	if res.Jobs[0].When != "manual" {
		t.Errorf("when = %q, want normalized manual", res.Jobs[0].When)
	}
}

func TestScanSource_NonLiteralNeedsDropped(t *testing.T) {
	src := `from wetwire_gitlab.pipeline import Job

build = Job(name="build", stage="build", script=["make"])
test = Job(name="test", stage="test", script=["t"], needs=["build", build, other()])
`
	res := ScanSource([]byte(src), "mixed.py")
	if len(res.Jobs) != 2 {
		t.Fatalf("want 2 jobs, got %d", len(res.Jobs))
	}
	deps := res.Jobs[1].Dependencies
	if len(deps) != 1 || deps[0] != "build" {
		t.Errorf("non-literal needs should be dropped, got %v", deps)
	}
}

func TestScanSource_ParseFailureIsEmpty(t *testing.T) {
	res := ScanSource([]byte("def broken(:\n"), "broken.py")
	if len(res.Jobs) != 0 || len(res.Pipelines) != 0 {
		t.Fatalf("want empty result on parse failure, got %+v", res)
	}
}

func TestScanDirectory_SkipsCacheAndHidden(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	job := `from wetwire_gitlab.pipeline import Job

j = Job(name="a", stage="build", script=["x"])
`
	write("keep.py", job)
	write("nested/also.py", job)
	write("__pycache__/skip.py", job)
	write(".hidden/skip.py", job)
	write("notes.txt", job)

	res := ScanDirectory(dir)
	if len(res.Jobs) != 2 {
		t.Fatalf("want 2 jobs, got %d", len(res.Jobs))
	}
}

func TestValidateReferences_Dangling(t *testing.T) {
	res := ScanSource([]byte(`from wetwire_gitlab.pipeline import Job

a = Job(name="a", stage="build", script=["x"], needs=["missing"])
`), "refs.py")
	errs := ValidateReferences(res.Jobs)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %v", errs)
	}
	want := "Job 'a' references non-existent job 'missing'"
	if errs[0] != want {
		t.Errorf("got %q, want %q", errs[0], want)
	}
}

func TestBuildGraph(t *testing.T) {
	res := ScanSource([]byte(sampleJobs), "sample.py")
	graph := BuildGraph(res.Jobs)
	if len(graph) != 3 {
		t.Fatalf("want 3 nodes, got %d", len(graph))
	}
	if deps := graph["deploy"]; len(deps) != 1 || deps[0] != "test" {
		t.Errorf("deploy deps = %v", deps)
	}
}
