package fuzz

import (
	"testing"

	"github.com/codewithboateng/wglint/internal/discover"
	"github.com/codewithboateng/wglint/internal/linter"
)

// FuzzScanSource throws arbitrary bytes at the declaration scanner.
// Invalid Python must come back as an empty result, never a panic.
func FuzzScanSource(f *testing.F) {
	seeds := []string{
		"",
		"x = 1",
		`a = Job(name="a", stage="build", script=["make"])`,
		`p = Pipeline(name="ci")`,
		"a = Job(name=\"a\",\n    needs=[b],\n)",
		"def broken(:",
		"a = Job(name='a', variables={'K': 'v'})",
		"\x00\xff\xfe",
		`a = wg.Job(name="a", when=When.MANUAL)`,
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		res := discover.ScanSource(data, "fuzz.py")
		for _, j := range res.Jobs {
			if j.Line <= 0 {
				t.Fatalf("job with non-positive line: %+v", j)
			}
		}
	})
}

// FuzzLintSource runs the whole rule set over arbitrary bytes.
func FuzzLintSource(f *testing.F) {
	seeds := []string{
		`a = Job(name="a", when="manual")`,
		`a = Job(name="a", needs=["a"])`,
		`a = Job(name="a", needs=["x", "x"])`,
		`a = Job(name="a", variables={"SECRET_KEY": "0123456789abcdef"})`,
		"a = Job(name=\"a\", rules=[])",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		issues := linter.LintSource(data, "fuzz.py", linter.Options{})
		for _, i := range issues {
			if i.Code == "" || i.Message == "" {
				t.Fatalf("issue missing code or message: %+v", i)
			}
			if i.Severity == "" {
				t.Fatalf("issue missing severity: %+v", i)
			}
		}
	})
}
