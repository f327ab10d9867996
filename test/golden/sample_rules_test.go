package golden

import (
	"testing"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/linter"
)

func TestSample_ContainsKeyIssues(t *testing.T) {
	issues := linter.LintSource([]byte(samplePipeline), "release.py", linter.Options{})

	counts := map[string]int{}
	fixable := 0
	for _, i := range issues {
		counts[i.Code]++
		if i.Fixable() {
			fixable++
		}
	}

	required := []string{
		"WGL007", // shadow reuses the deploy name
		"WGL010", // when="manual" string literal
		"WGL011", // deploy has no stage
		"WGL014", // deploy has no script
		"WGL019", // manual without allow_failure
		"WGL023", // build/test scripts without image (test job)
		"WGL025", // API_TOKEN literal value
	}
	for _, code := range required {
		if counts[code] == 0 {
			t.Fatalf("expected at least 1 issue for %s; got 0; counts=%v", code, counts)
		}
	}
	if fixable == 0 {
		t.Fatal("expected at least one fixable issue (when constant substitution)")
	}
}

func TestSample_ExcludeFiltersIssues(t *testing.T) {
	all := linter.LintSource([]byte(samplePipeline), "release.py", linter.Options{})
	filtered := linter.LintSource([]byte(samplePipeline), "release.py", linter.Options{
		ExcludeRules: []string{"WGL010", "WGL019"},
	})
	if len(filtered) >= len(all) {
		t.Fatalf("exclusion did not reduce issues: all=%d filtered=%d", len(all), len(filtered))
	}
	for _, i := range filtered {
		if i.Code == "WGL010" || i.Code == "WGL019" {
			t.Fatalf("excluded code leaked: %+v", i)
		}
	}
}

func TestSample_SeverityMix(t *testing.T) {
	issues := linter.LintSource([]byte(samplePipeline), "release.py", linter.Options{})
	bySeverity := map[string]int{}
	for _, i := range issues {
		bySeverity[i.Severity]++
	}
	if bySeverity[ir.SeverityError] == 0 {
		t.Fatal("expected error-severity issues")
	}
	if bySeverity[ir.SeverityInfo] == 0 {
		t.Fatal("expected info-severity issues (missing image advisory)")
	}
}
