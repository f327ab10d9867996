package rules

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
)

func init() {
	Register(Rule{
		Code:    "WGL003",
		Message: "Use predefined variables from intrinsics module instead of raw strings",
		Check:   checkPredefinedVars,
	})
}

var ciVariablePattern = regexp.MustCompile(`\$CI_[A-Z_]+`)

// Conditions matched by WGL009's predefined-pattern table; WGL003 must
// leave those occurrences to that rule.
var wgl009Claimed = []*regexp.Regexp{
	regexp.MustCompile(`^\$CI_COMMIT_BRANCH\s*==\s*\$CI_DEFAULT_BRANCH$`),
	regexp.MustCompile(`^\$CI_COMMIT_TAG$`),
	regexp.MustCompile(`^\$CI_PIPELINE_SOURCE\s*==\s*["']merge_request_event["']$`),
}

var ciVarMap = map[string]string{
	"$CI_COMMIT_SHA":        "CI.COMMIT_SHA",
	"$CI_COMMIT_SHORT_SHA":  "CI.COMMIT_SHORT_SHA",
	"$CI_COMMIT_REF_NAME":   "CI.COMMIT_REF_NAME",
	"$CI_COMMIT_REF_SLUG":   "CI.COMMIT_REF_SLUG",
	"$CI_COMMIT_BRANCH":     "CI.COMMIT_BRANCH",
	"$CI_COMMIT_TAG":        "CI.COMMIT_TAG",
	"$CI_COMMIT_MESSAGE":    "CI.COMMIT_MESSAGE",
	"$CI_COMMIT_TITLE":      "CI.COMMIT_TITLE",
	"$CI_COMMIT_BEFORE_SHA": "CI.COMMIT_BEFORE_SHA",
	"$CI_DEFAULT_BRANCH":    "CI.DEFAULT_BRANCH",
	"$CI_PIPELINE_ID":       "CI.PIPELINE_ID",
	"$CI_PIPELINE_IID":      "CI.PIPELINE_IID",
	"$CI_PIPELINE_SOURCE":   "CI.PIPELINE_SOURCE",
	"$CI_PIPELINE_URL":      "CI.PIPELINE_URL",
	"$CI_JOB_ID":            "CI.JOB_ID",
	"$CI_JOB_NAME":          "CI.JOB_NAME",
	"$CI_JOB_STAGE":         "CI.JOB_STAGE",
	"$CI_JOB_TOKEN":         "CI.JOB_TOKEN",
	"$CI_JOB_URL":           "CI.JOB_URL",
	"$CI_PROJECT_ID":        "CI.PROJECT_ID",
	"$CI_PROJECT_NAME":      "CI.PROJECT_NAME",
	"$CI_PROJECT_NAMESPACE": "CI.PROJECT_NAMESPACE",
	"$CI_PROJECT_PATH":      "CI.PROJECT_PATH",
	"$CI_PROJECT_PATH_SLUG": "CI.PROJECT_PATH_SLUG",
	"$CI_PROJECT_URL":       "CI.PROJECT_URL",
	"$CI_PROJECT_DIR":       "CI.PROJECT_DIR",
	"$CI_REGISTRY":          "CI.REGISTRY",
	"$CI_REGISTRY_IMAGE":    "CI.REGISTRY_IMAGE",
	"$CI_REGISTRY_USER":     "CI.REGISTRY_USER",
	"$CI_REGISTRY_PASSWORD": "CI.REGISTRY_PASSWORD",
	"$CI_SERVER_HOST":       "CI.SERVER_HOST",
	"$CI_SERVER_URL":        "CI.SERVER_URL",
	"$CI_ENVIRONMENT_NAME":  "CI.ENVIRONMENT_NAME",
	"$CI_ENVIRONMENT_SLUG":  "CI.ENVIRONMENT_SLUG",
	"$CI_ENVIRONMENT_URL":   "CI.ENVIRONMENT_URL",
}

func checkPredefinedVars(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Rule", func(call *sitter.Node) {
		v := f.Keyword(call, "if_")
		value, ok := f.StringValue(v)
		if !ok {
			return
		}
		for _, re := range wgl009Claimed {
			if re.MatchString(value) {
				return
			}
		}
		if !ciVariablePattern.MatchString(value) {
			return
		}

		issue := issueAt("WGL003",
			"Use predefined variables from intrinsics module instead of raw strings: replace with intrinsics", f, v)
		issue.Original = quoteOriginal("if_=", value, "")
		issue.Suggestion = "if_=" + intrinsicExpr(value)
		issue.FixImports = []string{"from wetwire_gitlab.intrinsics import CI"}
		out = append(out, issue)
	})
	return out
}

// intrinsicExpr rewrites a condition string as a Python expression over
// CI intrinsics, concatenating literal fragments between variables.
func intrinsicExpr(value string) string {
	if expr, ok := ciVarMap[value]; ok {
		return expr
	}
	var parts []string
	remaining := value
	for remaining != "" {
		loc := ciVariablePattern.FindStringIndex(remaining)
		if loc == nil {
			parts = append(parts, `"`+remaining+`"`)
			break
		}
		if before := remaining[:loc[0]]; before != "" {
			parts = append(parts, `"`+before+`"`)
		}
		ciVar := remaining[loc[0]:loc[1]]
		if expr, ok := ciVarMap[ciVar]; ok {
			parts = append(parts, expr)
		} else {
			parts = append(parts, `"`+ciVar+`"`)
		}
		remaining = remaining[loc[1]:]
	}
	return strings.Join(parts, " + ")
}
