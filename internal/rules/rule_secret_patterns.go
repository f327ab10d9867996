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
		Code:    "WGL025",
		Message: "Possible hardcoded secret in job definition",
		Check:   checkSecretPatterns,
	})
}

// secretPatterns match well-known credential shapes inside literal
// strings. Values that are variable references (start with "$") are
// never flagged, nor are non-literal expressions.
var secretPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"AWS access key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"private key", regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)},
	{"GitLab token", regexp.MustCompile(`glpat-[A-Za-z0-9_\-]{20,}`)},
	{"GitHub token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`)},
	{"Slack webhook", regexp.MustCompile(`https://hooks\.slack\.com/services/[A-Za-z0-9/_\-]+`)},
	{"bearer token", regexp.MustCompile(`(?i)bearer\s+[a-z0-9._\-]{16,}`)},
	{"inline password", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*[^\s$'"]{6,}`)},
	{"CLI password flag", regexp.MustCompile(`\s-p[^\s$]{8,}`)},
}

// secretName matches variable names that conventionally hold
// credentials. A literal value under such a name is flagged even when
// no value pattern fires.
var secretName = regexp.MustCompile(`(?i)(secret|token|credential|api_key|access_key|private_key)`)

func checkSecretPatterns(f *parser.File, _ Settings) []ir.LintIssue {
	var out []ir.LintIssue
	f.EachCall("Job", func(call *sitter.Node) {
		if script := f.Keyword(call, "script"); script != nil && script.Type() == "list" {
			for i := 0; i < int(script.NamedChildCount()); i++ {
				elt := script.NamedChild(i)
				s, ok := f.StringValue(elt)
				if !ok {
					continue
				}
				if label, hit := matchSecret(s); hit {
					out = append(out, issueAt("WGL025",
						"Possible hardcoded secret in script: "+label, f, elt))
				}
			}
		}

		vars := f.Keyword(call, "variables")
		if vars == nil || vars.Type() != "dictionary" {
			return
		}
		for i := 0; i < int(vars.NamedChildCount()); i++ {
			pair := vars.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			key, _ := f.StringValue(pair.ChildByFieldName("key"))
			valueNode := pair.ChildByFieldName("value")
			value, ok := f.StringValue(valueNode)
			if !ok || strings.HasPrefix(value, "$") {
				continue
			}
			if label, hit := matchSecret(value); hit {
				out = append(out, issueAt("WGL025",
					"Possible hardcoded secret in variable '"+key+"': "+label, f, valueNode))
				continue
			}
			if secretName.MatchString(key) && len(value) >= 8 {
				out = append(out, issueAt("WGL025",
					"Possible hardcoded secret in variable '"+key+"'", f, valueNode))
			}
		}
	})
	return out
}

func matchSecret(s string) (string, bool) {
	if strings.HasPrefix(s, "$") {
		return "", false
	}
	for _, p := range secretPatterns {
		if p.re.MatchString(s) {
			return p.label, true
		}
	}
	return "", false
}
