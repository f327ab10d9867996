// Package rulesdsl loads extra lint rules from a YAML pack and
// registers them next to the built-in ones. A DSL rule matches a
// constructor call and applies a regex to a literal keyword value.
package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/parser"
	"github.com/codewithboateng/wglint/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	Code     string `yaml:"code"`
	Severity string `yaml:"severity"` // error|warning|info
	Message  string `yaml:"message"`

	Where struct {
		Constructor    string `yaml:"constructor"`     // "Job" (default), "Rule", ...
		Keyword        string `yaml:"keyword"`         // keyword argument to inspect
		ValueRegex     string `yaml:"value_regex"`     // regex on the literal value (optional)
		RequireKeyword string `yaml:"require_keyword"` // flag calls missing this keyword (optional)
	} `yaml:"where"`
}

type compiled struct {
	rule        dslRule
	constructor string
	reValue     *regexp.Regexp
}

func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.Code, err)
		}
		registerCompiled(*cr)
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.Code == "" || r.Message == "" {
		return nil, fmt.Errorf("missing required fields (code/message)")
	}
	if r.Where.ValueRegex == "" && r.Where.RequireKeyword == "" {
		return nil, fmt.Errorf("need value_regex or require_keyword")
	}
	c := &compiled{rule: r, constructor: strings.TrimSpace(r.Where.Constructor)}
	if c.constructor == "" {
		c.constructor = "Job"
	}
	if r.Where.ValueRegex != "" {
		re, err := regexp.Compile(r.Where.ValueRegex)
		if err != nil {
			return nil, fmt.Errorf("value_regex: %w", err)
		}
		c.reValue = re
	}
	return c, nil
}

func registerCompiled(c compiled) {
	severity := strings.ToLower(strings.TrimSpace(c.rule.Severity))
	if severity == "" {
		severity = ir.SeverityWarning
	}
	rules.Register(rules.Rule{
		Code:    c.rule.Code,
		Message: c.rule.Message,
		Check: func(f *parser.File, _ rules.Settings) []ir.LintIssue {
			var out []ir.LintIssue
			f.EachCall(c.constructor, func(call *sitter.Node) {
				if issue, ok := check(f, call, c); ok {
					issue.Severity = severity
					out = append(out, issue)
				}
			})
			return out
		},
	})
}

func check(f *parser.File, call *sitter.Node, c compiled) (ir.LintIssue, bool) {
	if req := c.rule.Where.RequireKeyword; req != "" && !f.HasKeyword(call, req) {
		return newIssue(c, f, call), true
	}
	if c.reValue == nil {
		return ir.LintIssue{}, false
	}
	value := f.Keyword(call, c.rule.Where.Keyword)
	s, ok := f.StringValue(value)
	if !ok || !c.reValue.MatchString(s) {
		return ir.LintIssue{}, false
	}
	return newIssue(c, f, value), true
}

func newIssue(c compiled, f *parser.File, n *sitter.Node) ir.LintIssue {
	return ir.LintIssue{
		Code:     c.rule.Code,
		Message:  c.rule.Message,
		FilePath: f.Path,
		Line:     parser.Line(n),
		Column:   parser.Column(n),
	}
}
