package ir

import "time"

const Version = "1.0"

// Run is the envelope persisted and reported for one lint invocation.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context      Context        `json:"context"`
	Jobs         []JobDecl      `json:"jobs,omitempty"`
	Pipelines    []PipelineDecl `json:"pipelines,omitempty"`
	Issues       []LintIssue    `json:"issues,omitempty"`
	FilesChecked int            `json:"files_checked"`
}

type Context struct {
	MaxJobs       int      `json:"max_jobs,omitempty"`
	IncludedRules []string `json:"included_rules,omitempty"`
	ExcludedRules []string `json:"excluded_rules,omitempty"`
}

// JobDecl is a Job(...) declaration discovered by static analysis.
// It is never executed; every field comes from literal extraction.
type JobDecl struct {
	Name         string            `json:"name"`
	VarName      string            `json:"var_name"`
	FilePath     string            `json:"file_path"`
	Line         int               `json:"line"`
	Dependencies []string          `json:"dependencies,omitempty"`
	Stage        string            `json:"stage,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	When         string            `json:"when,omitempty"`
}

// PipelineDecl is a Pipeline(...) declaration. Job membership is
// populated by consumers, never by the scanner.
type PipelineDecl struct {
	Name     string   `json:"name"`
	FilePath string   `json:"file_path"`
	Line     int      `json:"line"`
	Jobs     []string `json:"jobs,omitempty"`
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// LintIssue is one reported violation. The fix fields are optional:
// Suggestion plus Original describes a substitution, Suggestion plus
// InsertAfterLine an insertion. They are never both absent when a
// Suggestion is present.
type LintIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity"`

	Original        string   `json:"original,omitempty"`
	Suggestion      string   `json:"suggestion,omitempty"`
	FixImports      []string `json:"fix_imports,omitempty"`
	InsertAfterLine int      `json:"insert_after_line,omitempty"`
}

// Fixable reports whether the issue carries enough metadata for autofix.
func (i LintIssue) Fixable() bool {
	if i.Suggestion == "" {
		return false
	}
	return i.Original != "" || i.InsertAfterLine > 0
}

// LintResult is the outcome of linting one file or a whole tree.
// FilesChecked excludes files that failed to parse.
type LintResult struct {
	Success      bool        `json:"success"`
	Issues       []LintIssue `json:"issues"`
	FilesChecked int         `json:"files_checked"`
}

// ListResult holds declarations discovered in one scan pass.
type ListResult struct {
	Jobs      []JobDecl      `json:"jobs"`
	Pipelines []PipelineDecl `json:"pipelines"`
}

// BuildResult is the outcome of emitting a pipeline YAML.
type BuildResult struct {
	Success    bool     `json:"success"`
	OutputPath string   `json:"output_path,omitempty"`
	JobsCount  int      `json:"jobs_count"`
	Errors     []string `json:"errors,omitempty"`
}
