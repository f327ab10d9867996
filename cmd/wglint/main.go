package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codewithboateng/wglint/internal/api"
	"github.com/codewithboateng/wglint/internal/discover"
	"github.com/codewithboateng/wglint/internal/emit"
	"github.com/codewithboateng/wglint/internal/ir"
	"github.com/codewithboateng/wglint/internal/linter"
	"github.com/codewithboateng/wglint/internal/reporting"
	"github.com/codewithboateng/wglint/internal/rules"
	"github.com/codewithboateng/wglint/internal/rulesdsl"
	"github.com/codewithboateng/wglint/internal/security"
	"github.com/codewithboateng/wglint/internal/shared"
	"github.com/codewithboateng/wglint/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "lint":
		lintCmd(os.Args[2:])
	case "fix":
		fixCmd(os.Args[2:])
	case "list":
		listCmd(os.Args[2:])
	case "build":
		buildCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "user-add":
		userAddCmd(os.Args[2:])
	case "version":
		fmt.Println("wglint IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `wglint – pipeline declaration linter

Usage:
  wglint lint   --path <file-or-dir> [--rules WGL003,WGL010] [--exclude-rules WGL023] [--max-jobs 10] [--rules-pack ./rules.yaml] [--save] [--out ./reports] [--db ./wglint.db] [--config ./wglint.yaml]
  wglint fix    --path <file-or-dir> [--rules ...] [--write]
  wglint list   --path <file-or-dir> [--json]
  wglint build  --path <file-or-dir> [--out-file .gitlab-ci.yml]
  wglint report --run <run-id> --out <reports-dir> [--db ./wglint.db]
  wglint diff   --base <run-id> --head <run-id> --out <reports-dir> [--db ./wglint.db]
  wglint serve  [--addr :8080] [--db ./wglint.db]
  wglint user-add --username <name> --password <pw> [--role admin] [--db ./wglint.db]
  wglint version
`)
}

type lintFlags struct {
	fs        *flag.FlagSet
	config    *string
	path      *string
	ruleCodes *string
	exclude   *string
	maxJobs   *int
	rulesPack *string
}

func newLintFlags(name string) *lintFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &lintFlags{
		fs:        fs,
		config:    fs.String("config", "", "Path to YAML config (optional)"),
		path:      fs.String("path", "", "File or directory to check"),
		ruleCodes: fs.String("rules", "", "Comma-separated rule codes to run (default all)"),
		exclude:   fs.String("exclude-rules", "", "Comma-separated rule codes to skip"),
		maxJobs:   fs.Int("max-jobs", 0, "Per-file job threshold"),
		rulesPack: fs.String("rules-pack", "", "YAML pack of extra rules (optional)"),
	}
}

// precedence: flags > config > defaults
func (lf *lintFlags) resolve() (shared.Config, linter.Options) {
	cfg, _ := shared.LoadConfig(*lf.config)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *lf.path == "" && len(cfg.Lint.Sources) > 0 {
		*lf.path = cfg.Lint.Sources[0]
	}
	opts := linter.Options{
		Rules:        cfg.Lint.Rules,
		ExcludeRules: cfg.Lint.ExcludeRules,
		MaxJobs:      cfg.Lint.MaxJobs,
	}
	if *lf.ruleCodes != "" {
		opts.Rules = splitList(*lf.ruleCodes)
	}
	if *lf.exclude != "" {
		opts.ExcludeRules = splitList(*lf.exclude)
	}
	if *lf.maxJobs > 0 {
		opts.MaxJobs = *lf.maxJobs
	}
	if *lf.rulesPack != "" {
		if n, err := rulesdsl.LoadAndRegister(*lf.rulesPack); err != nil {
			slog.Error("rules pack error", "err", err)
			os.Exit(1)
		} else {
			slog.Info("rules pack loaded", "rules", n)
		}
	}
	return cfg, opts
}

func splitList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if part := s[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}

func lintTarget(path string, opts linter.Options) ir.LintResult {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lint: cannot stat path:", err)
		os.Exit(2)
	}
	if info.IsDir() {
		return linter.LintDirectory(path, opts)
	}
	return linter.LintFile(path, opts)
}

func lintCmd(args []string) {
	lf := newLintFlags("lint")
	outDir := lf.fs.String("out", "", "Output directory for reports")
	dbPath := lf.fs.String("db", "", "SQLite database path")
	save := lf.fs.Bool("save", false, "Persist the run and write reports")
	_ = lf.fs.Parse(args)

	cfg, opts := lf.resolve()
	if *lf.path == "" {
		fmt.Fprintln(os.Stderr, "lint: --path (or lint.sources in config) is required")
		os.Exit(2)
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	res := lintTarget(*lf.path, opts)
	for _, issue := range res.Issues {
		fmt.Printf("%s:%d:%d: %s [%s] %s\n",
			issue.FilePath, issue.Line, issue.Column, issue.Severity, issue.Code, issue.Message)
	}
	fmt.Printf("Checked %d file(s), %d issue(s)\n", res.FilesChecked, len(res.Issues))

	if *save {
		saveRun(*lf.path, *outDir, *dbPath, opts, res)
	}
	if !res.Success {
		os.Exit(1)
	}
}

func saveRun(source, outDir, dbPath string, opts linter.Options, res ir.LintResult) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	issues := res.Issues
	if waivers, werr := db.ListWaivers(true); werr == nil && len(waivers) > 0 {
		var waived int
		issues, waived = rules.ApplyWaivers(issues, waivers)
		if waived > 0 {
			slog.Info("waivers applied", "waived", waived)
		}
	}

	scan := scanTarget(source)
	run := ir.Run{
		ID:        fmt.Sprintf("run-%d", time.Now().Unix()),
		StartedAt: time.Now().UTC(),
		Source:    source,
		IRVersion: ir.Version,
		Context: ir.Context{
			MaxJobs:       opts.MaxJobs,
			IncludedRules: opts.Rules,
			ExcludedRules: opts.ExcludeRules,
		},
		Jobs:         scan.Jobs,
		Pipelines:    scan.Pipelines,
		Issues:       issues,
		FilesChecked: res.FilesChecked,
	}

	if err := db.SaveRun(&run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, outDir, &run)
	slog.Info("lint run saved",
		"run", run.ID,
		"json", jsonPath,
		"html", htmlPath,
		"db", filepath.Clean(dbPath),
	)
	fmt.Printf("Saved\n  Run: %s\n  JSON: %s\n  HTML: %s\n  DB: %s\n",
		run.ID, jsonPath, htmlPath, filepath.Clean(dbPath))
}

func scanTarget(path string) ir.ListResult {
	info, err := os.Stat(path)
	if err != nil {
		return ir.ListResult{}
	}
	if info.IsDir() {
		return discover.ScanDirectory(path)
	}
	return discover.ScanFile(path)
}

func fixCmd(args []string) {
	lf := newLintFlags("fix")
	write := lf.fs.Bool("write", false, "Rewrite files in place")
	_ = lf.fs.Parse(args)

	_, opts := lf.resolve()
	if *lf.path == "" {
		fmt.Fprintln(os.Stderr, "fix: --path is required")
		os.Exit(2)
	}

	info, err := os.Stat(*lf.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fix: cannot stat path:", err)
		os.Exit(2)
	}
	paths := []string{*lf.path}
	if info.IsDir() {
		paths = pythonFiles(*lf.path)
	}

	changed := 0
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		fixed, err := linter.FixFile(p, opts, *write)
		if err != nil {
			slog.Error("fix error", "file", p, "err", err)
			continue
		}
		if fixed != string(src) {
			changed++
			if !*write {
				fmt.Print(fixed)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "Fixed %d file(s)\n", changed)
}

func pythonFiles(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && (d.Name() == "__pycache__" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".py") {
			out = append(out, p)
		}
		return nil
	})
	return out
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", "", "File or directory to scan")
	asJSON := fs.Bool("json", false, "Emit JSON")
	_ = fs.Parse(args)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "list: --path is required")
		os.Exit(2)
	}
	res := scanTarget(*path)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	for _, j := range res.Jobs {
		name := j.Name
		if name == "" {
			name = j.VarName
		}
		fmt.Printf("job %s (%s:%d)", name, j.FilePath, j.Line)
		if len(j.Dependencies) > 0 {
			fmt.Printf(" needs=%v", j.Dependencies)
		}
		fmt.Println()
	}
	for _, p := range res.Pipelines {
		fmt.Printf("pipeline %s (%s:%d)\n", p.Name, p.FilePath, p.Line)
	}
	if dangling := discover.ValidateReferences(res.Jobs); len(dangling) > 0 {
		for _, msg := range dangling {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		}
	}
}

func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	path := fs.String("path", "", "File or directory to scan")
	outFile := fs.String("out-file", "", "Write YAML here instead of stdout")
	_ = fs.Parse(args)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "build: --path is required")
		os.Exit(2)
	}
	res := scanTarget(*path)
	if *outFile == "" {
		text, err := emit.Pipeline(res.Jobs)
		if err != nil {
			fmt.Fprintln(os.Stderr, "build:", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}
	br := emit.WritePipeline(res.Jobs, *outFile)
	if !br.Success {
		for _, e := range br.Errors {
			fmt.Fprintln(os.Stderr, "build:", e)
		}
		os.Exit(1)
	}
	fmt.Printf("Build OK\n  Jobs: %d\n  Out: %s\n", br.JobsCount, br.OutputPath)
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		slog.Error("load run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		os.Exit(2)
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		slog.Error("load base run error", "err", err); os.Exit(1)
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		slog.Error("load head run error", "err", err); os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err); os.Exit(1)
	}
	path, _ := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	fmt.Printf("Diff OK\n  %s\n", path)
}

func userAddCmd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user-add: --username and --password are required")
		os.Exit(2)
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}
	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash error", "err", err)
		os.Exit(1)
	}
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User created\n  ID: %d\n  Username: %s\n  Role: %s\n", id, *username, *role)
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", ":8080", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		SessionDuration: 12 * time.Hour,
	}
	slog.Info("serving", "addr", *addr, "db", filepath.Clean(*dbPath))
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
