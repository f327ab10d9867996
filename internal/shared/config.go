package shared

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./wglint.db"
	} `yaml:"database"`

	Lint struct {
		Sources      []string `yaml:"sources"`       // ["./pipelines"]
		Rules        []string `yaml:"rules"`         // nil = all
		ExcludeRules []string `yaml:"exclude_rules"` // subtracted after rules
		MaxJobs      int      `yaml:"max_jobs"`      // 10
	} `yaml:"lint"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./wglint.db"
	c.Lint.MaxJobs = 10
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("WGLINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("WGLINT_MAX_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Lint.MaxJobs = n
		}
	}
	if v := os.Getenv("WGLINT_RULES"); v != "" {
		c.Lint.Rules = splitCodes(v)
	}
	if v := os.Getenv("WGLINT_EXCLUDE_RULES"); v != "" {
		c.Lint.ExcludeRules = splitCodes(v)
	}
	if v := os.Getenv("WGLINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("WGLINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("WGLINT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}

func splitCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
