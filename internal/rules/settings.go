package rules

// Settings carries per-invocation rule thresholds. Callers pass it to
// Evaluate; the zero value means defaults apply.
type Settings struct {
	// MaxJobs is the per-file constructor-call threshold for WGL008.
	MaxJobs int
}

const defaultMaxJobs = 10

func (s Settings) withDefaults() Settings {
	if s.MaxJobs <= 0 {
		s.MaxJobs = defaultMaxJobs
	}
	return s
}
