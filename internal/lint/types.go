package lint

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityWarning indicates issues that should be fixed but don't block builds.
	SeverityWarning Severity = iota
	// SeverityError indicates issues that make translation sources unusable.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the severity as its name rather than a bare int.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Issue represents a single problem found in the translation sources.
type Issue struct {
	File     string   `json:"file"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Key      string   `json:"key,omitempty"`
	Message  string   `json:"message"`
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue `json:"issues"`
	FilesTotal int     `json:"files_total"`
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Rule defines a check applied to one translation scope (the common set or
// one dashboard's specific set).
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check validates a scope and returns any issues found.
	Check(scope *Scope) []Issue
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only reporting errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string
}
