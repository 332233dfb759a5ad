package lint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter renders lint results as text or JSON.
type Formatter struct {
	format string
}

// NewFormatter creates a formatter for the given output format.
func NewFormatter(format string) *Formatter {
	return &Formatter{format: format}
}

// Format writes the result to w.
func (f *Formatter) Format(w io.Writer, result *Result) error {
	if f.format == "json" {
		return f.formatJSON(w, result)
	}
	return f.formatText(w, result)
}

func (f *Formatter) formatJSON(w io.Writer, result *Result) error {
	out := struct {
		*Result
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	}{
		Result:   result,
		Errors:   result.ErrorCount(),
		Warnings: result.WarningCount(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (f *Formatter) formatText(w io.Writer, result *Result) error {
	for _, issue := range result.Issues {
		location := issue.File
		if issue.Key != "" {
			location = fmt.Sprintf("%s (%s)", issue.File, issue.Key)
		}
		if _, err := fmt.Fprintf(w, "%s [%s] %s: %s\n",
			issue.Severity, issue.Rule, location, issue.Message); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d files checked: %d errors, %d warnings\n",
		result.FilesTotal, result.ErrorCount(), result.WarningCount())
	return err
}
