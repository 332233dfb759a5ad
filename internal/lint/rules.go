package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// placeholderPattern matches {name}-style format placeholders as used by the
// dashboard apps.
var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z0-9_]*\}`)

// JSONShapeRule reports files that are not flat string-to-string objects and
// configured source files that are missing entirely.
type JSONShapeRule struct{}

func (JSONShapeRule) Name() string { return "json-shape" }

func (r JSONShapeRule) Check(scope *Scope) []Issue {
	var issues []Issue
	for _, lang := range scope.Languages {
		sf := scope.Files[lang]
		if sf.Missing {
			issues = append(issues, Issue{
				File:     sf.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  "source file not found, build will treat it as empty",
			})
			continue
		}
		if sf.ParseErr != nil {
			issues = append(issues, Issue{
				File:     sf.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  sf.ParseErr.Error(),
			})
		}
	}
	return issues
}

// KeyCoverageRule checks that every language defines the keys of the
// reference language. Missing keys are errors; extra keys are warnings.
type KeyCoverageRule struct{}

func (KeyCoverageRule) Name() string { return "key-coverage" }

func (r KeyCoverageRule) Check(scope *Scope) []Issue {
	ref := scope.Files[scope.Reference()]
	if ref == nil || ref.Catalog == nil {
		return nil
	}

	var issues []Issue
	for _, lang := range scope.Languages[1:] {
		sf := scope.Files[lang]
		if sf.Catalog == nil {
			continue
		}

		for _, key := range sortedKeys(ref.Catalog) {
			if _, ok := sf.Catalog[key]; !ok {
				issues = append(issues, Issue{
					File:     sf.Path,
					Severity: SeverityError,
					Rule:     r.Name(),
					Key:      key,
					Message:  fmt.Sprintf("missing key defined in reference language %s", scope.Reference()),
				})
			}
		}
		for _, key := range sortedKeys(sf.Catalog) {
			if _, ok := ref.Catalog[key]; !ok {
				issues = append(issues, Issue{
					File:     sf.Path,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Key:      key,
					Message:  fmt.Sprintf("key not present in reference language %s", scope.Reference()),
				})
			}
		}
	}
	return issues
}

// PlaceholderRule checks that {name}-style placeholders agree across
// languages for the same key.
type PlaceholderRule struct{}

func (PlaceholderRule) Name() string { return "placeholders" }

func (r PlaceholderRule) Check(scope *Scope) []Issue {
	ref := scope.Files[scope.Reference()]
	if ref == nil || ref.Catalog == nil {
		return nil
	}

	var issues []Issue
	for _, lang := range scope.Languages[1:] {
		sf := scope.Files[lang]
		if sf.Catalog == nil {
			continue
		}

		for _, key := range sortedKeys(ref.Catalog) {
			value, ok := sf.Catalog[key]
			if !ok {
				continue // covered by key-coverage
			}
			want := placeholders(ref.Catalog[key])
			got := placeholders(value)
			if want != got {
				issues = append(issues, Issue{
					File:     sf.Path,
					Severity: SeverityError,
					Rule:     r.Name(),
					Key:      key,
					Message: fmt.Sprintf("placeholders %s do not match reference language %s placeholders %s",
						displaySet(got), scope.Reference(), displaySet(want)),
				})
			}
		}
	}
	return issues
}

// EmptyValueRule reports empty or whitespace-only translation values.
type EmptyValueRule struct{}

func (EmptyValueRule) Name() string { return "empty-value" }

func (r EmptyValueRule) Check(scope *Scope) []Issue {
	var issues []Issue
	for _, lang := range scope.Languages {
		sf := scope.Files[lang]
		if sf.Catalog == nil {
			continue
		}
		for _, key := range sortedKeys(sf.Catalog) {
			if strings.TrimSpace(sf.Catalog[key]) == "" {
				issues = append(issues, Issue{
					File:     sf.Path,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Key:      key,
					Message:  "empty translation value",
				})
			}
		}
	}
	return issues
}

// LangTagRule reports source files whose language is not configured, and
// stems that do not parse as BCP 47 tags. The build ignores these files, so
// their translations silently never ship.
type LangTagRule struct{}

func (LangTagRule) Name() string { return "lang-tag" }

func (r LangTagRule) Check(scope *Scope) []Issue {
	var issues []Issue
	for _, sf := range scope.UnconfiguredFiles {
		if _, err := language.Parse(sf.Language); err != nil {
			issues = append(issues, Issue{
				File:     sf.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%q is not a valid language tag", sf.Language),
			})
			continue
		}
		issues = append(issues, Issue{
			File:     sf.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("language %q is not configured, file is ignored by the build", sf.Language),
		})
	}
	return issues
}

// placeholders extracts the sorted, deduplicated placeholder set of a value
// as a single comparable string.
func placeholders(value string) string {
	found := placeholderPattern.FindAllString(value, -1)
	if len(found) == 0 {
		return ""
	}
	set := make(map[string]bool, len(found))
	for _, p := range found {
		set[p] = true
	}
	unique := make([]string, 0, len(set))
	for p := range set {
		unique = append(unique, p)
	}
	sort.Strings(unique)
	return strings.Join(unique, " ")
}

func displaySet(set string) string {
	if set == "" {
		return "(none)"
	}
	return set
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
