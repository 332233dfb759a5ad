package lint

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Constellab/gws-plate-reader/internal/catalog"
	"github.com/Constellab/gws-plate-reader/internal/config"
)

// SourceFile is one loaded translation file inside a scope.
type SourceFile struct {
	Path     string
	Language string
	Catalog  catalog.Catalog
	Missing  bool
	ParseErr error
}

// Scope groups the translation files checked together: either the common set
// or one dashboard's specific set. Cross-language rules (coverage,
// placeholders) only compare files within a scope.
type Scope struct {
	// Name is "common" or the dashboard name.
	Name string
	Dir  string

	// Languages in configured order; the first is the reference language.
	Languages []string
	Files     map[string]*SourceFile

	// UnconfiguredFiles are language-suffixed files present on disk whose
	// stem is not a configured language.
	UnconfiguredFiles []SourceFile
}

// Reference returns the reference language of the scope.
func (s *Scope) Reference() string {
	return s.Languages[0]
}

// suffix returns the filename suffix of source files in this scope.
func (s *Scope) suffix() string {
	if s.Name == "common" {
		return ".json"
	}
	return "_specific.json"
}

// LoadScopes builds the common scope plus one scope per dashboard, resolving
// paths against root.
func LoadScopes(root string, cfg *config.Config) ([]*Scope, error) {
	scopes := make([]*Scope, 0, len(cfg.Dashboards)+1)

	commonScope, err := loadScope("common", filepath.Join(root, cfg.Common.Path), cfg.Languages)
	if err != nil {
		return nil, err
	}
	scopes = append(scopes, commonScope)

	for _, d := range cfg.Dashboards {
		scope, err := loadScope(d.Name, filepath.Join(root, d.Path), cfg.Languages)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

func loadScope(name, dir string, languages []string) (*Scope, error) {
	scope := &Scope{
		Name:      name,
		Dir:       dir,
		Languages: languages,
		Files:     make(map[string]*SourceFile, len(languages)),
	}

	for _, lang := range languages {
		path := filepath.Join(dir, lang+scope.suffix())
		sf := &SourceFile{Path: path, Language: lang}

		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			sf.Missing = true
		case err != nil:
			return nil, err
		default:
			c, decodeErr := catalog.Decode(data)
			if decodeErr != nil {
				sf.ParseErr = decodeErr
			} else {
				sf.Catalog = c
			}
		}
		scope.Files[lang] = sf
	}

	if err := scope.findUnconfigured(); err != nil {
		return nil, err
	}
	return scope, nil
}

// findUnconfigured collects language-suffixed files in the scope directory
// that are not covered by the configured languages. For dashboard scopes the
// generated <lang>.json outputs are not sources and are ignored.
func (s *Scope) findUnconfigured() error {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	configured := make(map[string]bool, len(s.Languages))
	for _, lang := range s.Languages {
		configured[lang] = true
	}

	suffix := s.suffix()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), suffix)
		if stem == "" || configured[stem] {
			continue
		}
		// In the common scope every .json file would match; only consider
		// stems that look like language codes (short, no separators beyond
		// BCP 47 subtag dashes).
		if s.Name == "common" && !looksLikeLanguageStem(stem) {
			continue
		}
		s.UnconfiguredFiles = append(s.UnconfiguredFiles, SourceFile{
			Path:     filepath.Join(s.Dir, entry.Name()),
			Language: stem,
		})
	}

	sort.Slice(s.UnconfiguredFiles, func(i, j int) bool {
		return s.UnconfiguredFiles[i].Path < s.UnconfiguredFiles[j].Path
	})
	return nil
}

func looksLikeLanguageStem(stem string) bool {
	if len(stem) > 11 {
		return false
	}
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
