// Package catalog implements the flat translation dictionaries the dashboard
// apps consume: loading, overlay merging, and deterministic JSON encoding.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Catalog is a flat key/value translation mapping for a single language.
type Catalog map[string]string

// DefaultIndent is the number of spaces used when encoding generated files.
const DefaultIndent = 4

// LoadFile reads a translation file and validates its shape. The file must
// contain a single JSON object whose values are all strings.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses raw JSON into a Catalog, rejecting nested objects, arrays,
// nulls and other non-string values.
func Decode(data []byte) (Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed translation file: %w", err)
	}

	// Trailing content after the object is also malformed.
	if dec.More() {
		return nil, fmt.Errorf("malformed translation file: unexpected trailing content")
	}

	// A bare "null" document decodes into a nil map without error.
	if raw == nil {
		return nil, fmt.Errorf("malformed translation file: document is not a JSON object")
	}

	c := make(Catalog, len(raw))
	for key, value := range raw {
		// json.Unmarshal leaves a string untouched on null, so check the
		// value's leading byte instead of relying on the unmarshal error.
		if len(value) == 0 || value[0] != '"' {
			return nil, fmt.Errorf("malformed translation file: value of key %q is not a string", key)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("malformed translation file: %w", err)
		}
		c[key] = s
	}
	return c, nil
}

// Merge overlays other onto c and returns the result as a new Catalog.
// Keys in other win on collision; neither receiver nor argument is modified.
func (c Catalog) Merge(other Catalog) Catalog {
	merged := make(Catalog, len(c)+len(other))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Encode serializes the catalog with the fixed formatting the generated
// artifacts use: keys sorted, the given space indent, non-ASCII characters
// verbatim, and no HTML escaping. Output ends with a trailing newline.
func (c Catalog) Encode(indent int) ([]byte, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))

	// map keys are marshaled in sorted order, which gives the stable key
	// ordering reviewers diff against.
	if err := enc.Encode(map[string]string(c)); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the catalog and writes it atomically so dashboards never
// observe a torn artifact.
func (c Catalog) WriteFile(path string, indent int) error {
	data, err := c.Encode(indent)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return os.Chmod(path, 0o644)
}
