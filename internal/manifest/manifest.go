// Package manifest records what a translation build consumed and produced.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"
)

// BuildManifest is a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID         string           `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	ConfigHash string           `json:"config_hash"`
	Artifacts  []ArtifactRecord `json:"artifacts"`
	Status     string           `json:"status"`
	Duration   int64            `json:"duration_ms"`
}

// ArtifactRecord captures one generated file.
type ArtifactRecord struct {
	Dashboard      string `json:"dashboard"`
	Language       string `json:"language"`
	Output         string `json:"output"`
	CommonKeys     int    `json:"common_keys"`
	SpecificKeys   int    `json:"specific_keys"`
	MergedKeys     int    `json:"merged_keys"`
	InputSignature string `json:"input_signature"`
	OutputHash     string `json:"output_hash,omitempty"`
	Skipped        bool   `json:"skipped,omitempty"`
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}
