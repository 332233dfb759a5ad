package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Constellab/gws-plate-reader/internal/config"
)

// artifactInputs is the normalized representation hashed into an artifact
// signature. A missing input file hashes differently from an empty one so
// creating an empty file invalidates the artifact.
type artifactInputs struct {
	CommonHash   string `json:"common_hash"`
	SpecificHash string `json:"specific_hash"`
	Indent       int    `json:"indent"`
}

// ArtifactSignature computes a deterministic hash of one artifact's inputs.
// Two builds with identical signatures produce byte-identical output, so the
// artifact can be skipped in incremental mode. Pass nil for a missing file.
func ArtifactSignature(commonData, specificData []byte, indent int) string {
	in := artifactInputs{
		CommonHash:   contentHash(commonData),
		SpecificHash: contentHash(specificData),
		Indent:       indent,
	}

	// Marshaling a flat struct cannot fail.
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func contentHash(data []byte) string {
	if data == nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentHash exposes the raw content hash for manifest records.
func ContentHash(data []byte) string {
	return contentHash(data)
}

// ConfigSignature hashes the effective build configuration for manifests.
func ConfigSignature(cfg *config.Config) string {
	data, _ := json.Marshal(cfg)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
