package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Metadata describes an ingested resume file
type Metadata struct {
	Source    string `json:"source,omitempty"` // Base name of the uploaded file
	Timestamp string `json:"timestamp"`        // RFC3339 format
	Hash      string `json:"hash"`             // SHA256 hex digest of the normalized text
	Pages     int    `json:"pages"`
	Words     int    `json:"words"`
}

// Document is a resume after extraction and normalization
type Document struct {
	Text     string
	Metadata *Metadata
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(normalized string, source string, pages int) *Metadata {
	if source != "" {
		source = filepath.Base(source)
	}
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(normalized),
		Pages:     pages,
		Words:     len(strings.Fields(normalized)),
	}
}

// IngestFile extracts and normalizes a resume file
func IngestFile(path string) (*Document, error) {
	pages, err := ExtractFile(path)
	if err != nil {
		return nil, err
	}

	text := NormalizeText(pages)
	return &Document{
		Text:     text,
		Metadata: NewMetadata(text, path, len(pages)),
	}, nil
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
