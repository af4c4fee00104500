package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.challengegame/pkg/challenge"
)

// BankFile is the on-disk layout of a challenge bank, in JSON or
// YAML.
type BankFile struct {
	Version    string                 `json:"version" yaml:"version"`
	Name       string                 `json:"name" yaml:"name"`
	Challenges []challenge.Definition `json:"challenges" yaml:"challenges"`
	Metadata   map[string]any         `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Supported reports whether path has a bank file extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile decodes a bank file by extension.
func ReadFile(path string) (*BankFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file %s: %w", path, err)
	}

	var file BankFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("bank file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}
	return &file, nil
}
