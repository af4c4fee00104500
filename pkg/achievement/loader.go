package achievement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of an achievement definition file.
type File struct {
	Achievements []Definition `json:"achievements" yaml:"achievements"`
}

// LoadFile reads definitions from a .json, .yaml or .yml file.
// Compact When conditions are parsed and every definition is
// validated.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievements: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("achievements %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse achievements %s: %w", path, err)
	}
	return Prepare(f.Achievements)
}

// Prepare parses compact conditions and validates definitions. It
// rejects duplicate IDs.
func Prepare(defs []Definition) ([]Definition, error) {
	var errs []error
	seen := make(map[string]bool, len(defs))
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		for _, w := range d.When {
			c, err := ParseCondition(w)
			if err != nil {
				errs = append(errs, fmt.Errorf("achievement %q: %w", d.ID, err))
				continue
			}
			d.Conditions = append(d.Conditions, c)
		}
		d.When = nil
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("achievement %q: duplicate id", d.ID))
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
