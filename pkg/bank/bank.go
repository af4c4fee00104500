// Package bank loads challenge definitions from JSON and YAML
// files.
package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"digital.vasic.challengegame/pkg/challenge"
)

// ErrDuplicateID is returned when a definition ID is loaded twice.
var ErrDuplicateID = errors.New("duplicate challenge id")

// Bank manages collections of challenge definitions loaded from files.
type Bank struct {
	mu          sync.RWMutex
	definitions map[challenge.ID]*challenge.Definition
	sources     []string
}

// New creates a new empty Bank.
func New() *Bank {
	return &Bank{
		definitions: make(map[challenge.ID]*challenge.Definition),
	}
}

// LoadFile loads challenge definitions from a .json, .yaml or
// .yml file. Every definition must be valid and its ID unused;
// otherwise nothing from the file is added.
func (b *Bank) LoadFile(path string) error {
	file, err := ReadFile(path)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	seen := make(map[challenge.ID]bool, len(file.Challenges))
	for i := range file.Challenges {
		def := &file.Challenges[i]
		if def.ID == "" {
			errs = append(errs, fmt.Errorf(
				"challenge at index %d in %s has no ID", i, path,
			))
			continue
		}
		if _, dup := b.definitions[def.ID]; dup || seen[def.ID] {
			errs = append(errs, fmt.Errorf("%w: %s in %s", ErrDuplicateID, def.ID, path))
			continue
		}
		seen[def.ID] = true
		if err := def.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("challenge %s in %s: %w", def.ID, path, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for i := range file.Challenges {
		def := &file.Challenges[i]
		b.definitions[def.ID] = def
	}
	b.sources = append(b.sources, path)
	return nil
}

// LoadDir loads every bank file in a directory, in name order.
func (b *Bank) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read bank directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		if err := b.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Load loads path as a directory or a single file.
func (b *Bank) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bank %s: %w", path, err)
	}
	if info.IsDir() {
		return b.LoadDir(path)
	}
	return b.LoadFile(path)
}

// Get retrieves a challenge definition by ID.
func (b *Bank) Get(id challenge.ID) (*challenge.Definition, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.definitions[id]
	return def, ok
}

// All returns all loaded definitions ordered by ID.
func (b *Bank) All() []*challenge.Definition {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]*challenge.Definition, 0, len(b.definitions))
	for _, def := range b.definitions {
		result = append(result, def)
	}
	sortByID(result)
	return result
}

// ByCategory returns definitions in the category ordered by ID.
func (b *Bank) ByCategory(category string) []*challenge.Definition {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var result []*challenge.Definition
	for _, def := range b.definitions {
		if def.Category == category {
			result = append(result, def)
		}
	}
	sortByID(result)
	return result
}

// Categories returns the distinct categories, sorted.
func (b *Bank) Categories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for _, def := range b.definitions {
		if def.Category != "" && !slices.Contains(out, def.Category) {
			out = append(out, def.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of loaded definitions.
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.definitions)
}

// Sources returns the list of loaded file paths.
func (b *Bank) Sources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]string, len(b.sources))
	copy(result, b.sources)
	return result
}

func sortByID(defs []*challenge.Definition) {
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
}
