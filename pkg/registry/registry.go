// Package registry holds the challenge definitions available to a
// game and orders them into a playable path by their declared
// dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/game"
)

var (
	ErrAlreadyRegistered = errors.New("challenge definition already registered")
	ErrNotFound          = errors.New("challenge definition not found")
	ErrMissingDependency = errors.New("unregistered dependency")
	ErrCycle             = errors.New("circular dependency detected")
)

// Registry defines the operations for managing challenge
// definitions.
type Registry interface {
	// RegisterDefinition adds a declarative definition.
	RegisterDefinition(def *challenge.Definition) error

	// Get retrieves a definition by ID.
	Get(id challenge.ID) (*challenge.Definition, error)

	// List returns all registered definitions sorted by ID.
	List() []*challenge.Definition

	// ListByCategory returns definitions in the category,
	// sorted by ID.
	ListByCategory(category string) []*challenge.Definition

	// ValidateDependencies checks that every dependency
	// referenced by a definition is also registered.
	ValidateDependencies() error

	// BuildPath instantiates every definition in dependency
	// order.
	BuildPath() ([]challenge.Challenge, error)

	// Count returns the number of registered definitions.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu          sync.RWMutex
	definitions map[challenge.ID]*challenge.Definition
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		definitions: make(map[challenge.ID]*challenge.Definition),
	}
}

// RegisterDefinition validates and adds a definition. Returns an
// error if a definition with the same ID already exists.
func (r *DefaultRegistry) RegisterDefinition(
	def *challenge.Definition,
) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrNotFound)
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("definition %s: %w", def.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, def.ID)
	}
	r.definitions[def.ID] = def
	return nil
}

// Get retrieves a definition by ID.
func (r *DefaultRegistry) Get(
	id challenge.ID,
) (*challenge.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.definitions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return def, nil
}

// List returns all registered definitions sorted by ID.
func (r *DefaultRegistry) List() []*challenge.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*challenge.Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// ListByCategory returns definitions in the category, sorted by
// ID.
func (r *DefaultRegistry) ListByCategory(
	category string,
) []*challenge.Definition {
	var out []*challenge.Definition
	for _, d := range r.List() {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// ValidateDependencies checks that every dependency referenced
// by a registered definition is also registered. All missing
// dependencies are reported.
func (r *DefaultRegistry) ValidateDependencies() error {
	var errs []error
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range sortedIDs(r.definitions) {
		for _, dep := range r.definitions[id].Dependencies {
			if _, exists := r.definitions[dep]; !exists {
				errs = append(errs, fmt.Errorf(
					"%w: challenge %s depends on %s",
					ErrMissingDependency, id, dep,
				))
			}
		}
	}
	return errors.Join(errs...)
}

// BuildPath returns a fresh challenge for every definition,
// ordered so that each challenge comes after its dependencies.
// Ties are broken by ID.
func (r *DefaultRegistry) BuildPath() ([]challenge.Challenge, error) {
	if err := r.ValidateDependencies(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ordered, err := topologicalSort(r.definitions)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	path := make([]challenge.Challenge, 0, len(ordered))
	for _, def := range ordered {
		c, err := def.NewChallenge()
		if err != nil {
			return nil, err
		}
		path = append(path, c)
	}
	return path, nil
}

// NewGameState builds the path and wraps it in a fresh game
// state for the named map.
func (r *DefaultRegistry) NewGameState(mapID string) (*game.GameState, error) {
	path, err := r.BuildPath()
	if err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: map %s has no challenges", game.ErrGamePathNotFound, mapID)
	}
	return game.NewGameState(mapID, path), nil
}

// Clear removes all definitions.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions = make(map[challenge.ID]*challenge.Definition)
}

// Count returns the number of registered definitions.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

func sortedIDs(defs map[challenge.ID]*challenge.Definition) []challenge.ID {
	ids := make([]challenge.ID, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}
