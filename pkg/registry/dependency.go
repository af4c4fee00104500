package registry

import (
	"fmt"
	"slices"
	"strings"

	"digital.vasic.challengegame/pkg/challenge"
)

// topologicalSort orders definitions so every dependency precedes
// its dependents. Among the challenges ready at any point the
// smallest ID goes first, which makes the order reproducible.
func topologicalSort(
	defs map[challenge.ID]*challenge.Definition,
) ([]*challenge.Definition, error) {
	inDegree := make(map[challenge.ID]int, len(defs))
	dependents := make(map[challenge.ID][]challenge.ID, len(defs))

	for id, d := range defs {
		inDegree[id] += len(d.Dependencies)
		for _, dep := range d.Dependencies {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []challenge.ID
	for id := range defs {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	slices.Sort(queue)

	ordered := make([]*challenge.Definition, 0, len(defs))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if d, exists := defs[id]; exists {
			ordered = append(ordered, d)
		}

		for _, next := range dependents[id] {
			if inDegree[next]--; inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
		slices.Sort(queue)
	}

	if len(ordered) != len(defs) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, detectCycle(defs))
	}
	return ordered, nil
}

// detectCycle describes the first dependency cycle found, walking
// IDs and their dependencies in sorted order, as "a -> b -> a".
func detectCycle(defs map[challenge.ID]*challenge.Definition) string {
	done := make(map[challenge.ID]bool, len(defs))
	onPath := make(map[challenge.ID]bool)
	var path []challenge.ID

	var visit func(id challenge.ID) []challenge.ID
	visit = func(id challenge.ID) []challenge.ID {
		if onPath[id] {
			loop := slices.Clone(path[slices.Index(path, id):])
			return append(loop, id)
		}
		if done[id] {
			return nil
		}
		onPath[id] = true
		path = append(path, id)
		for _, dep := range sortedDeps(defs, id) {
			if loop := visit(dep); loop != nil {
				return loop
			}
		}
		path = path[:len(path)-1]
		onPath[id] = false
		done[id] = true
		return nil
	}

	for _, id := range sortedIDs(defs) {
		if loop := visit(id); loop != nil {
			names := make([]string, len(loop))
			for i, l := range loop {
				names[i] = string(l)
			}
			return strings.Join(names, " -> ")
		}
	}
	return "unknown cycle"
}

func sortedDeps(
	defs map[challenge.ID]*challenge.Definition,
	id challenge.ID,
) []challenge.ID {
	d, ok := defs[id]
	if !ok {
		return nil
	}
	deps := slices.Clone(d.Dependencies)
	slices.Sort(deps)
	return deps
}
