package importer

import (
	"fmt"
	"strings"
)

// FindCycle returns the refs of the first dependency cycle in the schema,
// closed by repeating its first ref, or nil when the graph is acyclic. Tasks
// are visited in file order so the same file always reports the same cycle.
// Refs missing from tasks are still followed; ValidateImportSchema reports those.
func FindCycle(schema *ImportSchema) []string {
	next := make(map[string][]string)
	for _, d := range schema.Dependencies {
		next[d.Predecessor] = append(next[d.Predecessor], d.Successor)
	}

	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[string]int, len(schema.Tasks))
	var path []string

	var visit func(ref string) []string
	visit = func(ref string) []string {
		state[ref] = onPath
		path = append(path, ref)
		for _, succ := range next[ref] {
			switch state[succ] {
			case onPath:
				for i, r := range path {
					if r == succ {
						return append(append([]string{}, path[i:]...), succ)
					}
				}
			case unseen:
				if c := visit(succ); c != nil {
					return c
				}
			}
		}
		path = path[:len(path)-1]
		state[ref] = done
		return nil
	}

	for _, t := range schema.Tasks {
		if state[t.Ref] == unseen {
			if c := visit(t.Ref); c != nil {
				return c
			}
		}
	}
	return nil
}

// ValidateAcyclic reports a dependency cycle as an error naming its refs.
func ValidateAcyclic(schema *ImportSchema) error {
	if c := FindCycle(schema); c != nil {
		return fmt.Errorf("dependencies: cycle %s", strings.Join(c, " -> "))
	}
	return nil
}
