package compiler

import "github.com/roach88/typegen/internal/ir"

// Walk states for cycle detection.
const (
	unvisited = iota
	onPath
	done
)

// FindInheritanceCycles returns every inheritance cycle in the table.
//
// Each type has at most one supertype, so the inheritance graph is a set of
// chains; a cycle is found by walking a chain until it revisits a type on the
// current walk. Walks start in table order and never re-enter finished types,
// so each cycle is reported exactly once.
//
// A cycle path starts and ends with the same type, e.g. ["a", "b", "a"].
// Supertypes missing from the table end the walk (reported separately as E201).
func FindInheritanceCycles(table *ir.Table) [][]string {
	state := make(map[string]int, table.Len())
	var cycles [][]string

	for _, start := range table.Names() {
		if state[start] != unvisited {
			continue
		}

		var path []string
		current := start
		for {
			bt, ok := table.Lookup(current)
			if !ok || state[current] != unvisited {
				break
			}
			state[current] = onPath
			path = append(path, current)
			if !bt.HasSupertype() {
				current = ""
				break
			}
			current = bt.Inherits
		}

		if current != "" && state[current] == onPath {
			cycles = append(cycles, cyclePath(path, current))
		}

		for _, name := range path {
			state[name] = done
		}
	}

	return cycles
}

// cyclePath extracts the cycle beginning at entry from a walk path.
func cyclePath(path []string, entry string) []string {
	for i, name := range path {
		if name == entry {
			cycle := append([]string{}, path[i:]...)
			return append(cycle, entry)
		}
	}
	return nil
}
