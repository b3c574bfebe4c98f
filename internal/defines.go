package internal

import (
	"iter"
	"maps"
	"slices"
)

// Defines merges assembler define tables in key order. A later table
// overrides an earlier one.
func Defines(tables ...map[string]string) iter.Seq2[string, string] {
	merged := map[string]string{}
	for _, table := range tables {
		maps.Copy(merged, table)
	}

	return func(yield func(string, string) bool) {
		for _, key := range slices.Sorted(maps.Keys(merged)) {
			if !yield(key, merged[key]) {
				return
			}
		}
	}
}
