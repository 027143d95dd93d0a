package bref

import (
	"iter"
	"strings"
)

// RankTables drains seq and moves every table whose id equals canonicalID
// (case-insensitive) to the front. Everything else keeps its relative order.
func RankTables(seq iter.Seq[RawTable], canonicalID string) []RawTable {
	var front, rest []RawTable
	for t := range seq {
		if canonicalID != "" && strings.EqualFold(t.ID(), canonicalID) {
			front = append(front, t)
			continue
		}
		rest = append(rest, t)
	}
	return append(front, rest...)
}
