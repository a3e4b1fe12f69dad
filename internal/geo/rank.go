package geo

import (
	"sort"

	"cleanify-client/internal/model"
)

// Rank orders entities by their server-attached distance, nearest first.
// Entities that carry no distance sort ahead of everything so they stay
// visible rather than sinking to the bottom. With no reference point the
// server order is returned untouched. The input slice is never mutated.
//
// The sort is stable: equal distances keep their input order, so ranking
// an already ranked list is a fixed point.
func Rank[T model.Located](entities []T, reference *model.Point) []T {
	out := make([]T, len(entities))
	copy(out, entities)
	if reference == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, iok := out[i].Distance()
		dj, jok := out[j].Distance()
		if !iok || !jok {
			// unknown distance sorts first
			return !iok && jok
		}
		return di < dj
	})
	return out
}
