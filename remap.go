// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

// Remap renumbers the vertices referenced by groups in first-touch
// order (the order each original index first appears while scanning
// groups front to back), compacting the range down to exactly the
// distinct indices actually used. It returns new PrimitiveGroup values
// referencing the compacted numbering, plus the inverse mapping: a
// slice of length len(newToOld) where newToOld[i] is the original
// index that now maps to i.
//
// vertexCount bounds the original indices: every value in groups must
// be less than vertexCount.
func Remap(groups []PrimitiveGroup, vertexCount int) (remapped []PrimitiveGroup, newToOld []int32) {
	oldToNew := make([]int32, vertexCount)
	for i := range oldToNew {
		oldToNew[i] = -1
	}

	remapped = make([]PrimitiveGroup, len(groups))
	for gi, g := range groups {
		out := make([]uint32, len(g.Indices))
		for i, idx := range g.Indices {
			n := oldToNew[idx]
			if n == -1 {
				n = int32(len(newToOld))
				oldToNew[idx] = n
				newToOld = append(newToOld, int32(idx))
			}
			out[i] = uint32(n)
		}
		remapped[gi] = PrimitiveGroup{Kind: g.Kind, Indices: out}
	}
	return remapped, newToOld
}
