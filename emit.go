// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import "github.com/Source-Authors/NvTriStrip/internal/arena"

// isCW reports the expected winding sense of the triangle starting at
// a flat strip-buffer position: even positions keep the strip's base
// winding, odd positions are the implicit GPU-decode flip (spec
// §4.6's NextIsCW).
func isCW(pos int) bool { return pos%2 == 0 }

// exclusiveVertex returns the vertex of a not present in b, the
// vertex "left behind" when a and b share an edge.
func exclusiveVertex(a, b Face) (uint32, bool) {
	for _, v := range a.V {
		if v != b.V[0] && v != b.V[1] && v != b.V[2] {
			return v, true
		}
	}
	return 0, false
}

// rotateTo cyclically rotates v (preserving winding) so that want
// comes first.
func rotateTo(v [3]uint32, want uint32) (uint32, uint32, uint32) {
	for i := 0; i < 3; i++ {
		if v[i] == want {
			return v[i], v[(i+1)%3], v[(i+2)%3]
		}
	}
	return v[0], v[1], v[2]
}

// canonicalizeFirst picks the emission order of a piece's first
// triangle: the vertex exclusive to it (not shared with the second
// triangle) goes first, so the remaining two land last and match the
// shared edge nextVertex expects. The result always preserves the
// face's stored winding; a piece never needs to mirror its own
// content to satisfy a join's polarity, since Emit corrects polarity
// at the join with an extra tap instead (§4.6 step 3).
func canonicalizeFirst(t *Topology, faces []arena.Handle) (a, b, c uint32) {
	f0 := t.face(faces[0])
	a, b, c = f0.V[0], f0.V[1], f0.V[2]
	if len(faces) > 1 {
		f1 := t.face(faces[1])
		if uv, ok := exclusiveVertex(*f0, *f1); ok {
			a, b, c = rotateTo(f0.V, uv)
		}
	}
	return a, b, c
}

// nextVertex returns f's vertex not among the previous two emitted
// indices. Real faces contribute their genuine third vertex;
// synthesized degenerate faces (whose vertex set collapses to
// {last0, last1}) fall back to repeating last0, producing the
// intended zero-area bridge triangle.
func nextVertex(f Face, last0, last1 uint32) uint32 {
	for _, v := range f.V {
		if v != last0 && v != last1 {
			return v
		}
	}
	return last0
}

// emitPieceIndices walks a piece's face list into a flat strip index
// sequence, canonicalizing the first triangle and chaining every
// subsequent face off the previous two emitted indices.
func emitPieceIndices(t *Topology, faces []arena.Handle) []uint32 {
	if len(faces) == 0 {
		return nil
	}
	a, b, c := canonicalizeFirst(t, faces)
	out := make([]uint32, 0, len(faces)+2)
	out = append(out, a, b, c)
	last0, last1 := b, c
	for i := 1; i < len(faces); i++ {
		nv := nextVertex(*t.face(faces[i]), last0, last1)
		out = append(out, nv)
		last0, last1 = last1, nv
	}
	return out
}

// Emit turns ordered strip pieces and the leftover triangle list into
// the final PrimitiveGroup slice (§4.6). With cfg.StitchStrips, every
// piece after the first is bridged into the running STRIP group with
// a double-tap: one repeated copy of the outgoing piece's last index,
// then one repeated copy of the incoming piece's first index (v0).
// Because every stored face keeps its original, un-mirrored winding,
// the position the incoming triangle lands on after the double-tap
// decides whether that winding reads correctly; when it would not
// (the landing position is an implicit-flip position), a third tap
// of v0 shifts the landing position by one and fixes it. Without
// stitching, each piece becomes its own STRIP group and no tap is
// ever needed, since every group starts fresh at position 0. Unlike a
// flat-buffer sentinel convention, a PrimitiveGroup boundary is the
// separator, so no sentinel value is ever emitted.
func Emit(t *Topology, ordered []*OrderedPiece, leftover []arena.Handle, cfg Config, diag *diagnostics) []PrimitiveGroup {
	var groups []PrimitiveGroup

	if cfg.StitchStrips {
		var stitched []uint32
		for _, p := range ordered {
			idx := emitPieceIndices(t, p.Faces)
			if len(idx) == 0 {
				continue
			}
			if len(stitched) > 0 {
				landing := len(stitched) + 2
				stitched = append(stitched, stitched[len(stitched)-1], idx[0])
				if !isCW(landing) {
					stitched = append(stitched, idx[0])
				}
			}
			stitched = append(stitched, idx...)
		}
		if len(stitched) > 0 {
			groups = append(groups, PrimitiveGroup{Kind: STRIP, Indices: stitched})
		}
	} else {
		for _, p := range ordered {
			if idx := emitPieceIndices(t, p.Faces); len(idx) > 0 {
				groups = append(groups, PrimitiveGroup{Kind: STRIP, Indices: idx})
			}
		}
	}

	if len(leftover) > 0 {
		list := make([]uint32, 0, len(leftover)*3)
		for _, fh := range leftover {
			f := t.face(fh)
			list = append(list, f.V[0], f.V[1], f.V[2])
		}
		groups = append(groups, PrimitiveGroup{Kind: LIST, Indices: list})
	}

	return groups
}
