// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import "github.com/Source-Authors/NvTriStrip/internal/arena"

// piece is a single cache-sized chunk of a committed strip, produced
// by Split and consumed by DropSmall/Optimize.
type piece struct {
	faces []arena.Handle
}

// OrderedPiece is a piece that has survived DropSmall and been placed
// in its final emission order by Optimize.
type OrderedPiece struct {
	Faces []arena.Handle
}

// Split chops each committed strip into pieces no larger than the
// cache's effective capacity (§4.5 step A). A degenerate swap face
// straddling a chop point is dropped from both sides: it only exists
// to bridge two real faces, and a chop already breaks that bridge.
func Split(t *Topology, strips []*StripInfo, cfg Config) []*piece {
	cacheSize := effectiveCacheSize(cfg.CacheSize)
	var pieces []*piece
	for _, s := range strips {
		faces := trimDegenerates(t, s.Faces, true, true)
		for len(faces) > 0 {
			n := cacheSize
			if n > len(faces) {
				n = len(faces)
			}
			chunk := trimDegenerates(t, faces[:n], false, true)
			rest := trimDegenerates(t, faces[n:], true, false)
			if len(chunk) > 0 {
				pieces = append(pieces, &piece{faces: append([]arena.Handle(nil), chunk...)})
			}
			faces = rest
		}
	}
	return pieces
}

// trimDegenerates strips leading and/or trailing runs of degenerate
// faces from faces.
func trimDegenerates(t *Topology, faces []arena.Handle, leading, trailing bool) []arena.Handle {
	lo, hi := 0, len(faces)
	if leading {
		for lo < hi && t.face(faces[lo]).degenerate() {
			lo++
		}
	}
	if trailing {
		for hi > lo && t.face(faces[hi-1]).degenerate() {
			hi--
		}
	}
	return faces[lo:hi]
}

func realTriCount(t *Topology, p *piece) int {
	n := 0
	for _, fh := range p.faces {
		if !t.face(fh).degenerate() {
			n++
		}
	}
	return n
}

// DropSmall removes pieces shorter than minTris, returning the
// remaining pieces plus the flattened leftover triangles (greedily
// reordered for cache locality, with degenerate faces discarded since
// a LIST group has no use for them).
func DropSmall(t *Topology, pieces []*piece, minTris, cacheSize int) (kept []*piece, leftover []arena.Handle) {
	var dropped []arena.Handle
	for _, p := range pieces {
		if realTriCount(t, p) < minTris {
			dropped = append(dropped, p.faces...)
			continue
		}
		kept = append(kept, p)
	}
	leftover = reorderLeftover(t, dropped, cacheSize)
	return kept, leftover
}

// reorderLeftover greedily orders real (non-degenerate) faces from
// dropped pieces to maximize post-transform cache hits, one face at a
// time, against a simulated cache of the given size.
func reorderLeftover(t *Topology, dropped []arena.Handle, cacheSize int) []arena.Handle {
	faces := make([]arena.Handle, 0, len(dropped))
	for _, fh := range dropped {
		if !t.face(fh).degenerate() {
			faces = append(faces, fh)
		}
	}
	if len(faces) == 0 {
		return nil
	}
	sim := NewCacheSim(cacheSize)
	used := make([]bool, len(faces))
	order := make([]arena.Handle, 0, len(faces))
	for remaining := len(faces); remaining > 0; remaining-- {
		best, bestHits := -1, -1
		for i, fh := range faces {
			if used[i] {
				continue
			}
			if hits := CalcNumHitsFace(sim, *t.face(fh)); hits > bestHits {
				best, bestHits = i, hits
			}
		}
		used[best] = true
		f := t.face(faces[best])
		for _, v := range f.V {
			sim.Touch(v)
		}
		order = append(order, faces[best])
	}
	return order
}

// CalcNumHitsStrip sums CalcNumHitsFace over every real face of a
// piece, approximating the total cache benefit of emitting it next.
func CalcNumHitsStrip(sim *CacheSim, t *Topology, p *piece) int {
	n := 0
	for _, fh := range p.faces {
		f := t.face(fh)
		if f.degenerate() {
			continue
		}
		n += CalcNumHitsFace(sim, *f)
	}
	return n
}

// pieceNeighborScore sums neighborCount across a piece's real faces:
// a low score means the piece sits mostly on the mesh boundary.
func pieceNeighborScore(t *Topology, p *piece) int {
	n := 0
	for _, fh := range p.faces {
		if t.face(fh).degenerate() {
			continue
		}
		n += t.neighborCount(fh)
	}
	return n
}

// pieceMatchesPolarity reports whether p's own real-face-count parity
// agrees with wantedCW: true for an even count when wantedCW is true,
// and for an odd count when wantedCW is false. Optimize uses it only
// to break ties between equally scored pieces (§4.5 step C.3).
func pieceMatchesPolarity(t *Topology, p *piece, wantedCW bool) bool {
	return (realTriCount(t, p)%2 == 0) == wantedCW
}

// Optimize reorders pieces for cache locality (§4.5 step C): it seeds
// the run from the most boundary-like piece, then repeatedly picks
// whichever remaining piece would score the most hits against the
// cache state built up so far, breaking ties in favor of the piece
// whose own face-count parity matches the running wanted polarity.
// wantedCW starts CW iff the first piece's real face count is even,
// and flips whenever the previously placed piece's real face count
// was odd.
func Optimize(t *Topology, pieces []*piece, cacheSize int) []*OrderedPiece {
	if len(pieces) == 0 {
		return nil
	}
	sim := NewCacheSim(cacheSize)
	used := make([]bool, len(pieces))

	start, bestScore := 0, -1
	for i, p := range pieces {
		if s := pieceNeighborScore(t, p); bestScore == -1 || s < bestScore {
			start, bestScore = i, s
		}
	}

	ordered := make([]*OrderedPiece, 0, len(pieces))
	wantedCW := realTriCount(t, pieces[start])%2 == 0
	cur := start
	for remaining := len(pieces); remaining > 0; remaining-- {
		used[cur] = true
		p := pieces[cur]
		for _, fh := range p.faces {
			f := t.face(fh)
			if f.degenerate() {
				continue
			}
			for _, v := range f.V {
				sim.Touch(v)
			}
		}
		ordered = append(ordered, &OrderedPiece{Faces: p.faces})
		if realTriCount(t, p)%2 != 0 {
			wantedCW = !wantedCW
		}
		if remaining == 1 {
			break
		}
		next, bestHits := -1, -1
		for i, pp := range pieces {
			if used[i] {
				continue
			}
			h := CalcNumHitsStrip(sim, t, pp)
			switch {
			case h > bestHits:
				next, bestHits = i, h
			case h == bestHits && next != -1 &&
				pieceMatchesPolarity(t, pp, wantedCW) && !pieceMatchesPolarity(t, pieces[next], wantedCW):
				next = i
			}
		}
		cur = next
	}
	return ordered
}
