// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import "github.com/Source-Authors/NvTriStrip/internal/arena"

// StartInfo identifies the seed face/edge a StripInfo grows from.
// ToV1 decides whether traversal of StartEdge goes v0→v1 (true) or
// v1→v0 (false).
type StartInfo struct {
	StartFace arena.Handle
	StartEdge arena.Handle
	ToV1      bool
}

// StripInfo is a provisional strip under construction (or, once
// committed, a finished one). Faces holds both real faces and any
// synthesized degenerate swap faces, in emit order (reversed backward
// growth, then forward growth).
type StripInfo struct {
	ID           int32
	ExperimentID int32
	Start        StartInfo

	Faces          []arena.Handle
	NumDegenerates int

	Visited bool
}

// edgeVerts returns the directed pair encoded by a StartInfo's
// StartEdge/ToV1.
func (t *Topology) edgeVerts(si StartInfo) (v0, v1 uint32) {
	e := t.edge(si.StartEdge)
	if si.ToV1 {
		return e.V0, e.V1
	}
	return e.V1, e.V0
}

// isClaimed reports whether face is permanently claimed by a
// committed strip, or provisionally claimed by experiment expID
// (any of its strips).
func (t *Topology) isClaimed(fh arena.Handle, expID int32) bool {
	f := t.face(fh)
	return f.StripID >= 0 || f.ExperimentID == expID
}

func (t *Topology) mark(fh arena.Handle, expID, testStripID int32) {
	f := t.face(fh)
	f.ExperimentID = expID
	f.TestStripID = testStripID
}

// hasFreeContinuation reports whether the face across edge (nv1,
// testnv1), starting from fromFace, exists and is unclaimed.
func (t *Topology) hasFreeContinuation(nv1, testnv1 uint32, fromFace arena.Handle, expID int32) bool {
	eh, ok := t.findEdge(nv1, testnv1)
	if !ok {
		return false
	}
	face, ok := t.faceAcross(eh, fromFace)
	if !ok {
		return false
	}
	return !t.isClaimed(face, expID)
}

// freeFaceAcross returns the unclaimed face across edge (a, b) from
// fromFace, if one exists.
func (t *Topology) freeFaceAcross(a, b uint32, fromFace arena.Handle, expID int32) (arena.Handle, bool) {
	eh, ok := t.findEdge(a, b)
	if !ok {
		return arena.None, false
	}
	face, ok := t.faceAcross(eh, fromFace)
	if !ok || t.isClaimed(face, expID) {
		return arena.None, false
	}
	return face, true
}

// BuildStrip grows a StripInfo from si: forward extension first
// (§4.3 step 2), then backward extension (§4.3 step 3), then combines
// the two into a single ordered face list (§4.3 step 4).
func BuildStrip(t *Topology, si StartInfo, expID, testStripID int32, diag *diagnostics) *StripInfo {
	strip := &StripInfo{ID: testStripID, ExperimentID: expID, Start: si}

	v0, v1 := t.edgeVerts(si)
	startFace := t.face(si.StartFace)
	v2 := startFace.thirdVertex(v0, v1, diag)

	t.mark(si.StartFace, expID, testStripID)
	fwd := []arena.Handle{si.StartFace}
	numDeg := 0

	nv0, nv1 := v1, v2
	tail := si.StartFace
	for {
		eh, ok := t.findEdge(nv0, nv1)
		if !ok {
			break
		}
		next, ok := t.faceAcross(eh, tail)
		if !ok || t.isClaimed(next, expID) {
			break
		}
		testnv1 := t.face(next).thirdVertex(nv0, nv1, diag)

		swapped := false
		if !t.hasFreeContinuation(nv1, testnv1, next, expID) {
			if _, ok := t.freeFaceAcross(nv0, testnv1, next, expID); ok {
				fwd = append(fwd, t.newDegenerate(nv0, nv1))
				numDeg++
				nv0, nv1 = nv0, testnv1
				swapped = true
			}
		}

		fwd = append(fwd, next)
		t.mark(next, expID, testStripID)
		tail = next
		if !swapped {
			nv0, nv1 = nv1, testnv1
		}
	}

	// Backward extension re-seeds with (v2, v1, v0).
	var bwd []arena.Handle
	nv0, nv1 = v1, v0
	tail = si.StartFace
	used := map[uint32]bool{v0: true, v1: true, v2: true}
	for _, fh := range fwd {
		for _, v := range t.face(fh).V {
			used[v] = true
		}
	}
	for {
		eh, ok := t.findEdge(nv0, nv1)
		if !ok {
			break
		}
		next, ok := t.faceAcross(eh, tail)
		if !ok || t.isClaimed(next, expID) {
			break
		}
		cand := t.face(next).V
		if used[cand[0]] && used[cand[1]] && used[cand[2]] {
			break
		}
		testnv1 := t.face(next).thirdVertex(nv0, nv1, diag)

		swapped := false
		if !t.hasFreeContinuation(nv1, testnv1, next, expID) {
			if _, ok := t.freeFaceAcross(nv0, testnv1, next, expID); ok {
				bwd = append(bwd, t.newDegenerate(nv0, nv1))
				numDeg++
				nv0, nv1 = nv0, testnv1
				swapped = true
			}
		}

		bwd = append(bwd, next)
		t.mark(next, expID, testStripID)
		used[cand[0]], used[cand[1]], used[cand[2]] = true, true, true
		tail = next
		if !swapped {
			nv0, nv1 = nv1, testnv1
		}
	}

	strip.Faces = make([]arena.Handle, 0, len(bwd)+len(fwd))
	for i := len(bwd) - 1; i >= 0; i-- {
		strip.Faces = append(strip.Faces, bwd[i])
	}
	strip.Faces = append(strip.Faces, fwd...)
	strip.NumDegenerates = numDeg
	return strip
}
