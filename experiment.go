// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import (
	"math"

	"github.com/Source-Authors/NvTriStrip/internal/arena"
	"github.com/Source-Authors/NvTriStrip/internal/bitm"
)

// numSamples is the number of reset-point faces collected per round.
const numSamples = 10

// RunExperiments is the outer heuristic search (§4.4): it repeatedly
// picks reset-point faces, grows six candidate strip chains per
// reset point, commits the best chain, and discards the rest, until
// a round produces no fresh seed. It returns the committed strips in
// commit order.
func RunExperiments(t *Topology, diag *diagnostics) []*StripInfo {
	numFaces := t.numRealFaces
	if numFaces == 0 {
		return nil
	}

	claimedPerm := func(fh arena.Handle) bool { return t.face(fh).StripID >= 0 }

	firstPick := true
	meshJump := 0.0
	var expCounter int32
	var stripCounter int32
	var committed []*StripInfo

	// reserved tracks, within a single round, which faces have already
	// been handed out as seeds, so the pseudo-random probe never
	// collects the same face twice before any of them commit.
	var reserved bitm.Bitm[uint64]
	reserved.Grow((numFaces + 63) / 64)

	for {
		reserved.Clear()
		var seeds []arena.Handle
		for len(seeds) < numSamples {
			var seed arena.Handle
			var ok bool
			if firstPick {
				seed, ok = findStartPoint(t, numFaces, claimedPerm)
				firstPick = false
			} else {
				idx := int(math.Floor(float64(numFaces-1) * meshJump))
				meshJump += 0.1
				if meshJump > 1.0 {
					meshJump = 0.05
				}
				seed, ok = probeSeed(numFaces, idx, &reserved, claimedPerm)
			}
			if !ok {
				break
			}
			seeds = append(seeds, seed)
			reserved.Set(int(seed))
		}
		if len(seeds) == 0 {
			break
		}

		for _, seed := range seeds {
			if claimedPerm(seed) {
				// Claimed by an earlier seed's commit within this round.
				continue
			}
			chain := bestChainForSeed(t, seed, &expCounter, diag)
			if len(chain) == 0 {
				continue
			}
			for _, s := range chain {
				s.ExperimentID = noExperiment
				s.ID = stripCounter
				stripCounter++
				for _, fh := range s.Faces {
					t.face(fh).StripID = s.ID
				}
			}
			committed = append(committed, chain...)
		}
	}
	return committed
}

// findStartPoint implements FindStartPoint: the unclaimed face with
// fewest adjacent faces (preferring a mesh boundary), ties broken by
// lowest index. It returns ok == false only when every face is
// claimed; a face with full adjacency is still returned when no
// unclaimed face has fewer neighbors.
func findStartPoint(t *Topology, numFaces int, claimed func(arena.Handle) bool) (arena.Handle, bool) {
	best := arena.None
	bestCount := -1
	for i := 0; i < numFaces; i++ {
		fh := arena.Handle(i)
		if claimed(fh) {
			continue
		}
		n := t.neighborCount(fh)
		if best == arena.None || n < bestCount {
			best, bestCount = fh, n
		}
	}
	return best, best != arena.None
}

// probeSeed implements the pseudo-random reset-point selection: start
// at idx and linearly probe forward (with wrap) for the next face
// that is neither permanently claimed nor reserved by this round's
// collection so far.
func probeSeed(numFaces, idx int, reserved *bitm.Bitm[uint64], claimed func(arena.Handle) bool) (arena.Handle, bool) {
	for i := 0; i < numFaces; i++ {
		fh := arena.Handle((idx + i) % numFaces)
		if claimed(fh) || reserved.IsSet(int(fh)) {
			continue
		}
		return fh, true
	}
	return arena.None, false
}

// sixDirectedEdges returns the six StartInfo values for seed, one per
// directed edge of its vertex triple (01, 10, 12, 21, 20, 02).
func sixDirectedEdges(t *Topology, seed arena.Handle) []StartInfo {
	v := t.face(seed).V
	pairs := [6][2]uint32{
		{v[0], v[1]}, {v[1], v[0]},
		{v[1], v[2]}, {v[2], v[1]},
		{v[2], v[0]}, {v[0], v[2]},
	}
	out := make([]StartInfo, 0, 6)
	for _, p := range pairs {
		eh, ok := t.findEdge(p[0], p[1])
		if !ok {
			continue
		}
		out = append(out, StartInfo{StartFace: seed, StartEdge: eh, ToV1: t.edge(eh).V0 == p[0]})
	}
	return out
}

// bestChainForSeed spawns the six directed experiments for seed,
// scores each, and returns the winning chain. Losing chains are
// simply dropped; their synthesized degenerate faces stay in the
// topology's face arena, referenced by no strip, until the Topology
// itself is released.
func bestChainForSeed(t *Topology, seed arena.Handle, expCounter *int32, diag *diagnostics) []*StripInfo {
	dirs := sixDirectedEdges(t, seed)
	if len(dirs) == 0 {
		return nil
	}
	chains := make([][]*StripInfo, len(dirs))
	scores := make([]float64, len(dirs))
	for i, d := range dirs {
		id := *expCounter
		*expCounter++
		chains[i] = buildExperimentChain(t, d, id, diag)
		scores[i] = scoreChain(chains[i])
	}
	best := 0
	for i := 1; i < len(chains); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return chains[best]
}

// buildExperimentChain grows strips from start, following
// FindTraversal until it fails to locate a continuation.
func buildExperimentChain(t *Topology, start StartInfo, expID int32, diag *diagnostics) []*StripInfo {
	var chain []*StripInfo
	si := start
	var testStripID int32
	for {
		strip := BuildStrip(t, si, expID, testStripID, diag)
		chain = append(chain, strip)
		next, ok := findTraversal(t, strip, expID)
		if !ok {
			break
		}
		testStripID++
		si = next
	}
	return chain
}

// scoreChain computes avgStripSize: (total faces - total synthesized
// degenerates) / number of strips.
func scoreChain(chain []*StripInfo) float64 {
	if len(chain) == 0 {
		return 0
	}
	var totalFaces, totalDeg int
	for _, s := range chain {
		totalFaces += len(s.Faces)
		totalDeg += s.NumDegenerates
	}
	return float64(totalFaces-totalDeg) / float64(len(chain))
}

// findTraversal implements FindTraversal: from strip's exit vertex,
// walk its edge chain for an edge splitting into one face already in
// strip and one unclaimed face, and return a StartInfo continuing the
// chain from there.
func findTraversal(t *Topology, strip *StripInfo, expID int32) (StartInfo, bool) {
	var exitVertex uint32
	startEdge := t.edge(strip.Start.StartEdge)
	if strip.Start.ToV1 {
		exitVertex = startEdge.V1
	} else {
		exitVertex = startEdge.V0
	}

	inStrip := func(fh arena.Handle) bool {
		f := t.face(fh)
		return f.ExperimentID == expID && f.TestStripID == strip.ID
	}

	eh := t.vertHead[exitVertex]
	for eh != arena.None {
		e := t.edge(eh)
		if e.Face0 != arena.None && e.Face1 != arena.None {
			var other arena.Handle
			var found bool
			switch {
			case inStrip(e.Face0) && !t.isClaimed(e.Face1, expID):
				other, found = e.Face1, true
			case inStrip(e.Face1) && !t.isClaimed(e.Face0, expID):
				other, found = e.Face0, true
			}
			if found {
				return StartInfo{StartFace: other, StartEdge: eh, ToV1: e.V0 == exitVertex}, true
			}
		}
		if e.V0 == exitVertex {
			eh = e.NextV0
		} else {
			eh = e.NextV1
		}
	}
	return StartInfo{}, false
}
