// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import (
	"github.com/Source-Authors/NvTriStrip/internal/arena"
)

// noStrip/noExperiment are the sentinel values of Face.StripID,
// Face.TestStripID and Face.ExperimentID meaning "unclaimed".
const (
	noStrip      = -1
	noExperiment = -1
)

// Face is an unordered triple of vertex indices, plus the mutable
// claim-tracking fields used by the strip search.
//
// A face is claimed by experiment e iff ExperimentID == e (regardless
// of which of e's strips holds it); it is permanently claimed iff
// StripID >= 0.
type Face struct {
	V [3]uint32

	StripID      int32
	TestStripID  int32
	ExperimentID int32
}

// degenerate reports whether f has two equal vertex indices.
// Real input faces are never degenerate (BuildTopology drops those);
// synthesized swap faces always are.
func (f Face) degenerate() bool {
	return f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[2] == f.V[0]
}

func newFace(v0, v1, v2 uint32) Face {
	return Face{V: [3]uint32{v0, v1, v2}, StripID: noStrip, TestStripID: noStrip, ExperimentID: noExperiment}
}

// thirdVertex returns the vertex of f that is neither a nor b.
// If f does not actually contain both a and b (a malformed-topology
// condition that should not arise for well-formed input), it logs a
// diagnostic and falls back to f.V[0].
func (f Face) thirdVertex(a, b uint32, diag *diagnostics) uint32 {
	hasA, hasB := false, false
	for _, v := range f.V {
		hasA = hasA || v == a
		hasB = hasB || v == b
	}
	if hasA && hasB {
		for _, v := range f.V {
			if v != a && v != b {
				return v
			}
		}
	}
	diag.warnf("triangle (%d,%d,%d) doesn't have all of its vertices for edge (%d,%d)", f.V[0], f.V[1], f.V[2], a, b)
	return f.V[0]
}

// Edge is an undirected pair of vertex indices with at most two
// incident faces. Edges are threaded into two singly-linked chains,
// one per endpoint, so that every edge incident on a given vertex can
// be enumerated by walking NextV0 (when the vertex is stored in V0)
// or NextV1 (when stored in V1).
type Edge struct {
	V0, V1 uint32

	Face0, Face1   arena.Handle
	NextV0, NextV1 arena.Handle
}

// Topology is the face/edge adjacency index built from a flat index
// array. It owns every Face and Edge created for one Stripify call,
// including the synthesized degenerate swap faces created later by
// strip construction (see StripInfo).
type Topology struct {
	faces *arena.Arena[Face]
	edges *arena.Arena[Edge]

	// vertHead[v] is the head of v's edge chain, or arena.None.
	vertHead []arena.Handle

	// numRealFaces is the number of faces appended by BuildTopology,
	// fixed before any experiment runs; it excludes faces synthesized
	// during strip construction.
	numRealFaces int
}

// BuildTopology scans indices (a flat list, three per triangle) and
// builds the face and edge tables. maxIndex must be the largest
// vertex index that appears in indices.
//
// Degenerate input triangles are skipped. An edge shared by more than
// two faces is a non-fatal diagnostic: the third (and further) face
// is dropped for adjacency purposes, though the triangle itself is
// still a face in the table.
func BuildTopology(indices []uint32, maxIndex uint32, diag *diagnostics) *Topology {
	t := &Topology{
		faces:    arena.New[Face](len(indices) / 3),
		edges:    arena.New[Edge](len(indices) / 2),
		vertHead: make([]arena.Handle, int(maxIndex)+1),
	}
	for i := range t.vertHead {
		t.vertHead[i] = arena.None
	}

	numTris := len(indices) / 3
	for i := 0; i < numTris; i++ {
		v0, v1, v2 := indices[3*i], indices[3*i+1], indices[3*i+2]
		t.addTriangle(v0, v1, v2, diag)
	}
	t.numRealFaces = t.faces.Len()
	return t
}

// addTriangle implements §4.1 of the stripifier design: edges are
// looked up before any of them are created or updated, so that the
// "did every edge already exist" signal used for duplicate-triangle
// detection reflects state prior to this triangle. Only then are the
// edges created or have their second face assigned. This ordering is
// load-bearing — collapsing the two passes breaks duplicate detection,
// which can only fire when all three edges pre-existed.
func (t *Topology) addTriangle(v0, v1, v2 uint32, diag *diagnostics) {
	if v0 == v1 || v1 == v2 || v2 == v0 {
		return
	}

	eh0, ex0 := t.findEdge(v0, v1)
	eh1, ex1 := t.findEdge(v1, v2)
	eh2, ex2 := t.findEdge(v2, v0)
	allExisted := ex0 && ex1 && ex2

	fh := t.faces.Append(newFace(v0, v1, v2))

	var touched []arena.Handle
	assign := func(eh arena.Handle, existed bool, a, b uint32) arena.Handle {
		if !existed {
			return t.newEdge(a, b, fh)
		}
		e := t.edges.Get(eh)
		switch {
		case e.Face1 == arena.None:
			e.Face1 = fh
			touched = append(touched, eh)
		case e.Face0 != fh && e.Face1 != fh:
			diag.warnf("edge (%d,%d) is shared by more than two faces; dropping the extra face for adjacency", a, b)
		}
		return eh
	}
	assign(eh0, ex0, v0, v1)
	assign(eh1, ex1, v1, v2)
	assign(eh2, ex2, v2, v0)

	if allExisted {
		if t.hasDuplicateFace(v0, v1, v2, fh) {
			for _, eh := range touched {
				t.edges.Get(eh).Face1 = arena.None
			}
			t.faces.PopLast()
		}
	}
}

// hasDuplicateFace reports whether any face other than exclude has
// the same vertex triple as (v0,v1,v2) up to cyclic rotation; a triple
// with the opposite winding does not count as a duplicate.
func (t *Topology) hasDuplicateFace(v0, v1, v2 uint32, exclude arena.Handle) bool {
	want := [3]uint32{v0, v1, v2}
	for i := 0; i < t.faces.Len(); i++ {
		h := arena.Handle(i)
		if h == exclude {
			continue
		}
		if sameTriangle(t.faces.Get(h).V, want) {
			return true
		}
	}
	return false
}

func sameTriangle(a, b [3]uint32) bool {
	for r := 0; r < 3; r++ {
		if a[0] == b[r] && a[1] == b[(r+1)%3] && a[2] == b[(r+2)%3] {
			return true
		}
	}
	return false
}

// newEdge creates a new edge between a and b owned by face, threading
// it onto the head of both vertices' chains.
func (t *Topology) newEdge(a, b uint32, face arena.Handle) arena.Handle {
	eh := t.edges.Append(Edge{
		V0: a, V1: b,
		Face0: face, Face1: arena.None,
		NextV0: t.vertHead[a], NextV1: t.vertHead[b],
	})
	t.vertHead[a] = eh
	t.vertHead[b] = eh
	return eh
}

// findEdge locates the edge between a and b, if any, by walking a's
// chain. It performs no mutation.
func (t *Topology) findEdge(a, b uint32) (arena.Handle, bool) {
	eh := t.vertHead[a]
	for eh != arena.None {
		e := t.edges.Get(eh)
		if (e.V0 == a && e.V1 == b) || (e.V0 == b && e.V1 == a) {
			return eh, true
		}
		if e.V0 == a {
			eh = e.NextV0
		} else {
			eh = e.NextV1
		}
	}
	return arena.None, false
}

// faceAcross returns the face on the other side of edge eh from from,
// if any.
func (t *Topology) faceAcross(eh arena.Handle, from arena.Handle) (arena.Handle, bool) {
	e := t.edges.Get(eh)
	switch {
	case e.Face0 == from:
		if e.Face1 == arena.None {
			return arena.None, false
		}
		return e.Face1, true
	case e.Face1 == from:
		if e.Face0 == arena.None {
			return arena.None, false
		}
		return e.Face0, true
	default:
		return arena.None, false
	}
}

// face returns a pointer to the face identified by h.
func (t *Topology) face(h arena.Handle) *Face { return t.faces.Get(h) }

// edge returns a pointer to the edge identified by h.
func (t *Topology) edge(h arena.Handle) *Edge { return t.edges.Get(h) }

// newDegenerate synthesizes a swap face (a,b,a). It is appended to
// the same face arena as real faces but is never linked into the
// edge table: its only purpose is to appear in a StripInfo's face
// list as a bridging marker consumed by the Emitter.
func (t *Topology) newDegenerate(a, b uint32) arena.Handle {
	return t.faces.Append(newFace(a, b, a))
}

// neighborCount returns the number of f's three edges that have a
// second incident face (i.e., are not on a mesh boundary).
func (t *Topology) neighborCount(fh arena.Handle) int {
	f := t.face(fh)
	n := 0
	for _, e := range [3][2]uint32{{f.V[0], f.V[1]}, {f.V[1], f.V[2]}, {f.V[2], f.V[0]}} {
		if eh, ok := t.findEdge(e[0], e[1]); ok {
			edge := t.edge(eh)
			if edge.Face0 != arena.None && edge.Face1 != arena.None {
				n++
			}
		}
	}
	return n
}
