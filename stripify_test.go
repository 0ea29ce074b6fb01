// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/Source-Authors/NvTriStrip"
)

func TestStripifyRejectsMalformedInput(t *testing.T) {
	_, err := tristrip.Stripify([]uint32{0, 1}, 1, tristrip.DefaultConfig())
	require.Error(t, err)
}

func TestStripifyEmptyInput(t *testing.T) {
	groups, err := tristrip.Stripify(nil, 0, tristrip.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestStripifySingleTriangle(t *testing.T) {
	groups, err := tristrip.Stripify([]uint32{0, 1, 2}, 2, tristrip.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, tristrip.STRIP, groups[0].Kind)
	require.Equal(t, 1, groups[0].TriCount())
}

// TestStripifyListsOnlyRunsFullPipeline checks the ListsOnly output
// of the full pipeline (§6.1): a single LIST group, with no degenerate
// filler, holding exactly the input's triangles as a multiset. It does
// not check the order of those triangles.
func TestStripifyListsOnlyRunsFullPipeline(t *testing.T) {
	indices := gridIndices()
	cfg := tristrip.DefaultConfig()
	cfg.ListsOnly = true
	groups, err := tristrip.Stripify(indices, 8, cfg)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, tristrip.LIST, groups[0].Kind)
	require.Equal(t, len(indices), len(groups[0].Indices), "no degenerate filler belongs in a lists-only group")

	var want [][3]uint32
	for i := 0; i+3 <= len(indices); i += 3 {
		want = append(want, sortedTriangle(indices[i], indices[i+1], indices[i+2]))
	}
	got := decodeTriangles(groups[0])
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(triangleLess)); diff != "" {
		t.Fatalf("lists-only triangle multiset mismatch (-want +got):\n%s", diff)
	}
}

// gridIndices tiles a 3x3 vertex grid (2x2 quads, 8 triangles).
func gridIndices() []uint32 {
	idx := func(x, y int) uint32 { return uint32(y*3 + x) }
	var out []uint32
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			a, b, c, d := idx(x, y), idx(x+1, y), idx(x, y+1), idx(x+1, y+1)
			out = append(out, a, b, c, b, d, c)
		}
	}
	return out
}

func totalTriangles(groups []tristrip.PrimitiveGroup) int {
	n := 0
	for _, g := range groups {
		n += g.TriCount()
	}
	return n
}

func TestStripifyPreservesTriangleCount(t *testing.T) {
	indices := gridIndices()
	wantTris := len(indices) / 3

	for _, cfg := range []tristrip.Config{
		tristrip.DefaultConfig(),
		func() tristrip.Config { c := tristrip.DefaultConfig(); c.StitchStrips = false; return c }(),
		func() tristrip.Config { c := tristrip.DefaultConfig(); c.CacheSize = 4; return c }(),
		func() tristrip.Config { c := tristrip.DefaultConfig(); c.MinStripSize = 100; return c }(),
	} {
		groups, err := tristrip.Stripify(indices, 8, cfg)
		require.NoError(t, err)
		require.Equal(t, wantTris, totalTriangles(groups))
	}
}

func TestStripifyThenRemapCompactsVertexRange(t *testing.T) {
	indices := gridIndices()
	groups, err := tristrip.Stripify(indices, 8, tristrip.DefaultConfig())
	require.NoError(t, err)

	remapped, newToOld := tristrip.Remap(groups, 9)
	require.Equal(t, totalTriangles(groups), totalTriangles(remapped))

	maxNew := -1
	for _, g := range remapped {
		for _, v := range g.Indices {
			if int(v) > maxNew {
				maxNew = int(v)
			}
		}
	}
	require.Equal(t, len(newToOld)-1, maxNew)
}

// sortedTriangle returns the vertex triple of a triangle in a
// canonical, winding-independent order, for multiset comparisons.
func sortedTriangle(a, b, c uint32) [3]uint32 {
	s := [3]uint32{a, b, c}
	sort.Slice(s[:], func(i, j int) bool { return s[i] < s[j] })
	return s
}

// decodeTriangles flattens a PrimitiveGroup's triangles (skipping
// zero-area triangles produced by strip decoding) into canonical
// vertex triples.
func decodeTriangles(g tristrip.PrimitiveGroup) [][3]uint32 {
	var tris [][3]uint32
	switch g.Kind {
	case tristrip.LIST:
		for i := 0; i+3 <= len(g.Indices); i += 3 {
			tris = append(tris, sortedTriangle(g.Indices[i], g.Indices[i+1], g.Indices[i+2]))
		}
	case tristrip.STRIP:
		for i := 0; i+3 <= len(g.Indices); i++ {
			a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
			if a == b || b == c || c == a {
				continue
			}
			tris = append(tris, sortedTriangle(a, b, c))
		}
	}
	return tris
}

// triangleLess orders canonical vertex triples for cmpopts.SortSlices
// comparisons.
func triangleLess(a, b [3]uint32) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// TestStripifyCoversExactlyTheInputTriangles checks, order- and
// winding-insensitively, that the stripified output contains exactly
// the same multiset of triangles as the input, with nothing dropped,
// duplicated, or invented.
func TestStripifyCoversExactlyTheInputTriangles(t *testing.T) {
	indices := gridIndices()
	var want [][3]uint32
	for i := 0; i+3 <= len(indices); i += 3 {
		want = append(want, sortedTriangle(indices[i], indices[i+1], indices[i+2]))
	}

	groups, err := tristrip.Stripify(indices, 8, tristrip.DefaultConfig())
	require.NoError(t, err)

	var got [][3]uint32
	for _, g := range groups {
		got = append(got, decodeTriangles(g)...)
	}

	if diff := cmp.Diff(want, got, cmpopts.SortSlices(triangleLess)); diff != "" {
		t.Fatalf("triangle multiset mismatch (-want +got):\n%s", diff)
	}
}

// decodeOrientedStripTriangles decodes a STRIP group the same way
// decodeTriangles does, but keeps the vertex order a consuming GPU
// would actually see: a triangle at an odd strip position has its
// first two indices swapped before being read, since consecutive
// strip triangles alternate handedness by construction. Used where a
// test must check winding, not just triangle identity.
func decodeOrientedStripTriangles(g tristrip.PrimitiveGroup) [][3]uint32 {
	var tris [][3]uint32
	for i := 0; i+3 <= len(g.Indices); i++ {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if a == b || b == c || c == a {
			continue
		}
		if i%2 != 0 {
			a, b = b, a
		}
		tris = append(tris, [3]uint32{a, b, c})
	}
	return tris
}

// containsRotation reports whether tris contains (a,b,c) under any of
// its three cyclic rotations, i.e. the same triangle with the same
// winding but not necessarily the same starting vertex.
func containsRotation(tris [][3]uint32, a, b, c uint32) bool {
	for _, want := range [][3]uint32{{a, b, c}, {b, c, a}, {c, a, b}} {
		for _, got := range tris {
			if got == want {
				return true
			}
		}
	}
	return false
}

// TestStripifyStitchedDisjointTrianglesPreserveWindingAndCoverage
// covers spec scenario 5: two triangles with no shared edge, forced
// into separate pieces, stitched into one STRIP group. Decodes the
// actual buffer (not just TriCount) to check that exactly the two
// real triangles survive, with no phantom triangle invented by the
// stitch bridge and no reversed winding.
func TestStripifyStitchedDisjointTrianglesPreserveWindingAndCoverage(t *testing.T) {
	indices := []uint32{0, 1, 2, 3, 4, 5}
	cfg := tristrip.DefaultConfig()
	cfg.StitchStrips = true

	groups, err := tristrip.Stripify(indices, 5, cfg)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, tristrip.STRIP, groups[0].Kind)

	got := decodeOrientedStripTriangles(groups[0])
	require.Len(t, got, 2, "exactly the two real triangles should survive, no phantom triangle from the stitch bridge")
	require.True(t, containsRotation(got, 0, 1, 2), "triangle (0,1,2) must survive with its original winding")
	require.True(t, containsRotation(got, 3, 4, 5), "triangle (3,4,5) must survive with its original winding")
}
