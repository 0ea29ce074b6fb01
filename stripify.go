// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import (
	"fmt"

	"github.com/Source-Authors/NvTriStrip/internal/arena"
)

// Stripify converts an indexed triangle list into a cache-efficient
// sequence of PrimitiveGroup values. indices must hold one uint32 per
// triangle corner (len(indices) a multiple of 3); maxIndex must be
// greater than or equal to every value indices contains.
//
// The returned error, when non-nil, aggregates every non-fatal
// diagnostic encountered while processing indices (edges shared by
// more than two faces, triangles missing a vertex of the edge being
// walked); degenerate and duplicate input triangles are dropped
// without a diagnostic. It never
// indicates that groups is incomplete or unusable. Only a genuine API
// misuse — indices not a multiple of 3 — produces a nil groups and a
// non-aggregated primary error.
func Stripify(indices []uint32, maxIndex uint32, cfg Config) ([]PrimitiveGroup, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("tristrip: len(indices) = %d is not a multiple of 3", len(indices))
	}

	diag := newDiagnostics(cfg.Logger)

	if len(indices) == 0 {
		return nil, diag.errorOrNil()
	}

	topo := BuildTopology(indices, maxIndex, diag)
	strips := RunExperiments(topo, diag)

	pieces := Split(topo, strips, cfg)
	minTris := cfg.MinStripSize
	if minTris < 1 {
		minTris = 1
	}
	kept, leftover := DropSmall(topo, pieces, minTris, effectiveCacheSize(cfg.CacheSize))

	if cfg.ListsOnly {
		groups := []PrimitiveGroup{{Kind: LIST, Indices: flattenToList(topo, kept, leftover)}}
		return groups, diag.errorOrNil()
	}

	ordered := Optimize(topo, kept, effectiveCacheSize(cfg.CacheSize))

	groups := Emit(topo, ordered, leftover, cfg, diag)
	if groups == nil {
		groups = []PrimitiveGroup{}
	}
	return groups, diag.errorOrNil()
}

// flattenToList lays out every real (non-degenerate) triangle of
// every committed, surviving piece, in emission order, followed by
// every leftover triangle (§6.1: lists-only mode still runs the full
// pipeline, it just skips Optimize/Emit's strip-specific stitching and
// reports the same triangles as one flat LIST group).
func flattenToList(t *Topology, pieces []*piece, leftover []arena.Handle) []uint32 {
	var list []uint32
	for _, p := range pieces {
		for _, fh := range p.faces {
			f := t.face(fh)
			if f.degenerate() {
				continue
			}
			list = append(list, f.V[0], f.V[1], f.V[2])
		}
	}
	for _, fh := range leftover {
		f := t.face(fh)
		list = append(list, f.V[0], f.V[1], f.V[2])
	}
	return list
}
