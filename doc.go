// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package tristrip converts indexed triangle meshes into
// post-transform-cache-friendly triangle strips.
//
// Stripify is the entry point. It builds a face/edge topology over
// the input indices, runs a heuristic experiment-driven search to
// grow candidate strip chains from a sequence of reset points, splits
// and reorders the winning chains against a simulated vertex cache,
// and emits the result as a slice of PrimitiveGroup values, each
// either a triangle strip or a flat triangle list.
//
// Callers that need every triangle re-addressed by a compact,
// first-touch vertex numbering (for example to split a mesh into
// cache-aligned vertex buffer chunks) can follow Stripify with Remap.
package tristrip
