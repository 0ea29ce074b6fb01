// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheSimInsertEvicts(t *testing.T) {
	c := NewCacheSim(2)
	c.Insert(1)
	c.Insert(2)
	require.True(t, c.Contains(1))
	require.True(t, c.Contains(2))

	c.Insert(3)
	require.False(t, c.Contains(1), "oldest entry should have been evicted")
	require.True(t, c.Contains(2))
	require.True(t, c.Contains(3))
}

func TestCacheSimTouchIsIdempotentOnHit(t *testing.T) {
	c := NewCacheSim(3)
	c.Insert(1)
	c.Insert(2)
	require.True(t, c.Touch(1), "1 is already present")
	require.True(t, c.Contains(1))
	require.True(t, c.Contains(2))
}

func TestCacheSimCapacityClampedToOne(t *testing.T) {
	c := NewCacheSim(0)
	c.Insert(7)
	require.True(t, c.Contains(7))
	c.Insert(8)
	require.False(t, c.Contains(7))
}

func TestCalcNumHitsFace(t *testing.T) {
	c := NewCacheSim(8)
	c.Insert(1)
	c.Insert(2)
	f := newFace(1, 2, 3)
	require.Equal(t, 2, CalcNumHitsFace(c, f))
}

func TestEffectiveCacheSize(t *testing.T) {
	require.Equal(t, 10, effectiveCacheSize(16))
	require.Equal(t, 1, effectiveCacheSize(3))
	require.Equal(t, 1, effectiveCacheSize(-5))
}
