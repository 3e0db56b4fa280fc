// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumItems(t *testing.T) {
	assert.Equal(t, 10, numItems(0, 10, 1))
	assert.Equal(t, 4, numItems(0, 10, 3))
	assert.Equal(t, 1, numItems(0, 1, 1))
	assert.Equal(t, 14, numItems(3, 100, 7))
	assert.Equal(t, 1, numItems(5, 6, 100))
}

func TestDivUp(t *testing.T) {
	assert.Equal(t, 3, divUp(100, 37))
	assert.Equal(t, 1, divUp(1, 8))
	assert.Equal(t, 4, divUp(32, 8))
}

func TestDefaultTileSize1D(t *testing.T) {
	assert.Equal(t, 25, defaultTileSize1D(100, 4))
	// Fewer items than tiles still yields at least one item per tile.
	assert.Equal(t, 1, defaultTileSize1D(3, 8))
}

func TestDefaultTileSizes2D(t *testing.T) {
	// Long outer axis is sliced on its own; inner stays whole.
	t0, t1 := defaultTileSizes2D(64, 100, 8)
	assert.Equal(t, 8, t0)
	assert.Equal(t, 100, t1)

	// Short outer axis degenerates to single rows, the inner axis
	// absorbs the split: items0=3, items1=100, target 8 -> (1, 37),
	// giving 3 x ceil(100/37) = 9 tiles.
	t0, t1 = defaultTileSizes2D(3, 100, 8)
	assert.Equal(t, 1, t0)
	assert.Equal(t, 37, t1)
	assert.Equal(t, 3, divUp(3, t0))
	assert.Equal(t, 3, divUp(100, t1))

	// Degenerate: everything smaller than the target.
	t0, t1 = defaultTileSizes2D(2, 3, 16)
	assert.Equal(t, 1, t0)
	assert.Equal(t, 1, t1)
}

func TestDefaultTileSizes3D(t *testing.T) {
	// Long outer axis.
	t0, t1, t2 := defaultTileSizes3D(64, 5, 6, 8)
	assert.Equal(t, 8, t0)
	assert.Equal(t, 5, t1)
	assert.Equal(t, 6, t2)

	// Outer too short, middle absorbs the split.
	t0, t1, t2 = defaultTileSizes3D(2, 40, 6, 8)
	assert.Equal(t, 1, t0)
	assert.Equal(t, 10, t1)
	assert.Equal(t, 6, t2)

	// Only the inner axis is long enough.
	t0, t1, t2 = defaultTileSizes3D(2, 2, 100, 8)
	assert.Equal(t, 1, t0)
	assert.Equal(t, 1, t1)
	assert.Equal(t, 50, t2)

	// Degenerate: everything smaller than the target.
	t0, t1, t2 = defaultTileSizes3D(1, 2, 3, 100)
	assert.Equal(t, 1, t0)
	assert.Equal(t, 1, t1)
	assert.Equal(t, 1, t2)
}
