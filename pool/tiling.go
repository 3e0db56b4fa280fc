// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

// Pure tile-size planning for the compute facades. The heuristics
// parallelize the outer axis first and fall through to inner axes only
// when the outer ones are too short to produce tileTarget tiles.

// numItems returns how many step-strided items the range [start, end)
// contains. Requires start < end and step > 0.
func numItems(start, end, step int) int {
	return 1 + (end-start-1)/step
}

func divUp(a, b int) int {
	return (a + b - 1) / b
}

// defaultTileSize1D slices items into roughly tileTarget tiles.
func defaultTileSize1D(items, tileTarget int) int {
	return max(1, items/tileTarget)
}

// defaultTileSizes2D returns (tileSize0, tileSize1). A long outer axis is
// sliced on its own; otherwise the outer axis degenerates to single rows
// and the inner axis absorbs the split.
func defaultTileSizes2D(items0, items1, tileTarget int) (int, int) {
	if items0 >= tileTarget {
		return items0 / tileTarget, items1
	}
	return 1, max(1, items1*items0/tileTarget)
}

// defaultTileSizes3D returns (tileSize0, tileSize1, tileSize2), slicing the
// outermost axis that is long enough.
func defaultTileSizes3D(items0, items1, items2, tileTarget int) (int, int, int) {
	if items0 >= tileTarget {
		return items0 / tileTarget, items1, items2
	}
	items01 := items1 * items0
	if items01 >= tileTarget {
		return 1, items01 / tileTarget, items2
	}
	return 1, 1, max(1, items01*items2/tileTarget)
}
