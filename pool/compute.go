// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

// maxCostSingleThread is the work threshold (items x costPerItem) below
// which dispatch overhead exceeds the parallel win and the body runs
// inline on the caller.
const maxCostSingleThread = 100

// Compute1D evaluates body over the strided range [start, end) in
// parallel, slicing it into tiles of tileSize items. body receives the
// sub-range of each tile and the original step.
//
// A tileSize of 0 picks a default from the pool's tile target.
// costPerItem is a rough relative cost used to route small workloads
// inline; pass a negative value to force parallel dispatch.
func (p *Pool) Compute1D(body func(start, end, step int),
	start, end, step, tileSize, costPerItem int) {
	if start >= end {
		return
	}

	items := numItems(start, end, step)
	if len(p.infos) <= 1 || (costPerItem >= 0 && items*costPerItem < maxCostSingleThread) {
		body(start, end, step)
		return
	}

	if tileSize == 0 {
		tileSize = defaultTileSize1D(items, p.tileCount)
	}

	stepTileSize := step * tileSize
	tileCount := divUp(items, tileSize)

	p.Run(func(tileIdx int) {
		tileStart := start + tileIdx*stepTileSize
		tileEnd := min(end, tileStart+stepTileSize)
		body(tileStart, tileEnd, step)
	}, tileCount)
}

// Compute2D evaluates body over a 2D strided iteration space in parallel.
// Tiles are (tileSize0 x tileSize1) blocks of items; body receives the
// per-axis sub-ranges. A zero tile size on either axis picks defaults for
// both. costPerItem works as in Compute1D.
func (p *Pool) Compute2D(body func(start0, end0, step0, start1, end1, step1 int),
	start0, end0, step0,
	start1, end1, step1,
	tileSize0, tileSize1, costPerItem int) {
	if start0 >= end0 || start1 >= end1 {
		return
	}

	items0 := numItems(start0, end0, step0)
	items1 := numItems(start1, end1, step1)
	if len(p.infos) <= 1 || (costPerItem >= 0 && items0*items1*costPerItem < maxCostSingleThread) {
		body(start0, end0, step0, start1, end1, step1)
		return
	}

	if tileSize0 == 0 || tileSize1 == 0 {
		tileSize0, tileSize1 = defaultTileSizes2D(items0, items1, p.tileCount)
	}

	stepTileSize0 := step0 * tileSize0
	stepTileSize1 := step1 * tileSize1
	tileCount0 := divUp(items0, tileSize0)
	tileCount1 := divUp(items1, tileSize1)

	p.Run(func(tileIdx int) {
		tileIdx0 := tileIdx / tileCount1
		tileIdx1 := tileIdx - tileIdx0*tileCount1
		tileStart0 := start0 + tileIdx0*stepTileSize0
		tileEnd0 := min(end0, tileStart0+stepTileSize0)
		tileStart1 := start1 + tileIdx1*stepTileSize1
		tileEnd1 := min(end1, tileStart1+stepTileSize1)
		body(tileStart0, tileEnd0, step0, tileStart1, tileEnd1, step1)
	}, tileCount0*tileCount1)
}

// Compute3D evaluates body over a 3D strided iteration space in parallel.
// Zero tile sizes pick defaults for all three axes; costPerItem works as
// in Compute1D.
func (p *Pool) Compute3D(body func(start0, end0, step0, start1, end1, step1, start2, end2, step2 int),
	start0, end0, step0,
	start1, end1, step1,
	start2, end2, step2,
	tileSize0, tileSize1, tileSize2, costPerItem int) {
	if start0 >= end0 || start1 >= end1 || start2 >= end2 {
		return
	}

	items0 := numItems(start0, end0, step0)
	items1 := numItems(start1, end1, step1)
	items2 := numItems(start2, end2, step2)
	if len(p.infos) <= 1 || (costPerItem >= 0 && items0*items1*items2*costPerItem < maxCostSingleThread) {
		body(start0, end0, step0, start1, end1, step1, start2, end2, step2)
		return
	}

	if tileSize0 == 0 || tileSize1 == 0 || tileSize2 == 0 {
		tileSize0, tileSize1, tileSize2 = defaultTileSizes3D(items0, items1, items2, p.tileCount)
	}

	stepTileSize0 := step0 * tileSize0
	stepTileSize1 := step1 * tileSize1
	stepTileSize2 := step2 * tileSize2
	tileCount0 := divUp(items0, tileSize0)
	tileCount1 := divUp(items1, tileSize1)
	tileCount2 := divUp(items2, tileSize2)
	tileCount12 := tileCount1 * tileCount2

	p.Run(func(tileIdx int) {
		tileIdx0 := tileIdx / tileCount12
		tileIdx12 := tileIdx - tileIdx0*tileCount12
		tileIdx1 := tileIdx12 / tileCount2
		tileIdx2 := tileIdx12 - tileIdx1*tileCount2
		tileStart0 := start0 + tileIdx0*stepTileSize0
		tileEnd0 := min(end0, tileStart0+stepTileSize0)
		tileStart1 := start1 + tileIdx1*stepTileSize1
		tileEnd1 := min(end1, tileStart1+stepTileSize1)
		tileStart2 := start2 + tileIdx2*stepTileSize2
		tileEnd2 := min(end2, tileStart2+stepTileSize2)
		body(tileStart0, tileEnd0, step0,
			tileStart1, tileEnd1, step1,
			tileStart2, tileEnd2, step2)
	}, tileCount0*tileCount12)
}
