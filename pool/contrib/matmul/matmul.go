// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

// Package matmul provides a tile-parallel matrix multiply built on the
// pool's 2D compute facade.
package matmul

import (
	"github.com/ajroetker/go-tilepool/pool"
	"github.com/ajroetker/go-tilepool/pool/contrib/kernels"
)

// minParallelOps is the minimum m*n*k before parallelizing. Below this the
// dispatch overhead dominates and the blocked kernel runs inline.
const minParallelOps = 64 * 64 * 64

// kBlock is the K-panel width of the blocked kernel, sized to keep the
// working set of one panel in L1.
const kBlock = 256

// MatMul computes C = A * B with a blocked scalar kernel.
//
//   - A is M x K (row-major)
//   - B is K x N (row-major)
//   - C is M x N (row-major), overwritten
func MatMul[T kernels.Floats](a, b, c []T, m, n, k int) {
	blockedMatMul(a, b, c, m, n, k, 0, m, 0, n)
}

// ParallelMatMul computes C = A * B, tiling the (M, N) output space across
// the pool. Small products run inline.
func ParallelMatMul[T kernels.Floats](p *pool.Pool, a, b, c []T, m, n, k int) {
	if p == nil || m*n*k < minParallelOps {
		MatMul(a, b, c, m, n, k)
		return
	}
	p.Compute2D(func(rs, re, _, cs, ce, _ int) {
		blockedMatMul(a, b, c, m, n, k, rs, re, cs, ce)
	}, 0, m, 1, 0, n, 1, 0, 0, k)
}

// blockedMatMul computes the C block [rowStart, rowEnd) x [colStart,
// colEnd), walking K in panels with an i-k-j loop order so the inner loop
// streams rows of B.
func blockedMatMul[T kernels.Floats](a, b, c []T, m, n, k, rowStart, rowEnd, colStart, colEnd int) {
	for i := rowStart; i < rowEnd; i++ {
		ci := c[i*n : (i+1)*n]
		for j := colStart; j < colEnd; j++ {
			ci[j] = 0
		}
		for k0 := 0; k0 < k; k0 += kBlock {
			kEnd := min(k0+kBlock, k)
			for kk := k0; kk < kEnd; kk++ {
				aik := a[i*k+kk]
				bk := b[kk*n : (kk+1)*n]
				for j := colStart; j < colEnd; j++ {
					ci[j] += aik * bk[j]
				}
			}
		}
	}
}
