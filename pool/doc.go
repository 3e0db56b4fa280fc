// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

// Package pool provides a fixed-size, CPU-pinned worker pool for
// data-parallel numeric workloads on a single machine, including
// heterogeneous CPUs such as ARM big.LITTLE.
//
// A Pool is created once and reused across many operations. Workers are OS
// threads pinned according to an AffinityPolicy; work is distributed as
// contiguous index ranges that idle workers steal from their peers' tails,
// which keeps fast cores busy when slow cores fall behind. Wakeup uses a
// short busy spin before parking on a condition variable, so dispatching a
// microsecond-scale task does not pay the full park/unpark cost.
//
// Usage:
//
//	p := pool.New(0, pool.AffinityNone)
//	p.Init()
//	defer p.Close()
//
//	// Reuse the pool across many operations
//	for _, layer := range layers {
//	    p.Compute1D(func(start, end, step int) {
//	        processRows(start, end)
//	    }, 0, rows, 1, 0, costPerRow)
//	}
//
// The Compute1D, Compute2D and Compute3D facades slice 1D/2D/3D iteration
// spaces into tiles sized for the configured cores and run small workloads
// inline on the caller.
package pool
