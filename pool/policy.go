// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import "sort"

// AffinityPolicy expresses caller intent for mapping worker threads to CPU
// classes on heterogeneous processors (big/little/any).
type AffinityPolicy int

const (
	// AffinityNone leaves thread placement to the OS scheduler.
	AffinityNone AffinityPolicy = iota

	// AffinityBigOnly restricts workers to the cores sharing the highest
	// max frequency.
	AffinityBigOnly

	// AffinityLittleOnly restricts workers to the cores sharing the lowest
	// max frequency.
	AffinityLittleOnly

	// AffinityHighPerformance prefers the fastest cores but does not
	// restrict the count beyond the thread count.
	AffinityHighPerformance

	// AffinityPowerSave prefers the slowest cores.
	AffinityPowerSave
)

// String returns a human-readable name for the policy.
func (p AffinityPolicy) String() string {
	switch p {
	case AffinityNone:
		return "none"
	case AffinityBigOnly:
		return "big_only"
	case AffinityLittleOnly:
		return "little_only"
	case AffinityHighPerformance:
		return "high_performance"
	case AffinityPowerSave:
		return "power_save"
	}
	return "unknown"
}

type cpuFreq struct {
	core int
	freq float32
}

// coresToUse selects which CPU cores worker threads should be pinned to,
// ordered by preference under the given policy. The result is empty when no
// pinning should happen (AffinityNone or an unknown frequency table).
// Frequency ties keep the original core order.
func coresToUse(maxFreqs []float32, policy AffinityPolicy, threadCount int) []int {
	if len(maxFreqs) == 0 || policy == AffinityNone {
		return nil
	}

	freqs := make([]cpuFreq, len(maxFreqs))
	for i, f := range maxFreqs {
		freqs[i] = cpuFreq{core: i, freq: f}
	}
	switch policy {
	case AffinityPowerSave, AffinityLittleOnly:
		sort.SliceStable(freqs, func(i, j int) bool {
			return freqs[i].freq < freqs[j].freq
		})
	case AffinityHighPerformance, AffinityBigOnly:
		sort.SliceStable(freqs, func(i, j int) bool {
			return freqs[i].freq > freqs[j].freq
		})
	}

	count := threadCount
	if policy == AffinityBigOnly || policy == AffinityLittleOnly {
		// Only the cores sharing the extreme frequency qualify.
		count = 0
		for _, f := range freqs {
			if f.freq != freqs[0].freq {
				break
			}
			count++
		}
	}
	if count > len(freqs) {
		count = len(freqs)
	}
	if count <= 0 {
		panic("pool: number of cores to use should be > 0")
	}

	cores := make([]int, count)
	for i := range cores {
		cores[i] = freqs[i].core
	}
	return cores
}

// tileCountPerThread is the tile multiplier on heterogeneous cores. Coarser
// oversubscription leaves tails for fast cores to steal.
const tileCountPerThread = 2

// defaultTileCount is the heuristic tile target used by the compute facades
// when the caller leaves a tile size at zero: one tile per thread on a
// homogeneous machine, two per thread when at least two cores are pinned on
// a machine whose CPUs span more than one max frequency.
func defaultTileCount(maxFreqs []float32, cores []int, threadCount int) int {
	tiles := threadCount
	if len(cores) >= 2 && heterogeneous(maxFreqs) {
		tiles = threadCount * tileCountPerThread
	}
	if tiles <= 0 {
		panic("pool: default tile count should be > 0")
	}
	return tiles
}

// heterogeneous reports whether the frequency table spans more than one
// max frequency, i.e. the machine has distinct core classes.
func heterogeneous(maxFreqs []float32) bool {
	if len(maxFreqs) < 2 {
		return false
	}
	for _, f := range maxFreqs[1:] {
		if f != maxFreqs[0] {
			return true
		}
	}
	return false
}
