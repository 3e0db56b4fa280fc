// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

// MaxFreqPerCPU reports the maximum frequency of each logical CPU, indexed
// by CPU id. The unit is platform-dependent; only the relative order
// matters to core selection. Platforms without a usable source return an
// error, which the pool treats as "no affinity".
func MaxFreqPerCPU() ([]float32, error) {
	return maxFreqPerCPU()
}

// SetThreadAffinity pins the calling OS thread to the given CPU ids. Pin
// the goroutine with runtime.LockOSThread first or the mask outlives the
// goroutine's stay on that thread.
func SetThreadAffinity(cpus []int) error {
	return setAffinity(cpus)
}
