// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

//go:build darwin

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxFreqPerCPU synthesizes a per-CPU frequency table from the Apple
// Silicon performance-level sysctls. macOS does not expose per-core clock
// rates, but core selection only needs relative order: performance levels
// are reported fastest first, so level 0 cores get the highest synthetic
// frequency. Intel Macs report a single level and come out homogeneous.
func maxFreqPerCPU() ([]float32, error) {
	levels, err := unix.SysctlUint32("hw.nperflevels")
	if err != nil || levels == 0 {
		// Single-level fallback: one entry per logical CPU, equal freq.
		ncpu, cpuErr := unix.SysctlUint32("hw.logicalcpu")
		if cpuErr != nil || ncpu == 0 {
			return nil, fmt.Errorf("pool: sysctl hw.logicalcpu: %w", cpuErr)
		}
		freqs := make([]float32, ncpu)
		for i := range freqs {
			freqs[i] = 1
		}
		return freqs, nil
	}

	var freqs []float32
	for level := uint32(0); level < levels; level++ {
		ncpu, err := unix.SysctlUint32(fmt.Sprintf("hw.perflevel%d.logicalcpu", level))
		if err != nil {
			return nil, fmt.Errorf("pool: sysctl hw.perflevel%d.logicalcpu: %w", level, err)
		}
		for i := uint32(0); i < ncpu; i++ {
			freqs = append(freqs, float32(levels-level))
		}
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("pool: perflevel sysctls reported no cpus")
	}
	return freqs, nil
}
