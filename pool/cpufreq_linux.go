// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

//go:build linux

package pool

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const sysCPUPath = "/sys/devices/system/cpu"

// maxFreqPerCPU reads each CPU's max frequency (in kHz) from sysfs. CPUs
// whose cpufreq directory is missing report 0, which still participates in
// relative ordering.
func maxFreqPerCPU() ([]float32, error) {
	var freqs []float32
	for cpu := 0; ; cpu++ {
		cpuDir := fmt.Sprintf("%s/cpu%d", sysCPUPath, cpu)
		if _, err := os.Stat(cpuDir); err != nil {
			break
		}
		freqs = append(freqs, readCPUMaxFreq(cpuDir))
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("pool: no cpus found under %s", sysCPUPath)
	}
	return freqs, nil
}

func readCPUMaxFreq(cpuDir string) float32 {
	for _, name := range []string{"cpuinfo_max_freq", "scaling_max_freq"} {
		data, err := os.ReadFile(cpuDir + "/cpufreq/" + name)
		if err != nil {
			continue
		}
		khz, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
		if err != nil {
			continue
		}
		return float32(khz)
	}
	return 0
}
