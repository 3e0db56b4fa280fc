// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

//go:build linux

package pool

import "golang.org/x/sys/unix"

// setAffinity restricts the calling OS thread to the given CPU ids via
// sched_setaffinity(2) with pid 0.
func setAffinity(cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return unix.SchedSetaffinity(0, &set)
}
