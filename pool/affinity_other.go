// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

//go:build !linux

package pool

import "errors"

var errAffinityUnsupported = errors.New("pool: cpu affinity not supported on this platform")

// setAffinity is a stub for platforms without thread affinity control.
// The pool logs the error and runs unpinned.
func setAffinity(cpus []int) error {
	return errAffinityUnsupported
}
