// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package pool

import "errors"

// maxFreqPerCPU is a stub for platforms without a frequency source. The
// pool logs the error and falls back to the caller's thread count hint.
func maxFreqPerCPU() ([]float32, error) {
	return nil, errors.New("pool: cpu max frequencies not available on this platform")
}
