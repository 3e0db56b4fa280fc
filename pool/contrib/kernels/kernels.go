// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels holds the shared numeric type constraints for the
// contrib packages.
package kernels

// Floats covers the element types the contrib kernels operate on.
type Floats interface {
	~float32 | ~float64
}
