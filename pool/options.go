// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Pool at construction.
type Option func(*Pool)

// WithLogger routes the pool's diagnostics through log instead of the
// logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// WithSpinBudget overrides the busy-spin budget used by the event wait and
// the latch wait before they park. The default is 2ms; exposed mainly for
// benchmarking the spin/park tradeoff.
func WithSpinBudget(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.spinBudget = d
		}
	}
}

// WithMaxFreqs supplies the per-CPU max frequency table directly instead
// of probing the platform. Index is the CPU id. Useful for tests,
// benchmarks, and hosts where the platform probe is known to lie.
func WithMaxFreqs(maxFreqs []float32) Option {
	return func(p *Pool) {
		p.maxFreqs = maxFreqs
	}
}
