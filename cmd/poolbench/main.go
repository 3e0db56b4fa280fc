// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

// poolbench inspects the host's CPU layout as the pool sees it and times
// dispatch over a synthetic workload, for tuning the spin budget and tile
// sizes on a given machine.
//
// Usage:
//
//	poolbench -threads 4 -policy big_only -iters 100000 -rounds 50
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-tilepool/pool"
)

var (
	threads = flag.Int("threads", 0, "Thread count hint (0 = GOMAXPROCS)")
	policy  = flag.String("policy", "none", "Affinity policy (none, big_only, little_only, high_performance, power_save)")
	iters   = flag.Int("iters", 1_000_000, "Iteration space per round")
	rounds  = flag.Int("rounds", 20, "Timed rounds")
	spin    = flag.Duration("spin", 0, "Spin budget override (0 = default)")
	verbose = flag.Bool("v", false, "Debug logging")
)

func parsePolicy(s string) (pool.AffinityPolicy, error) {
	for _, p := range []pool.AffinityPolicy{
		pool.AffinityNone,
		pool.AffinityBigOnly,
		pool.AffinityLittleOnly,
		pool.AffinityHighPerformance,
		pool.AffinityPowerSave,
	} {
		if p.String() == s {
			return p, nil
		}
	}
	return pool.AffinityNone, fmt.Errorf("unknown policy %q", s)
}

func main() {
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	affinity, err := parsePolicy(strings.ToLower(*policy))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	freqs, err := pool.MaxFreqPerCPU()
	if err != nil {
		log.WithError(err).Warn("cpu max frequencies unavailable; running unpinned")
	} else {
		fmt.Printf("cpu max frequencies: %v\n", freqs)
	}

	opts := []pool.Option{pool.WithLogger(log)}
	if *spin > 0 {
		opts = append(opts, pool.WithSpinBudget(*spin))
	}
	p := pool.New(*threads, affinity, opts...)
	p.Init()
	defer p.Close()

	fmt.Printf("policy=%s threads=%d default_tile_count=%d\n",
		affinity, p.NumThreads(), p.DefaultTileCount())

	data := make([]float64, *iters)
	for i := range data {
		data[i] = float64(i)
	}

	var best, total time.Duration
	for r := 0; r < *rounds; r++ {
		start := time.Now()
		p.Compute1D(func(s, e, st int) {
			for i := s; i < e; i += st {
				data[i] = math.Sqrt(data[i] + 1)
			}
		}, 0, *iters, 1, 0, 1)
		elapsed := time.Since(start)
		total += elapsed
		if best == 0 || elapsed < best {
			best = elapsed
		}
	}

	fmt.Printf("rounds=%d best=%v avg=%v (%.1f Melem/s best)\n",
		*rounds, best, total/time.Duration(*rounds),
		float64(*iters)/best.Seconds()/1e6)
}
