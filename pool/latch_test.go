// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestLatchWaitZero(t *testing.T) {
	l := newCountDownLatch(defaultSpinBudget)
	l.Reset(0)

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return for a zero counter")
	}
}

func TestLatchCountDown(t *testing.T) {
	l := newCountDownLatch(defaultSpinBudget)
	l.Reset(3)

	for i := 0; i < 3; i++ {
		go l.CountDown()
	}

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after 3 count-downs")
	}
}

func TestLatchWaitReturnsOnlyWhenDrained(t *testing.T) {
	l := newCountDownLatch(time.Microsecond) // force the park path
	l.Reset(2)

	var downs atomic.Int32
	go func() {
		time.Sleep(10 * time.Millisecond)
		downs.Add(1)
		l.CountDown()
		time.Sleep(10 * time.Millisecond)
		downs.Add(1)
		l.CountDown()
	}()

	l.Wait()
	if got := downs.Load(); got != 2 {
		t.Errorf("Wait returned after %d count-downs, want 2", got)
	}
}

func TestLatchReuse(t *testing.T) {
	l := newCountDownLatch(defaultSpinBudget)
	for round := 0; round < 10; round++ {
		l.Reset(2)
		go l.CountDown()
		go l.CountDown()
		l.Wait()
	}
}

func TestSpinWaitObservesChange(t *testing.T) {
	var word atomic.Uint32
	go func() {
		time.Sleep(time.Millisecond)
		word.Store(42)
	}()

	got := spinWait(&word, 0, 5*time.Second)
	if got != 42 {
		t.Errorf("spinWait returned %d, want 42", got)
	}
}

func TestSpinWaitBudgetExpires(t *testing.T) {
	var word atomic.Uint32
	word.Store(7)

	start := time.Now()
	got := spinWait(&word, 7, 5*time.Millisecond)
	if got != 7 {
		t.Errorf("spinWait returned %d, want unchanged 7", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("spinWait took %v, want roughly the 5ms budget", elapsed)
	}
}
