// File: tests/concurrent_submitters_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exercises concurrent submission from many goroutines against a single
// Context, coordinated with golang.org/x/sync/errgroup in place of a
// hand-rolled WaitGroup + error channel.

package tests

import (
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/jobsystem/api"
	"github.com/momentics/jobsystem/scheduler"
)

func TestMain_ConcurrentSubmittersShareOneContext(t *testing.T) {
	if err := scheduler.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer scheduler.Shutdown()

	const submitters = 16
	const perSubmitter = 500
	var count int64

	ctx := api.NewContext(api.Low)
	var g errgroup.Group
	for s := 0; s < submitters; s++ {
		g.Go(func() error {
			for i := 0; i < perSubmitter; i++ {
				scheduler.Execute(ctx, func(api.JobArguments) {
					atomic.AddInt64(&count, 1)
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("submitters: %v", err)
	}
	scheduler.Wait(ctx)

	want := int64(submitters * perSubmitter)
	if count != want {
		t.Fatalf("executed count = %d, want %d", count, want)
	}
	if ctx.IsBusy() {
		t.Fatalf("context still busy after Wait")
	}
}
