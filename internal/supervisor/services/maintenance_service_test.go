// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type fakeCleaner struct {
	interval atomic.Int64
}

func (f *fakeCleaner) RunCacheCleanup(ctx context.Context, interval time.Duration) {
	f.interval.Store(int64(interval))
	<-ctx.Done()
}

type fakeGC struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGC) RunGC() error {
	f.calls.Add(1)
	return f.err
}

func TestMaintenanceServices_Interface(t *testing.T) {
	var _ suture.Service = (*CacheCleanupService)(nil)
	var _ suture.Service = (*StoreGCService)(nil)
}

func TestCacheCleanupService(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{name: "explicit interval", interval: 5 * time.Second, want: 5 * time.Second},
		{name: "default interval", interval: 0, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := &fakeCleaner{}
			svc := NewCacheCleanupService(cleaner, tt.interval)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
			}
			if got := time.Duration(cleaner.interval.Load()); got != tt.want {
				t.Errorf("interval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreGCService(t *testing.T) {
	t.Run("runs on every tick", func(t *testing.T) {
		gc := &fakeGC{}
		svc := NewStoreGCService(gc, 10*time.Millisecond, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
		}
		if gc.calls.Load() < 2 {
			t.Errorf("RunGC called %d times, want at least 2", gc.calls.Load())
		}
	})

	t.Run("keeps running after a failure", func(t *testing.T) {
		gc := &fakeGC{err: errors.New("disk full")}
		svc := NewStoreGCService(gc, 10*time.Millisecond, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
		}
		if gc.calls.Load() < 2 {
			t.Errorf("RunGC called %d times, want at least 2", gc.calls.Load())
		}
	})

	t.Run("default interval", func(t *testing.T) {
		svc := NewStoreGCService(&fakeGC{}, 0, zerolog.Nop())
		if svc.interval != 10*time.Minute {
			t.Errorf("interval = %v, want 10m", svc.interval)
		}
		if svc.String() != "store-gc" {
			t.Errorf("String() = %q, want store-gc", svc.String())
		}
	})
}
