package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/importarr/internal/importer"
)

type fakePasser struct {
	calls atomic.Int32
	err   error
	done  chan struct{} // closed after the first pass
	once  atomic.Bool
}

func (f *fakePasser) Run(ctx context.Context) (*importer.Result, error) {
	f.calls.Add(1)
	if f.once.CompareAndSwap(false, true) {
		close(f.done)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &importer.Result{}, nil
}

func TestRunner_ImmediatePassThenCancel(t *testing.T) {
	p := &fakePasser{done: make(chan struct{})}
	r := NewRunner(p, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
		t.Fatal("first pass never ran")
	}
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestRunner_TicksRepeatedly(t *testing.T) {
	p := &fakePasser{done: make(chan struct{})}
	r := NewRunner(p, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, p.calls.Load(), int32(3))
}

func TestRunner_FailedPassKeepsGoing(t *testing.T) {
	p := &fakePasser{done: make(chan struct{}), err: errors.New("sonarr down")}
	r := NewRunner(p, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// Errors are logged, not fatal, so passes keep running
	assert.GreaterOrEqual(t, p.calls.Load(), int32(2))
}
