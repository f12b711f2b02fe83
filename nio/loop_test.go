package nio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Amonhen/swift-nio/internal/network"
)

func TestLoopScratchSizedToVectorLimit(t *testing.T) {
	l := NewLoop(16)
	if got := cap(l.Scratch().iovecs); got != 16 {
		t.Fatalf("expected scratch sized to 16, got %d", got)
	}
}

func TestLoopKickCoalescesBursts(t *testing.T) {
	l := NewLoop(4)
	l.Kick()
	l.Kick()
	l.Kick()
	select {
	case <-l.kick:
	default:
		t.Fatalf("expected at least one pending kick")
	}
	select {
	case <-l.kick:
		t.Fatalf("expected bursts of Kick to coalesce into a single pending wakeup")
	default:
	}
}

func TestLoopRunDrainsOnKickAndStopsOnCancel(t *testing.T) {
	l := NewLoop(4)
	e := NewWriteEngine(l.Scratch())

	h := &fakeHandleLoop{}
	e.Add(network.NewBuffer([]byte("hi")), h)
	e.MarkFlushCheckpoint(nil)

	single := func(b []byte) (network.IOResult, error) {
		return network.Processed(int64(len(b))), nil
	}
	vector := func(bufs [][]byte) (network.IOResult, error) {
		var n int64
		for _, b := range bufs {
			n += int64(len(b))
		}
		return network.Processed(n), nil
	}
	var mu sync.Mutex
	var events []network.WriteOutcome
	onEvent := func(outcome network.WriteOutcome, changed bool, err error) {
		mu.Lock()
		events = append(events, outcome)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, e, single, vector, nil, onEvent)
		close(done)
	}()

	l.Kick()

	deadline := time.After(time.Second)
waitLoop:
	for {
		mu.Lock()
		n := len(events)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for Trigger to run")
		default:
			time.Sleep(time.Millisecond)
			continue waitLoop
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for Run to return after cancel")
	}

	if !h.succeeded {
		t.Fatalf("expected handle to succeed after drain")
	}
}

func TestLoopRunStopsOnFatalError(t *testing.T) {
	l := NewLoop(4)
	e := NewWriteEngine(l.Scratch())
	e.Add(network.NewBuffer([]byte("hi")), nil)
	e.MarkFlushCheckpoint(nil)

	boom := errors.New("write failed")
	single := func(b []byte) (network.IOResult, error) {
		return network.IOResult{}, boom
	}
	vector := func(bufs [][]byte) (network.IOResult, error) {
		return network.IOResult{}, boom
	}

	var gotErr error
	onEvent := func(outcome network.WriteOutcome, changed bool, err error) {
		gotErr = err
	}

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		l.Run(ctx, e, single, vector, nil, onEvent)
		close(done)
	}()

	l.Kick()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for Run to return after fatal error")
	}
	if gotErr != boom {
		t.Fatalf("expected fatal error propagated to onEvent, got %v", gotErr)
	}
}

type fakeHandleLoop struct {
	succeeded bool
	failed    error
}

func (f *fakeHandleLoop) Succeed()             { f.succeeded = true }
func (f *fakeHandleLoop) Fail(err error)       { f.failed = err }
func (f *fakeHandleLoop) Cascade(_ network.Handle) {}
