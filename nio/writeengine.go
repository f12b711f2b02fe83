// Package nio implements the outward contract of the pending
// stream-write engine: add, mark-flush, trigger, fail-all. It owns a
// network.PendingState plus the loop-scoped scratch arrays and decides,
// on every drain attempt, whether to take the single-write, vectored-
// write, or file-region path.
package nio

import (
	"os"
	"sync/atomic"

	"github.com/Amonhen/swift-nio/internal/network"
)

// SingleOp attempts one contiguous write and reports what happened.
type SingleOp func(b []byte) (network.IOResult, error)

// FileOp performs a zero-copy transfer of file f's [begin, end) range.
type FileOp func(f *os.File, begin, end int64) (network.IOResult, error)

// Scratch is the pre-allocated iovec/storage-retention pair an event
// loop lends to whichever engine is currently draining. It is safe to
// share across every WriteEngine on one loop precisely because the loop
// is single-threaded and only one engine drains at a time.
type Scratch struct {
	iovecs [][]byte
	retain []*network.Buffer
}

// NewScratch allocates a Scratch sized to hold up to limitCount items.
func NewScratch(limitCount int) *Scratch {
	return &Scratch{
		iovecs: make([][]byte, limitCount),
		retain: make([]*network.Buffer, limitCount),
	}
}

// WriteEngine owns one connection's pending queue and drives it against
// caller-supplied syscall closures. All methods except IsWritable must
// be called from the owning event-loop goroutine.
type WriteEngine struct {
	pending  *network.PendingState
	scratch  *Scratch
	opts     Options
	writable atomic.Bool
	closed   bool
}

// NewWriteEngine builds an engine sharing scratch (typically lent by a
// Loop) and starting out writable, per opts.
func NewWriteEngine(scratch *Scratch, opts ...Option) *WriteEngine {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	if scratch == nil {
		scratch = NewScratch(o.vectorLimitCnt)
	}
	e := &WriteEngine{
		pending: network.NewPendingState(),
		scratch: scratch,
		opts:    o,
	}
	e.writable.Store(true)
	return e
}

// IsWritable is the sole method callable from any goroutine. Its
// observability across threads is only eventually consistent.
func (e *WriteEngine) IsWritable() bool {
	return e.writable.Load()
}

// PendingBytes reports bytes currently queued and not yet written.
func (e *WriteEngine) PendingBytes() int64 { return e.pending.Bytes() }

// PendingChunks reports the number of items currently queued.
func (e *WriteEngine) PendingChunks() int { return e.pending.Chunks() }

// SpinCount reports the configured per-Trigger drain iteration bound.
func (e *WriteEngine) SpinCount() int { return e.opts.writeSpinCount }

// WaterMarks reports the configured low/high writability thresholds.
func (e *WriteEngine) WaterMarks() (low, high int64) {
	return e.opts.lowWaterMark, e.opts.highWaterMark
}

// VectorLimits reports the configured writev count/byte limits.
func (e *WriteEngine) VectorLimits() (count int, bytes int64) {
	return e.opts.vectorLimitCnt, e.opts.vectorLimitByte
}

// Add appends item to the queue with an optional completion handle. It
// returns false exactly when this call pushed bytes over the high
// watermark and flipped writability from true to false.
func (e *WriteEngine) Add(item network.WriteItem, handle network.Handle) bool {
	assertOpen(e.closed, "add")
	e.pending.Append(item, handle)
	if e.pending.Bytes() > e.opts.highWaterMark {
		if e.writable.CompareAndSwap(true, false) {
			return false
		}
	}
	return true
}

// MarkFlushCheckpoint moves the flush mark to the current tail item.
func (e *WriteEngine) MarkFlushCheckpoint(handle network.Handle) {
	assertOpen(e.closed, "markFlushCheckpoint")
	e.pending.MarkFlushCheckpoint(handle)
}

// Trigger attempts to drain the flushed prefix of the queue, choosing
// the vectored path when at least two flushed items are both byte
// buffers and the single/file path otherwise. writabilityChanged is
// true iff the engine was not writable when Trigger was called and
// became writable during this drain.
func (e *WriteEngine) Trigger(single SingleOp, vector network.VectorOp, file FileOp) (network.WriteOutcome, bool, error) {
	assertOpen(e.closed, "trigger")
	wasWritable := e.IsWritable()

	outcome, err := e.drain(single, vector, file)
	if err != nil {
		return 0, false, err
	}

	changed := !wasWritable && e.IsWritable()
	return outcome, changed, nil
}

func (e *WriteEngine) drain(single SingleOp, vector network.VectorOp, file FileOp) (network.WriteOutcome, error) {
	if e.pending.Chunks() == 0 || e.pending.FlushedCount() == 0 {
		return network.NothingToBeWritten, nil
	}
	if e.pending.FlushedCount() >= 2 && bothHeadsAreBuffers(e.pending) {
		return e.drainVector(vector)
	}
	return e.drainSingle(single, file)
}

func bothHeadsAreBuffers(p *network.PendingState) bool {
	if p.Chunks() < 2 {
		return false
	}
	_, ok0 := p.At(0).(*network.Buffer)
	_, ok1 := p.At(1).(*network.Buffer)
	return ok0 && ok1
}

func (e *WriteEngine) drainSingle(single SingleOp, file FileOp) (network.WriteOutcome, error) {
	for spin := 0; spin < e.opts.writeSpinCount; spin++ {
		item := e.pending.At(0)

		var (
			result network.IOResult
			err    error
		)
		switch v := item.(type) {
		case *network.Buffer:
			result, err = single(v.Bytes())
		case *network.FileRegion:
			begin, end := v.Range()
			result, err = file(v.File, begin, end)
		default:
			panic("pending writes: unknown write item type")
		}
		if err != nil {
			return 0, err
		}

		fanout, outcome := e.pending.DidWrite(1, result)
		e.applyWatermark()
		fanout.Run()

		if outcome != network.WrittenPartially {
			return outcome, nil
		}
	}
	return network.WrittenPartially, nil
}

func (e *WriteEngine) drainVector(vector network.VectorOp) (network.WriteOutcome, error) {
	for spin := 0; spin < e.opts.writeSpinCount; spin++ {
		if e.closed {
			return network.Closed, nil
		}

		itemCount, result, err := network.Gather(
			e.pending, e.scratch.iovecs, e.scratch.retain,
			e.opts.vectorLimitCnt, e.opts.vectorLimitByte, vector,
		)
		if err != nil {
			return 0, err
		}

		fanout, outcome := e.pending.DidWrite(itemCount, result)
		e.applyWatermark()
		fanout.Run()

		if outcome != network.WrittenPartially {
			return outcome, nil
		}
	}
	return network.WrittenPartially, nil
}

func (e *WriteEngine) applyWatermark() {
	if e.pending.Bytes() < e.opts.lowWaterMark {
		e.writable.Store(true)
	}
}

// FailAll drains every remaining item and signals its handle with err,
// in order. When close is true the engine is marked closed and no
// further operations besides IsWritable are valid afterwards.
func (e *WriteEngine) FailAll(err error, close bool) {
	if close {
		assertOpen(e.closed, "failAll(close: true)")
		e.closed = true
	}
	fanout := e.pending.FailAll(err)
	fanout.Run()
	if e.pending.Chunks() != 0 {
		panic("pending writes: failAll left items queued")
	}
}

func assertOpen(closed bool, op string) {
	if closed {
		panic("pending writes: " + op + " called on a closed engine")
	}
}
