package network

// entry pairs a queued WriteItem with its optional completion handle.
type entry struct {
	item   WriteItem
	handle Handle
}

// PendingState is the ordered queue of outstanding write items, plus a
// movable flush mark; its byte and chunk totals are computed from the
// queue on demand. It is a pure data
// structure: no syscalls, no goroutines, no locking. Callers (WriteEngine)
// are responsible for confining access to a single goroutine.
type PendingState struct {
	q         []entry
	flushMark int // index of the last flushed item, or -1 if unset
}

// NewPendingState returns an empty queue.
func NewPendingState() *PendingState {
	return &PendingState{flushMark: -1}
}

// Chunks is the number of items currently queued.
func (p *PendingState) Chunks() int { return len(p.q) }

// Bytes is the sum of remaining bytes across all queued items.
func (p *PendingState) Bytes() int64 {
	var total int64
	for i := range p.q {
		total += p.q[i].item.Remaining()
	}
	return total
}

// FlushMarkIndex returns the current flush mark and whether it is set.
func (p *PendingState) FlushMarkIndex() (int, bool) {
	if p.flushMark < 0 {
		return 0, false
	}
	return p.flushMark, true
}

// FlushedCount is the number of items eligible to be written right now.
func (p *PendingState) FlushedCount() int {
	if p.flushMark < 0 {
		return 0
	}
	return p.flushMark + 1
}

// At returns the i'th queued item, read-only, for the gather path.
func (p *PendingState) At(i int) WriteItem {
	return p.q[i].item
}

// Append enqueues item at the tail with an optional completion handle.
// It never touches the flush mark.
func (p *PendingState) Append(item WriteItem, handle Handle) {
	p.q = append(p.q, entry{item: item, handle: handle})
}

// MarkFlushCheckpoint moves the flush mark to the current last item.
//
//   - empty queue + handle: handle fires success immediately, no mark set.
//   - non-empty queue, no handle: mark is set on the last item.
//   - non-empty queue + handle: cascades onto any handle already installed
//     on the mark's item, or installs handle directly if there is none.
func (p *PendingState) MarkFlushCheckpoint(handle Handle) {
	if len(p.q) == 0 {
		if handle != nil {
			handle.Succeed()
		}
		return
	}
	last := len(p.q) - 1
	p.flushMark = last
	if handle == nil {
		return
	}
	if existing := p.q[last].handle; existing != nil {
		existing.Cascade(handle)
	} else {
		p.q[last].handle = handle
	}
}

// FullyWrittenFirst removes the head item, whose remaining bytes are all
// accounted for, and returns its completion handle (if any) for the
// caller to signal. Adjusts the flush mark to stay valid.
func (p *PendingState) FullyWrittenFirst() (Handle, bool) {
	if len(p.q) == 0 {
		return nil, false
	}
	head := p.q[0]
	p.q = p.q[1:]
	if p.flushMark >= 0 {
		if p.flushMark == 0 {
			p.flushMark = -1
		} else {
			p.flushMark--
		}
	}
	return head.handle, true
}

// PartiallyWrittenFirst advances the head item's read cursor by n bytes.
// The head remains at index 0; the flush mark is unchanged.
func (p *PendingState) PartiallyWrittenFirst(n int64) {
	if len(p.q) == 0 {
		assert(n == 0, "partiallyWrittenFirst on empty queue")
		return
	}
	p.q[0].item.Advance(n)
}

// DidWrite is the drain-consumption primitive. itemCount is how many
// leading items the engine attempted to write; result is what the
// syscall reported. It returns a deferred fan-out of completions and a
// categorical outcome. Callers must run the fan-out only after applying
// every other state mutation for this drain pass.
func (p *PendingState) DidWrite(itemCount int, result IOResult) (Fanout, WriteOutcome) {
	if result.WouldBlock && result.N == 0 {
		return nil, WouldBlock
	}

	remaining := result.N
	var fanout Fanout
	consumed := 0
	for consumed < itemCount {
		assert(len(p.q) > 0, "didWrite attempted more items than queued")
		head := p.q[0].item.Remaining()
		assert(head > 0, "queued item with zero remaining bytes")
		if remaining >= head {
			remaining -= head
			if h, ok := p.FullyWrittenFirst(); ok && h != nil {
				fanout = append(fanout, Signal{H: h})
			}
			consumed++
			continue
		}
		p.PartiallyWrittenFirst(remaining)
		return fanout, WrittenPartially
	}
	assert(remaining == 0, "didWrite left unaccounted bytes")
	return fanout, WrittenCompletely
}

// FailAll drains the queue head-to-tail, collecting every handle, and
// returns a deferred action that signals each with err in order.
func (p *PendingState) FailAll(err error) Fanout {
	var fanout Fanout
	for len(p.q) > 0 {
		h, ok := p.FullyWrittenFirst()
		if ok && h != nil {
			fanout = append(fanout, Signal{H: h, Err: err})
		}
	}
	p.flushMark = -1
	return fanout
}

func assert(cond bool, msg string) {
	if !cond {
		panic("pending writes: invariant violated: " + msg)
	}
}
