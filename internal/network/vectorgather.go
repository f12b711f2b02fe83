package network

// VectorOp performs one vectored write over the supplied buffers and
// reports how many bytes were transferred (see IOResult).
type VectorOp func(buffers [][]byte) (IOResult, error)

// Gather materializes up to limitCount in-memory items from p into the
// pre-allocated iovecs/retain arrays (both must be at least limitCount
// long), invokes op over exactly what it packed, releases every
// retention, and reports how many items to charge against didWrite.
//
// Preconditions: len(iovecs) and len(retain) are at least limitCount;
// p has at least one flushed item.
//
// The returned itemCount is used + 1 when Gather stopped because it hit
// the count or byte limit rather than running out of flushed byte
// buffers; the extra 1 tells the caller's DidWrite call to classify a
// fully-successful syscall as WrittenPartially rather than
// WrittenCompletely, since more flushed data exists than was offered.
func Gather(p *PendingState, iovecs [][]byte, retain []*Buffer, limitCount int, limitBytes int64, op VectorOp) (itemCount int, result IOResult, err error) {
	flushed := p.FlushedCount()
	n := limitCount
	if flushed < n {
		n = flushed
	}
	hitLimit := flushed > limitCount

	used := 0
	var toWrite int64
	for i := 0; i < n; i++ {
		item := p.At(i)
		buf, ok := item.(*Buffer)
		if !ok {
			// File region: natural batch boundary. The caller will
			// re-dispatch via the file path on the next trigger.
			hitLimit = false
			break
		}
		r := buf.Remaining()
		if used > 0 && limitBytes-toWrite < r {
			hitLimit = true
			break
		}
		length := r
		if length > limitBytes {
			length = limitBytes
		}
		iovecs[i] = buf.Bytes()[:length]
		retain[i] = buf
		toWrite += length
		used++
	}

	if used == 0 {
		// The batch boundary was a file region at the very head; there
		// is nothing to offer the syscall this pass.
		return 0, IOResult{}, nil
	}

	result, err = op(iovecs[:used])

	for i := 0; i < used; i++ {
		retain[i] = nil
	}

	itemCount = used
	if hitLimit {
		itemCount++
	}
	return itemCount, result, err
}
