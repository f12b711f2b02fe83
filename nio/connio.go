package nio

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/Amonhen/swift-nio/internal/network"
)

// pollTimeout is the write-deadline window used by the Conn* adapters to
// turn a blocking net.Conn into something that reports would-block
// instead of stalling the event loop, mirroring the write-deadline
// snapshot a real reactor takes before every flush attempt.
const pollTimeout = 1 * time.Millisecond

// ConnSingleOp returns a SingleOp writing to conn, treating a write
// timeout as a would-block rather than a fatal error.
func ConnSingleOp(conn net.Conn) SingleOp {
	return func(b []byte) (network.IOResult, error) {
		if err := conn.SetWriteDeadline(time.Now().Add(pollTimeout)); err != nil {
			return network.IOResult{}, err
		}
		n, err := conn.Write(b)
		return classify(int64(n), err)
	}
}

// ConnVectorOp returns a VectorOp performing a vectored write over conn
// via net.Buffers, which uses writev on platforms that support it.
func ConnVectorOp(conn net.Conn) network.VectorOp {
	return func(buffers [][]byte) (network.IOResult, error) {
		if err := conn.SetWriteDeadline(time.Now().Add(pollTimeout)); err != nil {
			return network.IOResult{}, err
		}
		nb := net.Buffers(buffers)
		n, err := nb.WriteTo(conn)
		return classify(n, err)
	}
}

// FileRegionOp returns a FileOp transferring f's [begin, end) range to
// conn, using the ReaderFrom fast path (sendfile on Linux) when conn
// exposes one.
func FileRegionOp(conn net.Conn) FileOp {
	return func(f *os.File, begin, end int64) (network.IOResult, error) {
		if err := conn.SetWriteDeadline(time.Now().Add(pollTimeout)); err != nil {
			return network.IOResult{}, err
		}
		section := io.NewSectionReader(f, begin, end-begin)
		var (
			n   int64
			err error
		)
		if rf, ok := conn.(io.ReaderFrom); ok {
			n, err = rf.ReadFrom(section)
		} else {
			n, err = io.Copy(conn, section)
		}
		return classify(n, err)
	}
}

func classify(n int64, err error) (network.IOResult, error) {
	if err == nil {
		return network.Processed(n), nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return network.WouldBlockAfter(n), nil
	}
	return network.IOResult{}, err
}
