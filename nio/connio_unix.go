//go:build unix

package nio

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Amonhen/swift-nio/internal/network"
)

// RawVectorOp returns a VectorOp that calls writev(2) directly on conn's
// file descriptor via SyscallConn, bypassing the internal copy net.Buffers
// performs when it drains consumed leading slices. EAGAIN is classified as
// a would-block outcome rather than a fatal error, since a raw non-blocking
// fd reports backpressure that way instead of through a write deadline.
func RawVectorOp(conn syscall.Conn) (network.VectorOp, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	return func(buffers [][]byte) (network.IOResult, error) {
		var n int
		var writeErr error
		ctrlErr := raw.Write(func(fd uintptr) bool {
			n, writeErr = unix.Writev(int(fd), buffers)
			return true
		})
		if ctrlErr != nil {
			return network.IOResult{}, ctrlErr
		}
		if writeErr != nil {
			if errors.Is(writeErr, unix.EAGAIN) {
				return network.WouldBlockAfter(0), nil
			}
			return network.IOResult{}, writeErr
		}
		return network.Processed(int64(n)), nil
	}, nil
}
