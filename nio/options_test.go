package nio

import (
	"testing"

	"github.com/Amonhen/swift-nio/internal/network"
)

func TestDefaultOptionsMatchNetworkConstants(t *testing.T) {
	e := NewWriteEngine(nil)
	if got := e.SpinCount(); got != network.DefaultWriteSpinCount {
		t.Fatalf("expected default spin count %d, got %d", network.DefaultWriteSpinCount, got)
	}
	low, high := e.WaterMarks()
	if low != network.DefaultLowWaterMark || high != network.DefaultHighWaterMark {
		t.Fatalf("expected default watermarks (%d, %d), got (%d, %d)",
			network.DefaultLowWaterMark, network.DefaultHighWaterMark, low, high)
	}
	count, bytes := e.VectorLimits()
	if count != network.DefaultVectorLimitCount || bytes != network.DefaultVectorLimitBytes {
		t.Fatalf("expected default vector limits (%d, %d), got (%d, %d)",
			network.DefaultVectorLimitCount, network.DefaultVectorLimitBytes, count, bytes)
	}
}

func TestWithSpinCountOverride(t *testing.T) {
	e := NewWriteEngine(nil, WithSpinCount(3))
	if got := e.SpinCount(); got != 3 {
		t.Fatalf("expected spin count 3, got %d", got)
	}
}

func TestWithWaterMarksOverride(t *testing.T) {
	e := NewWriteEngine(nil, WithWaterMarks(10, 20))
	low, high := e.WaterMarks()
	if low != 10 || high != 20 {
		t.Fatalf("expected watermarks (10, 20), got (%d, %d)", low, high)
	}
}

func TestWithVectorLimitsOverride(t *testing.T) {
	e := NewWriteEngine(nil, WithVectorLimits(4, 128))
	count, bytes := e.VectorLimits()
	if count != 4 || bytes != 128 {
		t.Fatalf("expected vector limits (4, 128), got (%d, %d)", count, bytes)
	}
}

func TestOptionsComposeInOrderGiven(t *testing.T) {
	e := NewWriteEngine(nil, WithSpinCount(1), WithSpinCount(9))
	if got := e.SpinCount(); got != 9 {
		t.Fatalf("expected later option to win, got %d", got)
	}
}

func TestWithWaterMarksAffectsWritabilityThreshold(t *testing.T) {
	e := NewWriteEngine(nil, WithWaterMarks(4, 8))
	if !e.Add(network.NewBuffer([]byte("1234567")), nil) {
		t.Fatalf("expected writability unaffected below high watermark")
	}
	if e.Add(network.NewBuffer([]byte("xx")), nil) {
		t.Fatalf("expected writability to flip false once high watermark exceeded")
	}
	if e.IsWritable() {
		t.Fatalf("expected engine to report unwritable")
	}
}
