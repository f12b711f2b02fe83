package nio

import "github.com/Amonhen/swift-nio/internal/network"

// Options configures a WriteEngine. Zero value is not usable directly;
// use NewWriteEngine, which applies defaults before Option overrides.
type Options struct {
	writeSpinCount  int
	lowWaterMark    int64
	highWaterMark   int64
	vectorLimitCnt  int
	vectorLimitByte int64
}

func defaultOptions() Options {
	return Options{
		writeSpinCount:  network.DefaultWriteSpinCount,
		lowWaterMark:    network.DefaultLowWaterMark,
		highWaterMark:   network.DefaultHighWaterMark,
		vectorLimitCnt:  network.DefaultVectorLimitCount,
		vectorLimitByte: network.DefaultVectorLimitBytes,
	}
}

// Option mutates Options during NewWriteEngine.
type Option func(*Options)

// WithSpinCount overrides the per-Trigger drain iteration bound.
func WithSpinCount(n int) Option {
	return func(o *Options) { o.writeSpinCount = n }
}

// WithWaterMarks overrides the low/high writability thresholds, in
// bytes of pending, unwritten data.
func WithWaterMarks(low, high int64) Option {
	return func(o *Options) { o.lowWaterMark, o.highWaterMark = low, high }
}

// WithVectorLimits overrides the writev scatter-vector count and total
// byte-count limits.
func WithVectorLimits(count int, bytes int64) Option {
	return func(o *Options) { o.vectorLimitCnt, o.vectorLimitByte = count, bytes }
}
