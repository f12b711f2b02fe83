// Command nio-echo is a minimal demonstration server: it accepts one
// connection, queues everything it reads back out through a
// WriteEngine, and logs every drain outcome. It exists to exercise the
// engine end to end over a real socket; production callers embed the
// nio package directly instead of shelling out to this binary.
package main

import (
	"context"
	"flag"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/Amonhen/swift-nio/internal/network"
	"github.com/Amonhen/swift-nio/internal/promise"
	"github.com/Amonhen/swift-nio/logger"
	"github.com/Amonhen/swift-nio/nio"
)

func main() {
	var (
		host        = flag.String("host", "127.0.0.1", "Host to listen on.")
		port        = flag.Int("port", 4222, "Port to listen on.")
		spinCount   = flag.Int("spin_count", network.DefaultWriteSpinCount, "Max drain iterations per trigger.")
		lowMark     = flag.Int64("low_water_mark", network.DefaultLowWaterMark, "Low writability watermark, in bytes.")
		highMark    = flag.Int64("high_water_mark", network.DefaultHighWaterMark, "High writability watermark, in bytes.")
		debug       = flag.Bool("debug", false, "Enable debug logging.")
		trace       = flag.Bool("trace", false, "Enable trace logging.")
	)
	flag.Parse()

	log := logger.NewStdLogger(true, *debug, *trace)

	ln, err := net.Listen("tcp", net.JoinHostPort(*host, strconv.Itoa(*port)))
	if err != nil {
		log.Log("listen: %v", err)
		os.Exit(1)
	}
	defer ln.Close()
	log.Log("listening on %s", ln.Addr())

	conn, err := ln.Accept()
	if err != nil {
		log.Log("accept: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	loop := nio.NewLoop(network.DefaultVectorLimitCount)
	engine := nio.NewWriteEngine(
		loop.Scratch(),
		nio.WithSpinCount(*spinCount),
		nio.WithWaterMarks(*lowMark, *highMark),
	)

	single := nio.ConnSingleOp(conn)
	vector := nio.ConnVectorOp(conn)
	file := nio.FileRegionOp(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go loop.Run(ctx, engine, single, vector, file, func(outcome network.WriteOutcome, changed bool, err error) {
		if err != nil {
			log.Log("trigger error: %v", err)
			return
		}
		log.Trace("trigger outcome=%s writabilityChanged=%v", outcome, changed)
	})

	buf := make([]byte, 32*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			echo := make([]byte, n)
			copy(echo, buf[:n])
			p := promise.New(func(err error) {
				if err != nil {
					log.Log("write failed: %v", err)
				}
			})
			if !engine.Add(network.NewBuffer(echo), p) {
				log.Debug("backpressure: engine no longer writable")
			}
			engine.MarkFlushCheckpoint(nil)
			loop.Kick()
		}
		if err != nil {
			if err != io.EOF {
				log.Log("read: %v", err)
			}
			break
		}
	}

	engine.FailAll(network.ErrEngineClosed, true)
}
