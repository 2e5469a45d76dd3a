package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	_ "github.com/roffe/zlgcan/adapter"
	"github.com/roffe/zlgcan/cmd/zcantool/cmd"
)

// shutdownGrace bounds how long a blocked driver call may delay exit after
// ctrl-c.
const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	done := make(chan struct{})
	go forceExit(ctx, done)
	err := cmd.Execute(ctx)
	close(done)
	if err != nil {
		os.Exit(1)
	}
}

// forceExit kills the process when the commands have not returned
// shutdownGrace after the interrupt.
func forceExit(ctx context.Context, done <-chan struct{}) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}
	log.Printf("interrupted, closing devices")
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		log.Fatalf("driver did not return within %v, exiting", shutdownGrace)
	}
}
