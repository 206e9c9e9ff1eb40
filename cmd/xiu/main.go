// Command xiu prints the lunar mansion for one or more dates, a whole month,
// or every calibration fact.
//
// Usage:
//
//	xiu 1961-09-12 2025-05-14
//	xiu --month 1961-09
//	xiu --test-fixed --format json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "xiu:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
