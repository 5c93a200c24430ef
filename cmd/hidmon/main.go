// Package main monitors keyboard reports written by the movepad fifo
// transport.
//
// hidmon plays the USB host: it holds the report pipe open, which makes the
// fifo transport ready, and logs every report with the time since the
// previous one so move timings can be checked by eye.
//
// Usage:
//
//	hidmon [options] [pipe-dir]
//
// The pipe directory defaults to /tmp/movepad, matching movepad's -fifo-dir.
//
// Options:
//
//	-v        Enable verbose (debug) logging
//	-json     Use JSON log format
//	-limit N  Exit after N reports (default: 0, no limit)
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/hid/fifo"
	"github.com/ardnew/movepad/pkg"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentMonitor

func main() {
	verbose := flag.Bool("v", false, "enable verbose (debug) logging")
	jsonLog := flag.Bool("json", false, "use JSON log format")
	limit := flag.Int("limit", 0, "number of reports to read before exiting")
	flag.Parse()

	dir := "/tmp/movepad"
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	pkg.SetLogLevel(slog.LevelInfo)
	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}
	if *jsonLog {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		pkg.LogInfo(component, "shutting down")
		cancel()
	}()

	r, err := fifo.OpenReader(dir)
	if err != nil {
		pkg.LogError(component, "failed to open report pipe", "dir", dir, "error", err)
		os.Exit(1)
	}
	defer r.Close()

	pkg.LogInfo(component, "monitoring reports", "pipe", r.Path())

	n, err := monitor(ctx, r, *limit)
	if err != nil && !errors.Is(err, context.Canceled) {
		pkg.LogError(component, "read error", "error", err)
		r.Close()
		os.Exit(1)
	}
	pkg.LogInfo(component, "reports received", "count", n)
}

// monitor logs reports until ctx is done or limit reports were read.
func monitor(ctx context.Context, r *fifo.Reader, limit int) (int, error) {
	var (
		rep   hid.Report
		count int
		last  time.Time
	)
	for limit <= 0 || count < limit {
		if err := r.ReadReport(ctx, &rep); err != nil {
			if errors.Is(err, pkg.ErrProtocol) {
				pkg.LogWarn(component, "malformed message skipped", "error", err)
				continue
			}
			return count, err
		}
		count++

		now := time.Now()
		args := []any{
			"reportNum", count,
			"keys", rep.String(),
		}
		if names := modifierNames(rep.Modifiers); len(names) > 0 {
			args = append(args, "modifierNames", names)
		}
		if !last.IsZero() {
			args = append(args, "sincePrevious", now.Sub(last).Round(time.Millisecond))
		}
		last = now
		pkg.LogInfo(component, "Report", args...)
	}
	return count, nil
}

// modifierNames lists the held modifiers.
func modifierNames(m uint8) []string {
	names := [8]string{"LCtrl", "LShift", "LAlt", "LWin", "RCtrl", "RShift", "RAlt", "RWin"}
	var out []string
	for bit, name := range names {
		if m&(1<<bit) != 0 {
			out = append(out, name)
		}
	}
	return out
}
