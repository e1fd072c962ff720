// Command sightline finds where a recorded drive crosses the sight
// distance of intersections and roadside objects.
//
// Usage:
//
//	sightline [-debug] detect -intersections signals.csv -track drive.gpx [-db runs.db] [-csv out.csv] [-chart-dir charts]
//	sightline locate -track drive.gpx [-window 5 | -raw] (-at 2025-01-01T08:00:00Z | -distance 1200)
//	sightline serve -db runs.db [-listen :8080]
//	sightline version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/timeutil"
	"github.com/banshee-data/sightline/internal/version"
)

// env is what a subcommand may touch.
type env struct {
	fsys   fsutil.FileSystem
	clock  timeutil.Clock
	stdout io.Writer
	stderr io.Writer
}

var errUsage = errors.New("usage")

const usage = `usage: sightline [-debug] <command> [flags]

commands:
  detect   find sight-distance crossings in a track
  locate   position at a time, or time at a travelled distance
  serve    serve stored runs over HTTP
  version  print build information
`

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := env{fsys: fsutil.OSFileSystem{}, clock: timeutil.RealClock{}, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(ctx, os.Args[1:], e); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, args []string, e env) error {
	global := flag.NewFlagSet("sightline", flag.ContinueOnError)
	global.SetOutput(e.stderr)
	global.Usage = func() { fmt.Fprint(e.stderr, usage) }
	debug := global.Bool("debug", false, "verbose development logging")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	if err := monitoring.Init(*debug); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer monitoring.Sync()

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "detect":
		return runDetect(ctx, rest, e)
	case "locate":
		return runLocate(rest, e)
	case "serve":
		return runServe(ctx, rest, e)
	case "version":
		fmt.Fprintln(e.stdout, version.String())
		return nil
	default:
		fmt.Fprintf(e.stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return errUsage
	}
}

func newFlagSet(name string, e env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}
