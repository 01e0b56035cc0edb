package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fosdem/glexperiment/lib/config"
	"github.com/fosdem/glexperiment/lib/demo"
	glog "github.com/fosdem/glexperiment/lib/log"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	builtinPtr := flag.Bool("builtin-shaders", false, "Use the embedded shaders instead of the files from the config")
	trianglePtr := flag.Bool("triangle", false, "Draw a triangle instead of the rectangle")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [config file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if flag.NArg() > 0 {
		var err error
		cfg, err = config.Parse(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config invalid: %s\n", err)
			os.Exit(1)
		}
	}

	level, err := glog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	glog.Setup(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = demo.Run(ctx, cfg, demo.Options{
		BuiltinShaders: *builtinPtr,
		Triangle:       *trianglePtr,
	})
	stop()

	if err != nil {
		slog.Error("demo failed", slog.Any("err", err))
	}
	os.Exit(exitCode(err))
}

// exitCode is -1 when no window or OpenGL context could be set up, 1 for
// any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, demo.ErrStartup):
		return -1
	default:
		return 1
	}
}
