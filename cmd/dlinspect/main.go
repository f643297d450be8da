// Command dlinspect loads a scene file, diffs its frames and reports the
// damage and display list complexity of each one.
//
// Usage:
//
//	dlinspect [flags] scene.yaml
//
// With -png every frame is rendered by the software sink; the pattern gets
// the frame index, e.g. -png frame-%02d.png. With -watch the scene is
// inspected again whenever the file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"

	"github.com/gogpu/retain"
)

func main() {
	var cfg config
	flag.StringVar(&cfg.backend, "backend", "metal", "complexity model: naive, metal, gl, vulkan or dx12")
	flag.UintVar(&cfg.ceiling, "ceiling", 0, "complexity ceiling (0 = unlimited)")
	flag.StringVar(&cfg.png, "png", "", "render frames to PNG files named by this pattern")
	flag.StringVar(&cfg.sink, "sink", "raster", "sink used with -png")
	flag.BoolVar(&cfg.trace, "trace", false, "print the canvas calls of every frame")
	flag.IntVar(&cfg.align, "align", 0, "align damage to tiles of this many pixels")
	flag.IntVar(&cfg.frame, "frame", -1, "only report this frame")
	watch := flag.Bool("watch", false, "inspect again when the scene file changes")
	verbose := flag.Bool("v", false, "log debug diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scene.(yaml|toml)\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		retain.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	in, err := newInspector(cfg, termenv.NewOutput(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
	path := flag.Arg(0)

	if !*watch {
		if err := in.inspect(path); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := watchFile(ctx, path, in); err != nil {
		log.Fatal(err)
	}
}

// debounce collapses the bursts of events editors produce on save.
const debounce = 100 * time.Millisecond

// watchFile inspects path now and after every change until ctx is done.
// The directory is watched rather than the file so that editors which
// replace the file on save keep triggering.
func watchFile(ctx context.Context, path string, in *inspector) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	report := func() {
		if err := in.inspect(abs); err != nil {
			in.errorf("%v", err)
		}
	}
	report()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			fmt.Fprintln(in.out)
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				timer.Reset(debounce)
				continue
			}
			return err
		}
	}
}
