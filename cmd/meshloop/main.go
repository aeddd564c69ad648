// Command meshloop opens a window and renders a mesh scene until the
// window is closed or escape is pressed.
//
// Usage:
//
//	meshloop [-scene name] [-width w] [-height h] [-config file] [-frames n] [-no-cache] [-v]
//	meshloop -list
//
// Settings are read from the config file first (meshloop.yml by default;
// a missing file is fine). Flags given on the command line override it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/meshloop"
	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/internal/window"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		return meshloop.ExitStartup
	}
	if flags.list {
		printScenes(os.Stdout)
		return meshloop.ExitOK
	}

	cfg, err := meshloop.LoadConfig(flags.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return meshloop.ExitStartup
	}
	flags.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "meshloop:", err)
		return meshloop.ExitStartup
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	meshloop.SetLogger(logger)

	win, err := window.New(windowTitle(cfg.Title, cfg.Scene), cfg.Width, cfg.Height)
	if err != nil {
		logger.Error("meshloop: open window", "err", err)
		return meshloop.ExitStartup
	}
	defer win.Close()

	ctx, err := gpu.New(win, cfg.GPUOptions()...)
	if err != nil {
		logger.Error("meshloop: create device context", "err", err)
		return meshloop.ExitStartup
	}
	defer ctx.Close()

	app, err := meshloop.New(ctx, win, cfg.Options()...)
	if err != nil {
		logger.Error("meshloop: create app", "err", err)
		return meshloop.ExitStartup
	}
	defer app.Close()

	if cfg.Title == "" && cfg.Scene == "" {
		win.SetTitle(windowTitle("", app.Scene().Name()))
	}
	return app.Run()
}
