package main

import (
	"flag"
	"os"

	"github.com/gogpu/meshloop"
)

// defaultConfigPath is read when -config is not given.
const defaultConfigPath = "meshloop.yml"

type cliFlags struct {
	fs *flag.FlagSet

	scene   string
	width   int
	height  int
	config  string
	frames  int
	noCache bool
	verbose bool
	list    bool
}

func parseFlags(args []string) (*cliFlags, error) {
	def := meshloop.DefaultConfig()
	f := &cliFlags{fs: flag.NewFlagSet("meshloop", flag.ContinueOnError)}
	f.fs.SetOutput(os.Stderr)

	f.fs.StringVar(&f.scene, "scene", "", "scene to render (see -list); empty selects the default")
	f.fs.IntVar(&f.width, "width", def.Width, "window width")
	f.fs.IntVar(&f.height, "height", def.Height, "window height")
	f.fs.StringVar(&f.config, "config", defaultConfigPath, "YAML config file")
	f.fs.IntVar(&f.frames, "frames", 0, "exit after this many frames (0 renders until closed)")
	f.fs.BoolVar(&f.noCache, "no-cache", false, "rebuild the render pipeline every frame")
	f.fs.BoolVar(&f.verbose, "v", false, "debug logging")
	f.fs.BoolVar(&f.list, "list", false, "list the available scenes and exit")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply overrides cfg with the flags set on the command line.
func (f *cliFlags) apply(cfg *meshloop.Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Scene = f.scene
		case "width":
			cfg.Width = f.width
		case "height":
			cfg.Height = f.height
		case "frames":
			cfg.MaxFrames = f.frames
		case "no-cache":
			enabled := !f.noCache
			cfg.PipelineCache = &enabled
		case "v":
			if f.verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
}
