package meshloop

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/meshloop/internal/gpu"
	"github.com/gogpu/meshloop/scene"
)

// maxConfigSize bounds the config file read by LoadConfig.
const maxConfigSize = 1 << 20

// Config is the file form of the App and window settings.
//
// Example meshloop.yml:
//
//	scene: pyramid
//	width: 1024
//	height: 768
//	cull: back
//	backend: primary
//	pipeline_cache: true
//	log_level: info
type Config struct {
	Scene           string `yaml:"scene"`
	Title           string `yaml:"title"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	Cull            string `yaml:"cull"`
	Backend         string `yaml:"backend"`
	DownlevelLimits bool   `yaml:"downlevel_limits"`
	PipelineCache   *bool  `yaml:"pipeline_cache"` // pointer to distinguish unset vs false
	MaxFrames       int    `yaml:"max_frames"`
	LogLevel        string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Width:    800,
		Height:   600,
		Cull:     "back",
		Backend:  "primary",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over DefaultConfig.
// A missing file, or an empty path, yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			Logger().Debug("meshloop: no config file, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("meshloop: stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("meshloop: config %s is %d bytes, limit %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("meshloop: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("meshloop: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("meshloop: config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("max_frames %d must not be negative", c.MaxFrames)
	}
	if _, err := c.CullMode(); err != nil {
		return err
	}
	if _, err := c.Backends(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// CullMode parses Cull: "back" (default), "front" or "none".
func (c Config) CullMode() (gputypes.CullMode, error) {
	switch strings.ToLower(c.Cull) {
	case "", "back":
		return gputypes.CullModeBack, nil
	case "front":
		return gputypes.CullModeFront, nil
	case "none":
		return gputypes.CullModeNone, nil
	default:
		return gputypes.CullModeNone, fmt.Errorf("unknown cull mode %q", c.Cull)
	}
}

// Backends parses Backend into a backend family. The empty value and
// "primary" select the platform default.
func (c Config) Backends() (gputypes.Backends, error) {
	switch strings.ToLower(c.Backend) {
	case "", "primary":
		return gputypes.BackendsNone, nil
	case "vulkan":
		return gputypes.BackendsVulkan, nil
	case "metal":
		return gputypes.BackendsMetal, nil
	case "dx12":
		return gputypes.BackendsDX12, nil
	case "gl":
		return gputypes.BackendsGL, nil
	default:
		return gputypes.BackendsNone, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// Level parses LogLevel with slog's level syntax ("debug", "info", "warn+2", ...).
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// CacheEnabled reports whether pipeline caching is on. Unset means on.
func (c Config) CacheEnabled() bool {
	return c.PipelineCache == nil || *c.PipelineCache
}

// GPUOptions returns the device context options the config selects.
func (c Config) GPUOptions() []gpu.Option {
	var opts []gpu.Option
	if b, err := c.Backends(); err == nil && b != gputypes.BackendsNone {
		opts = append(opts, gpu.WithBackends(b))
	}
	if c.DownlevelLimits {
		opts = append(opts, gpu.WithDownlevelLimits())
	}
	return opts
}

// Options returns the App options the config selects.
func (c Config) Options() []Option {
	opts := []Option{
		WithSceneName(c.Scene),
		WithPipelineCache(c.CacheEnabled()),
		WithMaxFrames(c.MaxFrames),
	}
	if cull, err := c.CullMode(); err == nil {
		opts = append(opts, WithSceneOptions(scene.WithCullMode(cull)))
	}
	return opts
}
