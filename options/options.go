package options

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glharness/graphics"
)

type Options struct {
	Title          string     `toml:"title"`
	Width          int        `toml:"width"`
	Height         int        `toml:"height"`
	VertexShader   string     `toml:"vertex_shader"`
	FragmentShader string     `toml:"fragment_shader"`
	ClearColor     [4]float32 `toml:"clear_color"`
	SwapInterval   int        `toml:"swap_interval"`
	Headless       bool       `toml:"headless"`
	Frames         int        `toml:"frames"`
	Snapshot       string     `toml:"snapshot"`
	Record         string     `toml:"record"`
	FPS            int        `toml:"fps"`
	FFmpegPath     string     `toml:"ffmpeg"`
	LogLevel       string     `toml:"log_level"`
}

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		Title:        graphics.DefaultTitle,
		Width:        graphics.DefaultWidth,
		Height:       graphics.DefaultHeight,
		ClearColor:   [4]float32{0, 0, 0, 1},
		SwapInterval: graphics.DefaultSwapInterval,
		FPS:          60,
		LogLevel:     "info",
	}
}

// Load decodes a TOML file over o. Unknown keys are an error.
func Load(path string, o *Options) error {
	md, err := toml.DecodeFile(path, o)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Parse reads command-line arguments. When -config names a file it is
// loaded first and flags given explicitly on the command line win.
func Parse(name string, args []string) (*Options, error) {
	o := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	config := fs.String("config", "", "TOML configuration file")
	fs.StringVar(&o.Title, "title", o.Title, "Window title")
	fs.IntVar(&o.Width, "width", o.Width, "Window width (0 for default)")
	fs.IntVar(&o.Height, "height", o.Height, "Window height (0 for default)")
	fs.StringVar(&o.VertexShader, "vertex", o.VertexShader, "Vertex shader file (built-in when empty)")
	fs.StringVar(&o.FragmentShader, "fragment", o.FragmentShader, "Fragment shader file (built-in when empty)")
	fs.Var((*colorValue)(&o.ClearColor), "clear", "Clear color as r,g,b,a in [0,1]")
	fs.IntVar(&o.SwapInterval, "swap", o.SwapInterval, "Swap interval in frames (-1 disables vsync)")
	fs.BoolVar(&o.Headless, "headless", o.Headless, "Render to an offscreen EGL surface")
	fs.IntVar(&o.Frames, "frames", o.Frames, "Stop after this many frames (0 runs until closed)")
	fs.StringVar(&o.Snapshot, "snapshot", o.Snapshot, "Write the last frame to this PNG file")
	fs.StringVar(&o.Record, "record", o.Record, "Record frames to this video file")
	fs.IntVar(&o.FPS, "fps", o.FPS, "Frames per second for recording")
	fs.StringVar(&o.FFmpegPath, "ffmpeg", o.FFmpegPath, "Path to ffmpeg executable")
	fs.StringVar(&o.LogLevel, "log", o.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *config != "" {
		if err := Load(*config, o); err != nil {
			return nil, err
		}
		// reapply explicit flags over the file
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}
	o.Normalize()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Normalize applies the window fallbacks for an empty title, zero sizes and
// a zero swap interval.
func (o *Options) Normalize() {
	cfg := o.Window()
	o.Title, o.Width, o.Height = cfg.Title, cfg.Width, cfg.Height
	o.SwapInterval = cfg.SwapInterval
}

// Validate rejects option combinations that cannot run.
func (o *Options) Validate() error {
	var errs []error
	if o.Width < 0 || o.Height < 0 {
		errs = append(errs, fmt.Errorf("negative window size %dx%d", o.Width, o.Height))
	}
	if o.SwapInterval < graphics.NoSwapInterval {
		errs = append(errs, fmt.Errorf("invalid swap interval %d", o.SwapInterval))
	}
	if o.Frames < 0 {
		errs = append(errs, fmt.Errorf("negative frame count %d", o.Frames))
	}
	if o.Headless && o.Frames == 0 {
		errs = append(errs, errors.New("headless rendering needs -frames"))
	}
	if (o.VertexShader == "") != (o.FragmentShader == "") {
		errs = append(errs, errors.New("vertex and fragment shader files must be given together"))
	}
	if o.Record != "" && o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("invalid recording rate %d", o.FPS))
	}
	if _, err := parseLevel(o.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Window returns the window configuration with defaults applied.
func (o *Options) Window() graphics.WindowConfig {
	return graphics.WindowConfig{
		Title:        o.Title,
		Width:        o.Width,
		Height:       o.Height,
		SwapInterval: o.SwapInterval,
	}.Normalized()
}

// Clear returns the clear color.
func (o *Options) Clear() mgl32.Vec4 {
	return mgl32.Vec4(o.ClearColor)
}

// SlogLevel returns the configured log level.
func (o *Options) SlogLevel() slog.Level {
	l, _ := parseLevel(o.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

type colorValue [4]float32

func (c *colorValue) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 4)
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (c *colorValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("want r,g,b or r,g,b,a, got %q", s)
	}
	out := colorValue{0, 0, 0, 1}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("component %g outside [0,1]", v)
		}
		out[i] = float32(v)
	}
	*c = out
	return nil
}
