package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/richinsley/glharness/capture"
	"github.com/richinsley/glharness/glfwcontext"
	"github.com/richinsley/glharness/gldevice"
	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/headless"
	"github.com/richinsley/glharness/options"
	"github.com/richinsley/glharness/renderer"
	"github.com/richinsley/glharness/shader"
)

func init() {
	runtime.LockOSThread()
}

func openWindow(opts *options.Options) (graphics.Window, error) {
	if opts.Headless {
		w, err := headless.New(opts.Window())
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	w, err := glfwcontext.New(opts.Window())
	if err != nil {
		return nil, err
	}
	return w, nil
}

func loadSource(opts *options.Options) (shader.Source, error) {
	if opts.VertexShader == "" {
		return shader.StaticSource(false), nil
	}
	return shader.LoadSource(context.Background(), opts.VertexShader, opts.FragmentShader)
}

func run(opts *options.Options) (err error) {
	win, err := openWindow(opts)
	if err != nil {
		return err
	}
	dev, err := gldevice.New()
	if err != nil {
		win.Destroy()
		return err
	}
	ctx := graphics.NewContext(win, dev)

	src, err := loadSource(opts)
	if err != nil {
		return errors.Join(err, ctx.Destroy())
	}
	scene, err := renderer.LoadScene(ctx, opts.Title, src, renderer.UnitSquare)
	if err != nil {
		return errors.Join(err, ctx.Destroy())
	}

	loop := renderer.NewLoop(ctx, renderer.NewRenderer(ctx, opts.Clear()), scene)
	loop.MaxFrames = opts.Frames

	var rec *capture.Recorder
	if opts.Record != "" {
		w, h := ctx.FramebufferSize()
		rec, err = capture.NewRecorder(opts.Record, w, h, opts.FPS, opts.FFmpegPath)
		if err != nil {
			return errors.Join(err, scene.Destroy(), ctx.Destroy())
		}
		defer func() {
			err = errors.Join(err, rec.Close())
		}()
	}

	var last *image.RGBA
	loop.AfterDraw = func(frame int) error {
		if rec != nil {
			if err := rec.Capture(ctx); err != nil {
				return err
			}
		}
		if opts.Snapshot != "" {
			img, err := capture.ReadFramebuffer(ctx)
			if err != nil {
				return err
			}
			last = img
		}
		return nil
	}

	if err := loop.Run(); err != nil {
		return err
	}
	if last != nil {
		if err := capture.WritePNG(opts.Snapshot, last); err != nil {
			return err
		}
		log.Printf("Snapshot written to %s", opts.Snapshot)
	}
	log.Printf("Rendered %d frames", loop.Frames())
	return nil
}

func main() {
	opts, err := options.Parse(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	graphics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: opts.SlogLevel(),
	})))

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
