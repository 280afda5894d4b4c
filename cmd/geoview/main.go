// geoview is an interactive viewer for geometry chunk (.geo) files.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/kilnworks/kiln/internal/config"
	"github.com/kilnworks/kiln/internal/engine/camera"
	"github.com/kilnworks/kiln/internal/engine/geometry"
	"github.com/kilnworks/kiln/internal/engine/input"
	"github.com/kilnworks/kiln/internal/engine/material"
	"github.com/kilnworks/kiln/internal/engine/picking"
	"github.com/kilnworks/kiln/internal/engine/render"
	"github.com/kilnworks/kiln/internal/engine/renderer"
	"github.com/kilnworks/kiln/internal/engine/window"
	"github.com/kilnworks/kiln/internal/logger"
	kmath "github.com/kilnworks/kiln/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: geoview [options] <file.geo>")
		os.Exit(1)
	}

	chunk, err := geometry.LoadFile(args[0])
	if err != nil {
		logger.Error("loading chunk", zap.String("path", args[0]), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("chunk loaded",
		zap.String("path", args[0]),
		zap.Int("vertices", chunk.VertexCount()),
		zap.Int("triangles", chunk.TriangleCount()),
	)

	if err := run(cfg, chunk); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, chunk *geometry.Chunk) error {
	win, err := window.New(window.Config{
		Title:      "geoview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	rend, err := renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		return err
	}
	defer rend.Close()

	if err := chunk.Register(rend.Device()); err != nil {
		return fmt.Errorf("registering chunk: %w", err)
	}
	defer chunk.Unregister()

	immediate, err := render.NewImmediateBuffer(cfg.Geometry.ImmediateTriangles)
	if err != nil {
		return err
	}
	defer immediate.Close()

	materials := material.NewLibrary(nil)
	materials.Create("Viewer", "BaseSurface", nil)

	cam := camera.NewOrbitCamera()
	cam.FitToSphere(chunk.BoundingSphere())

	in := input.New()

	for !in.Update() {
		width, height := win.GetSize()

		for _, e := range in.Events() {
			switch e.Type {
			case input.EventKeyDown:
				if e.Key == sdl.SCANCODE_ESCAPE {
					return nil
				}
			case input.EventMouseMove:
				if in.IsMouseButtonDown(sdl.BUTTON_LEFT) {
					cam.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
				}
			case input.EventMouseWheel:
				cam.HandleZoom(e.WheelY)
			}
		}

		view := cam.ViewMatrix()
		projection := kmath.Mat4Perspective(
			float32(math.Pi/3), float32(width)/float32(height), 0.1, cam.MaxDistance*2)

		// Right click reports the picked surface point.
		for _, e := range in.Events() {
			if e.Type == input.EventMouseDown && e.Button == sdl.BUTTON_RIGHT {
				pick(chunk, e, width, height, view, projection)
			}
		}

		rend.Resize(width, height)
		rend.SetCamera(view, projection)

		immediate.BeginFrame()
		gather := render.NewGather(materials, immediate)
		gather.SetCameraPosition(cam.Position())
		gather.ChangeMaterial("Viewer", nil)
		gather.ChangeTransform(kmath.TransformIdentity, kmath.One)
		gather.AddGeometryChunk(chunk, render.AllDrawItems)

		rend.Begin()
		rend.RenderQueues(gather.Queues())
		rend.End()

		win.SwapBuffers()
	}

	return nil
}

func pick(chunk *geometry.Chunk, e input.Event, width, height int, view, projection kmath.Mat4) {
	ray, ok := picking.ScreenToRay(
		float32(e.MouseX), float32(e.MouseY),
		float32(width), float32(height), view, projection)
	if !ok {
		return
	}

	hits := picking.PickChunk(ray, chunk, kmath.TransformIdentity, kmath.One)
	if len(hits) == 0 {
		logger.Info("pick missed")
		return
	}
	logger.Info("picked",
		zap.Float32("distance", hits[0].Distance),
		zap.Float32("x", hits[0].Point.X),
		zap.Float32("y", hits[0].Point.Y),
		zap.Float32("z", hits[0].Point.Z),
	)
}
