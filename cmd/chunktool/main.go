// chunktool is a CLI utility for working with geometry chunk (.geo) files.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/kilnworks/kiln/internal/engine/geometry"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate":
		cmdValidate(args)
	case "optimize":
		cmdOptimize(args)
	case "strip":
		cmdStrip(args)
	case "tangents":
		cmdTangents(args)
	case "roundtrip":
		cmdRoundtrip(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chunktool - geometry chunk (.geo) utility

Usage:
  chunktool <command> [options]

Commands:
  info <file.geo>                Show chunk information
  validate <file.geo>            Check vertex and index data for errors
  optimize <file.geo> [output]   Deduplicate vertex data
  strip <file.geo> [output]      Convert triangle lists to strips
  tangents <file.geo> [output]   Calculate tangent basis streams
  roundtrip <file.geo>           Re-serialize in memory and compare

Examples:
  chunktool info statue.geo
  chunktool optimize statue.geo statue-opt.geo
  chunktool strip statue.geo`)
}

func loadChunk(path string) *geometry.Chunk {
	c, err := geometry.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return c
}

func saveChunk(c *geometry.Chunk, path string) {
	if err := c.SaveFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved: %s\n", path)
}

// outputPath returns the second positional argument, defaulting to
// overwriting the input.
func outputPath(args []string) string {
	if len(args) >= 2 {
		return args[1]
	}
	return args[0]
}

func progressBar(label string) geometry.ProgressFunc {
	return func(fraction float32) {
		fmt.Printf("\r%s %3.0f%%", label, fraction*100)
		if fraction >= 1 {
			fmt.Println()
		}
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool info <file.geo>")
		os.Exit(1)
	}

	c := loadChunk(args[0])

	fmt.Printf("Chunk:     %s\n", args[0])
	fmt.Printf("Vertices:  %d (%d bytes each)\n", c.VertexCount(), c.VertexSize())
	fmt.Printf("Indices:   %d (%d-bit)\n", c.IndexCount(), c.IndexWidth())
	fmt.Printf("Triangles: %d\n", c.TriangleCount())
	fmt.Printf("Dynamic:   %v\n", c.IsDynamic())
	fmt.Println()

	fmt.Println("Vertex streams:")
	for _, s := range c.VertexStreams() {
		name := c.Registry().NameForType(s.Type)
		normalized := ""
		if s.Normalize {
			normalized = " normalized"
		}
		fmt.Printf("  %-28s %dx%s%s at offset %d\n",
			name, s.ComponentCount, s.DataType, normalized, s.Offset)
	}
	fmt.Println()

	fmt.Println("Draw items:")
	for i, item := range c.DrawItems() {
		fmt.Printf("  #%d %-22s %d indices at %d (%d triangles)\n",
			i, item.Primitive, item.IndexCount, item.IndexOffset, item.TriangleCount())
	}

	if c.VertexCount() > 0 && c.HasVertexStream(geometry.PositionStream) {
		box := c.AABB()
		sphere := c.BoundingSphere()
		fmt.Println()
		fmt.Printf("AABB:   (%g, %g, %g) .. (%g, %g, %g)\n",
			box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
		fmt.Printf("Sphere: center (%g, %g, %g) radius %g\n",
			sphere.Origin.X, sphere.Origin.Y, sphere.Origin.Z, sphere.Radius)
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool validate <file.geo>")
		os.Exit(1)
	}

	c := loadChunk(args[0])

	if err := c.ValidateVertexPositionData(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %d vertices, %d draw items\n", c.VertexCount(), len(c.DrawItems()))
}

func cmdOptimize(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool optimize <file.geo> [output]")
		os.Exit(1)
	}

	c := loadChunk(args[0])
	before := c.VertexCount()

	if err := c.OptimizeVertexData(context.Background(), progressBar("Optimizing")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Vertices: %d -> %d\n", before, c.VertexCount())
	saveChunk(c, outputPath(args))
}

func cmdStrip(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool strip <file.geo> [output]")
		os.Exit(1)
	}

	c := loadChunk(args[0])
	before := len(c.DrawItems())

	if err := c.GenerateTriangleStrips(context.Background(), progressBar("Stripping")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Draw items: %d -> %d\n", before, len(c.DrawItems()))
	saveChunk(c, outputPath(args))
}

func cmdRoundtrip(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool roundtrip <file.geo>")
		os.Exit(1)
	}

	c := loadChunk(args[0])

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	reloaded, err := geometry.Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reload failed: %v\n", err)
		os.Exit(1)
	}

	if !bytes.Equal(c.VertexData(), reloaded.VertexData()) {
		fmt.Fprintln(os.Stderr, "Mismatch: vertex data differs after round trip")
		os.Exit(1)
	}
	a, b := c.CopyIndexData(), reloaded.CopyIndexData()
	if len(a) != len(b) {
		fmt.Fprintln(os.Stderr, "Mismatch: index count differs after round trip")
		os.Exit(1)
	}
	for i := range a {
		if a[i] != b[i] {
			fmt.Fprintf(os.Stderr, "Mismatch: index %d differs after round trip\n", i)
			os.Exit(1)
		}
	}
	if len(c.DrawItems()) != len(reloaded.DrawItems()) {
		fmt.Fprintln(os.Stderr, "Mismatch: draw item count differs after round trip")
		os.Exit(1)
	}

	fmt.Printf("OK: %d bytes round trip cleanly\n", buf.Len())
}

func cmdTangents(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chunktool tangents <file.geo> [output]")
		os.Exit(1)
	}

	c := loadChunk(args[0])

	if err := c.CalculateTangentBases(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	saveChunk(c, outputPath(args))
}
