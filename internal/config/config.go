// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Geometry GeometryConfig `yaml:"geometry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// GeometryConfig holds geometry pipeline settings.
type GeometryConfig struct {
	// ImmediateTriangles is the initial capacity, in triangles, of the
	// shared buffer used for immediate-mode geometry. The buffer grows as
	// needed but never shrinks during a session.
	ImmediateTriangles int `yaml:"immediate_triangles"`

	// GenerateStrips controls whether loaded chunks are restripped into
	// triangle strips as a post-load optimization.
	GenerateStrips bool `yaml:"generate_strips"`

	// OptimizeVertexData controls whether duplicate vertices are merged
	// when chunks are prepared for rendering.
	OptimizeVertexData bool `yaml:"optimize_vertex_data"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Geometry: GeometryConfig{
			ImmediateTriangles: 1024,
			GenerateStrips:     true,
			OptimizeVertexData: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
