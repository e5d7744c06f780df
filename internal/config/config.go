// Package config handles meshforge configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/meshforge/internal/engine/terrain"
	"github.com/Faultbox/meshforge/internal/engine/uniform"
)

// Config holds all tool settings.
type Config struct {
	Terrain       TerrainConfig `yaml:"terrain" toml:"terrain"`
	Model         ModelConfig   `yaml:"model" toml:"model"`
	UniformBlocks []BlockConfig `yaml:"uniform_blocks" toml:"uniform_blocks"`
	Logging       LoggingConfig `yaml:"logging" toml:"logging"`
}

// TerrainConfig holds procedural terrain settings.
type TerrainConfig struct {
	Rows      int     `yaml:"rows" toml:"rows"`
	Cols      int     `yaml:"cols" toml:"cols"`
	Width     float32 `yaml:"width" toml:"width"`
	Depth     float32 `yaml:"depth" toml:"depth"`
	Frequency float64 `yaml:"frequency" toml:"frequency"`
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"`
	Bias      float32 `yaml:"bias" toml:"bias"`
	Seed      int64   `yaml:"seed" toml:"seed"`
}

// ModelConfig holds model loading settings.
type ModelConfig struct {
	FlipV       bool     `yaml:"flip_v" toml:"flip_v"`
	SearchPaths []string `yaml:"search_paths" toml:"search_paths"` // Directories searched for model files
}

// BlockConfig declares a uniform block.
type BlockConfig struct {
	Name   string        `yaml:"name" toml:"name"`
	Fields []FieldConfig `yaml:"fields" toml:"fields"`
}

// FieldConfig declares one uniform field. Kind is a GLSL type name.
type FieldConfig struct {
	Name  string `yaml:"name" toml:"name"`
	Kind  string `yaml:"kind" toml:"kind"`
	Array uint32 `yaml:"array,omitempty" toml:"array,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	t := terrain.DefaultConfig()
	return &Config{
		Terrain: TerrainConfig{
			Rows:      t.Rows,
			Cols:      t.Cols,
			Width:     t.Width,
			Depth:     t.Depth,
			Frequency: t.Frequency,
			Amplitude: t.Amplitude,
			Bias:      t.Bias,
			Seed:      1,
		},
		Model: ModelConfig{
			FlipV:       true,
			SearchPaths: []string{"."},
		},
		UniformBlocks: []BlockConfig{
			{
				Name: "Matrices",
				Fields: []FieldConfig{
					{Name: "projection", Kind: "mat4"},
					{Name: "camera", Kind: "mat4"},
				},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// TerrainParams converts the terrain section to generator parameters.
func (c *Config) TerrainParams() terrain.Config {
	return terrain.Config{
		Rows:      c.Terrain.Rows,
		Cols:      c.Terrain.Cols,
		Width:     c.Terrain.Width,
		Depth:     c.Terrain.Depth,
		Frequency: c.Terrain.Frequency,
		Amplitude: c.Terrain.Amplitude,
		Bias:      c.Terrain.Bias,
	}
}

// UniformFields converts a block declaration to uniform fields.
func (b BlockConfig) UniformFields() ([]uniform.Field, error) {
	fields := make([]uniform.Field, 0, len(b.Fields))
	for _, f := range b.Fields {
		kind, err := uniform.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("block %s field %s: %w", b.Name, f.Name, err)
		}
		fields = append(fields, uniform.Field{Name: f.Name, Kind: kind, ArrayLength: f.Array})
	}
	return fields, nil
}

// Block returns the named block declaration.
func (c *Config) Block(name string) (BlockConfig, bool) {
	for _, b := range c.UniformBlocks {
		if b.Name == name {
			return b, true
		}
	}
	return BlockConfig{}, false
}

// RegisterBlocks plans every declared block into the registry.
func (c *Config) RegisterBlocks(r *uniform.Registry) error {
	for _, b := range c.UniformBlocks {
		fields, err := b.UniformFields()
		if err != nil {
			return err
		}
		if _, err := r.Register(b.Name, fields); err != nil {
			return err
		}
	}
	return nil
}
