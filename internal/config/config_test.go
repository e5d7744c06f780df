package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshforge/internal/engine/uniform"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Terrain
	assert.Equal(t, 20, cfg.Terrain.Rows)
	assert.Equal(t, 20, cfg.Terrain.Cols)
	assert.Equal(t, 13.0, cfg.Terrain.Frequency)
	assert.NoError(t, cfg.TerrainParams().Validate())

	// Model
	assert.True(t, cfg.Model.FlipV, "flip_v defaults to true")

	// Uniform blocks
	require.Len(t, cfg.UniformBlocks, 1)
	assert.Equal(t, "Matrices", cfg.UniformBlocks[0].Name)

	// Logging
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
}

func TestLoadFromFile(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
terrain:
  rows: 64
  cols: 32
  frequency: 8
  seed: 42

model:
  flip_v: false
  search_paths: ["assets", "models"]

uniform_blocks:
  - name: Lights
    fields:
      - {name: position, kind: vec3}
      - {name: intensity, kind: float}
      - {name: colors, kind: vec4, array: 4}

logging:
  level: "debug"
  log_file: "meshforge.log"
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 64, cfg.Terrain.Rows)
	assert.Equal(t, 32, cfg.Terrain.Cols)
	assert.Equal(t, int64(42), cfg.Terrain.Seed)
	// Unset keys keep their defaults
	assert.Equal(t, -3.0, cfg.Terrain.Amplitude)

	assert.False(t, cfg.Model.FlipV)
	assert.Equal(t, []string{"assets", "models"}, cfg.Model.SearchPaths)

	// The file's block list replaces the default one.
	_, ok := cfg.Block("Matrices")
	assert.False(t, ok)

	b, ok := cfg.Block("Lights")
	require.True(t, ok)
	fields, err := b.UniformFields()
	require.NoError(t, err)
	assert.Equal(t, []uniform.Field{
		{Name: "position", Kind: uniform.Vec3},
		{Name: "intensity", Kind: uniform.Scalar},
		{Name: "colors", Kind: uniform.Vec4, ArrayLength: 4},
	}, fields)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "meshforge.log", cfg.Logging.LogFile)
}

func TestLoadFromTOMLFile(t *testing.T) {
	configPath := writeConfig(t, "config.toml", `
[terrain]
rows = 8
cols = 4
bias = 0.5

[[uniform_blocks]]
name = "Material"

[[uniform_blocks.fields]]
name = "albedo"
kind = "vec4"

[logging]
level = "warn"
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 8, cfg.Terrain.Rows)
	assert.Equal(t, 4, cfg.Terrain.Cols)
	assert.Equal(t, float32(0.5), cfg.Terrain.Bias)
	require.Len(t, cfg.UniformBlocks, 1)
	assert.Equal(t, "Material", cfg.UniformBlocks[0].Name)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileKeepsDefaultBlocks(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", "terrain:\n  rows: 5\n")

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 5, cfg.Terrain.Rows)
	_, ok := cfg.Block("Matrices")
	assert.True(t, ok)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := writeConfig(t, "invalid.yaml", "terrain: [unclosed")
	assert.Error(t, loadFromFile(Default(), configPath))
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, loadFromFile(Default(), "/nonexistent/path/config.yaml"))
}

func TestUniformFieldsUnknownKind(t *testing.T) {
	b := BlockConfig{
		Name:   "Broken",
		Fields: []FieldConfig{{Name: "x", Kind: "dvec3"}},
	}
	_, err := b.UniformFields()
	assert.ErrorIs(t, err, uniform.ErrUnknownKind)
}

func TestRegisterBlocks(t *testing.T) {
	cfg := Default()
	cfg.UniformBlocks = append(cfg.UniformBlocks, BlockConfig{
		Name: "Lights",
		Fields: []FieldConfig{
			{Name: "position", Kind: "vec3"},
			{Name: "intensity", Kind: "float"},
		},
	})

	r := uniform.NewRegistry(nil)
	require.NoError(t, cfg.RegisterBlocks(r))

	m, err := r.Lookup("Matrices")
	require.NoError(t, err)
	assert.Equal(t, uint32(128), m.Plan().TotalSize())

	l, err := r.Lookup("Lights")
	require.NoError(t, err)
	assert.Equal(t, uint32(16), l.Plan().TotalSize())

	// Registering twice fails on the duplicate name
	assert.ErrorIs(t, cfg.RegisterBlocks(r), uniform.ErrDuplicateBlock)
}

func TestRegisterBlocksArrayTooLarge(t *testing.T) {
	configPath := writeConfig(t, "huge.yaml", `
uniform_blocks:
  - name: Huge
    fields:
      - {name: colors, kind: vec4, array: 268435456}
      - {name: count, kind: float}
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	r := uniform.NewRegistry(nil)
	assert.ErrorIs(t, cfg.RegisterBlocks(r), uniform.ErrFieldTooLarge)
	assert.Empty(t, r.Names())
}

func TestSaveTo(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "subdir", name)

			cfg := Default()
			cfg.Terrain.Rows = 99
			cfg.Logging.Level = "debug"
			require.NoError(t, cfg.SaveTo(configPath))

			loaded := Default()
			require.NoError(t, loadFromFile(loaded, configPath))

			assert.Equal(t, 99, loaded.Terrain.Rows)
			assert.Equal(t, "debug", loaded.Logging.Level)
			require.Len(t, loaded.UniformBlocks, 1)
			assert.Len(t, loaded.UniformBlocks[0].Fields, 2)
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	require.NotEmpty(t, dir)
	assert.Equal(t, "meshforge", filepath.Base(dir))
}
