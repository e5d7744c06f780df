package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("warn", FileConfig{}, &buf))
	defer func() { require.NoError(t, InitWithWriter("info", FileConfig{}, nil)) }()

	Debug("hidden debug")
	Info("hidden info")
	Warn("shown warn")
	Error("shown error")
	Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
	assert.Contains(t, out, "shown error")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("loud", FileConfig{}, &buf))

	Debug("debug line")
	Info("info line")
	Sync()

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "meshforge.log")

	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	require.NoError(t, InitWithWriter("debug", cfg, nil))

	Named("terrain").Info("generated", zap.Int("vertices", 400))
	Sugar.Debugf("block %s planned", "Matrices")
	Sync()

	f, err := os.Open(logFile)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "generated", entries[0]["msg"])
	assert.Equal(t, "terrain", entries[0]["component"])
	assert.EqualValues(t, 400, entries[0]["vertices"])
	assert.Equal(t, "info", entries[0]["level"])

	assert.Equal(t, "debug", entries[1]["level"])
	assert.True(t, strings.HasSuffix(entries[1]["msg"].(string), "planned"))
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("out.log")
	assert.Equal(t, "out.log", cfg.Path)
	assert.Positive(t, cfg.MaxSizeMB)
	assert.Positive(t, cfg.MaxBackups)
	assert.True(t, cfg.Compress)
}
