package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/bloom"
	"github.com/phanxgames/bloom/show"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const simShow = `
systems:
  confetti:
    chance: 0
  sparkles: {}
cues:
  - action: start
    system: sparkles
  - action: burst
    system: confetti
    x: 100
    y: 100
    count: 5
`

func TestSimPrintsCounters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte(simShow), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sim", "--show", path, "--frames", "120", "--seed", "7", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4, out.String())
	assert.True(t, strings.HasPrefix(lines[0], "frames: 120"), lines[0])
	assert.Equal(t, []string{"SYSTEM", "SPAWNED", "EXPIRED", "DROPPED", "FAILED", "ACTIVE"}, strings.Fields(lines[1]))
	// Confetti never started, so its burst stays put.
	assert.Equal(t, []string{"confetti", "5", "0", "0", "0", "5"}, strings.Fields(lines[2]))
	assert.Equal(t, "sparkles", strings.Fields(lines[3])[0])
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(show.LoggingConfig{Level: "warn", Format: "json"}, "")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = newLogger(show.LoggingConfig{Level: "nonsense"}, filepath.Join(t.TempDir(), "bloom.log"))
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel), "bad levels fall back to info")
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestPointerActions(t *testing.T) {
	clock := bloom.NewFrameClock()
	surf := bloom.NewMemorySurface()
	f := show.Default()
	f.Systems = map[string]map[string]any{"hearts": nil, "confetti": {"chance": 0}}
	stage, err := show.Build(f, bloom.Host{Clock: clock, Surface: surf, Rand: bloom.NewRand(3)})
	require.NoError(t, err)

	click, drag := pointerActions(stage)
	click(100, 100)
	assert.Equal(t, 1, surf.Live(), "a click pops one heart when hearts are on stage")
	drag(110, 100)
	assert.Equal(t, 2, surf.Live())

	f.Systems = map[string]map[string]any{"confetti": {"chance": 0, "burst_count": 12}}
	surf = bloom.NewMemorySurface()
	stage, err = show.Build(f, bloom.Host{Clock: clock, Surface: surf, Rand: bloom.NewRand(3)})
	require.NoError(t, err)
	click, drag = pointerActions(stage)
	click(100, 100)
	drag(100, 100)
	assert.Equal(t, 12, surf.Live(), "without hearts a click bursts confetti")
}
