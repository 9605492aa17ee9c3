package show

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlShow = `
seed: 42
width: 800
logging:
  level: debug
systems:
  confetti:
    chance: 0
    max_entities: "40"
    palette: "#FF0000,#00FF00"
  sparkles:
    spawn_every: 250ms
  hearts: {}
cues:
  - action: start
    system: confetti
  - action: burst
    system: confetti
    x: 100
    y: 100
    count: 10
  - action: wait
    frames: 3
  - action: clear
    system: confetti
  - action: screenshot
    label: end
`

const tomlShow = `
seed = 42
width = 800

[logging]
level = "debug"

[systems.confetti]
chance = 0
max_entities = 40
palette = ["#FF0000", "#00FF00"]

[systems.sparkles]
spawn_every = "250ms"

[systems.hearts]

[[cues]]
action = "start"
system = "confetti"

[[cues]]
action = "burst"
system = "confetti"
x = 100.0
y = 100.0
count = 10

[[cues]]
action = "wait"
frames = 3

[[cues]]
action = "clear"
system = "confetti"

[[cues]]
action = "screenshot"
label = "end"
`

type shotLog []string

func (s *shotLog) Screenshot(label string) { *s = append(*s, label) }

func newHost(f *File) (bloom.Host, *bloom.FrameClock, *bloom.MemorySurface) {
	clock := bloom.NewFrameClock()
	surf := bloom.NewMemorySurface()
	return bloom.Host{
		Clock:   clock,
		Surface: surf,
		Bounds:  f.Bounds(),
		Rand:    bloom.NewRand(f.Seed),
	}, clock, surf
}

func TestParseFormats(t *testing.T) {
	for _, tc := range []struct {
		format string
		data   string
	}{
		{"yaml", yamlShow},
		{"toml", tomlShow},
	} {
		t.Run(tc.format, func(t *testing.T) {
			f, err := Parse([]byte(tc.data), tc.format)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), f.Seed)
			assert.Equal(t, 800.0, f.Width)
			assert.Equal(t, 720.0, f.Height, "height keeps its default")
			assert.Equal(t, "debug", f.Logging.Level)
			assert.Equal(t, "console", f.Logging.Format, "format keeps its default")
			assert.Len(t, f.Systems, 3)
			require.Len(t, f.Cues, 5)
			assert.Equal(t, Cue{Action: "burst", System: "confetti", X: 100, Y: 100, Count: 10}, f.Cues[1])
			assert.Equal(t, 3, f.Cues[2].Frames)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("seed: [1"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("seed = "), "toml")
	assert.Error(t, err)
	_, err = Parse([]byte("{}"), "json")
	assert.ErrorContains(t, err, "unsupported format")
	_, err = Parse([]byte("width: -1"), "yaml")
	assert.ErrorContains(t, err, "size must be positive")
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{"a.yaml": yamlShow, "b.YML": yamlShow, "c.toml": tomlShow} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		f, err := Load(path)
		require.NoError(t, err, name)
		assert.Len(t, f.Cues, 5, name)
	}
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildAppliesOptions(t *testing.T) {
	f, err := Parse([]byte(yamlShow), "yaml")
	require.NoError(t, err)
	h, _, _ := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)

	var names []string
	for _, sys := range st.Systems() {
		names = append(names, sys.Name())
		assert.False(t, sys.Running(), sys.Name())
	}
	assert.Equal(t, []string{"hearts", "sparkles", "confetti"}, names)

	sys, _ := st.Lookup("confetti")
	confetti := sys.(*bloom.ConfettiSystem)
	confetti.Start()
	confetti.Burst(10, 10, 100)
	assert.Equal(t, 40, confetti.Len(), "max_entities override caps the burst")
}

func TestBuildDefaultsToEverySystem(t *testing.T) {
	f := Default()
	h, _, _ := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)
	require.Len(t, st.Systems(), len(Names))
	for i, sys := range st.Systems() {
		assert.Equal(t, Names[i], sys.Name())
	}
}

func TestBuildErrors(t *testing.T) {
	f := Default()
	f.Systems = map[string]map[string]any{"lasers": nil}
	h, _, _ := newHost(f)
	_, err := Build(f, h)
	assert.ErrorContains(t, err, `unknown system "lasers"`)

	f.Systems = map[string]map[string]any{"confetti": {"max_entities": 0}}
	_, err = Build(f, h)
	var cfgErr *bloom.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "max_entities", cfgErr.Field)
}

func TestRunnerPlaysCues(t *testing.T) {
	f, err := Parse([]byte(yamlShow), "yaml")
	require.NoError(t, err)
	h, clock, _ := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)

	var shots shotLog
	r, err := NewRunner(st, f.Cues, clock, &shots, nil)
	require.NoError(t, err)
	r.Start()

	sys, _ := st.Lookup("confetti")
	confetti := sys.(*bloom.ConfettiSystem)

	clock.Step() // start
	assert.True(t, confetti.Running())
	clock.Step() // burst
	assert.Equal(t, 10, confetti.Len())
	clock.Step() // wait 3
	clock.Step()
	clock.Step()
	assert.Equal(t, 10, confetti.Len(), "wait holds for three frames")
	clock.Step() // clear
	assert.Equal(t, 0, confetti.Len())
	assert.False(t, r.Done())
	clock.Step() // screenshot
	assert.Equal(t, shotLog{"end"}, shots)
	assert.True(t, r.Done())

	sparkles, _ := st.Lookup("sparkles")
	assert.False(t, sparkles.Running(), "only cued systems start")
}

func TestRunnerWholeStageCues(t *testing.T) {
	f := Default()
	f.Systems = map[string]map[string]any{"sparkles": nil, "balloons": nil}
	h, clock, surf := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)

	cues := []Cue{
		{Action: "start"},
		{Action: "wait", Frames: 2},
		{Action: "suspend"},
		{Action: "resume"},
		{Action: "stop"},
		{Action: "clear"},
	}
	r, err := NewRunner(st, cues, clock, nil, nil)
	require.NoError(t, err)
	r.Start()

	clock.Step()
	for _, sys := range st.Systems() {
		assert.True(t, sys.Running(), sys.Name())
	}
	clock.Step() // wait 2
	clock.Step()
	assert.False(t, st.Suspended())
	clock.Step()
	assert.True(t, st.Suspended())
	clock.Step()
	assert.False(t, st.Suspended())
	clock.Step()
	for _, sys := range st.Systems() {
		assert.False(t, sys.Running(), sys.Name())
	}
	assert.Positive(t, surf.Live(), "balloons released on start")
	clock.Step()
	assert.Zero(t, surf.Live())
	assert.True(t, r.Done())
	assert.Zero(t, clock.Pending(), "a finished runner stops ticking")
}

func TestRunnerHeartActions(t *testing.T) {
	f := Default()
	f.Systems = map[string]map[string]any{"hearts": {"spawn_every": "10s"}}
	h, clock, surf := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)

	cues := []Cue{
		{Action: "trail", System: "hearts", X: 10, Y: 10},
		{Action: "click", System: "hearts", X: 20, Y: 20},
		{Action: "explode", System: "hearts", X: 30, Y: 30, Count: 5},
	}
	r, err := NewRunner(st, cues, clock, nil, nil)
	require.NoError(t, err)
	r.Start()
	clock.Advance(3)
	assert.Equal(t, 7, surf.Live())
	assert.True(t, r.Done())
}

func TestNewRunnerRejectsBadCues(t *testing.T) {
	f := Default()
	f.Systems = map[string]map[string]any{"sparkles": nil, "tree": nil}
	h, clock, _ := newHost(f)
	st, err := Build(f, h)
	require.NoError(t, err)

	for _, tc := range []struct {
		cue  Cue
		want string
	}{
		{Cue{Action: "dance"}, `unknown action "dance"`},
		{Cue{Action: "start", System: "lasers"}, `no system "lasers"`},
		{Cue{Action: "burst", System: "sparkles"}, "sparkles cannot burst"},
		{Cue{Action: "burst"}, "needs a system"},
		{Cue{Action: "click", System: "tree"}, "tree cannot click"},
		{Cue{Action: "wait"}, "frames must be positive"},
		{Cue{Action: "screenshot"}, "needs a label"},
	} {
		_, err := NewRunner(st, []Cue{{Action: "start"}, tc.cue}, clock, nil, nil)
		assert.ErrorContains(t, err, "cue 1: ")
		assert.ErrorContains(t, err, tc.want)
	}

	_, err = NewRunner(st, []Cue{{Action: "reset", System: "tree"}}, clock, nil, nil)
	assert.NoError(t, err)
}
