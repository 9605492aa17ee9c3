package show

import (
	"fmt"
	"slices"

	"github.com/phanxgames/bloom"
)

type builder func(h bloom.Host, opts map[string]any) (bloom.System, error)

// Names lists every subsystem a show can build, in build order.
var Names = []string{"tree", "particles", "balloons", "rain", "hearts", "sparkles", "fireworks", "confetti"}

var builders = map[string]builder{
	"particles": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeParticleConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewParticleSystem(h, cfg)
	},
	"confetti": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeConfettiConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewConfettiSystem(h, cfg)
	},
	"sparkles": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeSparkleConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewSparkleSystem(h, cfg)
	},
	"balloons": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeBalloonConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewBalloonSystem(h, cfg)
	},
	"fireworks": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeFireworkConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewFireworkSystem(h, cfg)
	},
	"hearts": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeHeartConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewHeartSystem(h, cfg)
	},
	"rain": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeHeartRainConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewHeartRain(h, cfg)
	},
	"tree": func(h bloom.Host, opts map[string]any) (bloom.System, error) {
		cfg, err := bloom.DecodeTreeConfig(opts)
		if err != nil {
			return nil, err
		}
		return bloom.NewTree(h, cfg)
	},
}

// Build constructs the subsystems f names on h, in the order of Names, and
// returns them on a stopped stage. Every system shares h, so one seed fixes
// the whole show.
func Build(f *File, h bloom.Host) (*bloom.Stage, error) {
	for name := range f.Systems {
		if !slices.Contains(Names, name) {
			return nil, fmt.Errorf("build show: unknown system %q", name)
		}
	}
	st := bloom.NewStage()
	for _, name := range Names {
		opts, ok := f.Systems[name]
		if !ok && len(f.Systems) > 0 {
			continue
		}
		sys, err := builders[name](h, opts)
		if err != nil {
			return nil, fmt.Errorf("build show: %w", err)
		}
		if err := st.Add(sys); err != nil {
			return nil, fmt.Errorf("build show: %w", err)
		}
	}
	return st, nil
}
