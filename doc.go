// Package bloom is a tick-based procedural animation and physics engine for
// celebratory effects: a tree that grows branch by branch and fills a
// heart-shaped canopy with blooms, floating and bursting hearts, confetti,
// fireworks, balloons and sparkles.
//
// The engine only computes position, rotation, scale and opacity. Drawing is
// done by a host through the [Surface] interface, and frames come from a
// host [Clock]. The ebitenhost and termhost packages provide both for
// Ebitengine windows and terminals; [FrameClock] and [MemorySurface] run the
// engine headless.
//
// # Quick start
//
//	clock := bloom.NewFrameClock()
//	host := bloom.Host{
//		Clock:   clock,
//		Surface: bloom.NewMemorySurface(),
//		Bounds:  bloom.Rect{Width: 1280, Height: 720},
//		Rand:    bloom.NewRand(42),
//	}
//	hearts, err := bloom.NewHeartSystem(host, bloom.DefaultHeartConfig())
//	if err != nil {
//		// invalid configuration
//	}
//	hearts.Start()
//	hearts.Burst(640, 360, 0)
//	clock.Advance(120)
//
// # Mechanisms
//
// Every subsystem is a configuration of the same parts:
//
//   - [Body] integrates one particle-like entity per tick: friction, gravity,
//     velocity or sway motion, spin, growth, and a fade that only ever lowers
//     opacity once triggered.
//   - [Growth] advances quadratic Bézier branches one step per tick and adds
//     a branch's children only once it completes.
//   - [SampleInRegion] places points inside an implicit shape such as
//     [PointInHeart] by bounded rejection sampling.
//   - [Group] owns one population with a hard cap; spawns past the cap are
//     dropped.
//   - [Scheduler] requests a tick every frame while running and runs spawn,
//     update and render in that order.
//   - [Track] drives keyframed one-shot effects with [gween] tweens.
//
// Motion is defined per tick, not per second. A slow host runs the animation
// slower rather than skipping ahead.
//
// # Configuration
//
// Each subsystem has a typed config with a DefaultXConfig constructor and a
// DecodeXConfig function that overlays a loose option map (as read from YAML
// or TOML) onto the defaults. Constructors reject invalid options with a
// [*ConfigError].
//
// [gween]: https://github.com/tanema/gween
package bloom
