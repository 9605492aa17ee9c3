package bloom

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"
)

// ConfigError reports an option a subsystem constructor rejected.
type ConfigError struct {
	System string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bloom: %s: invalid %s: %s", e.System, e.Field, e.Reason)
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// DurationRange is a min/max range of durations.
type DurationRange struct {
	Min time.Duration `mapstructure:"min"`
	Max time.Duration `mapstructure:"max"`
}

// Rand returns a uniformly distributed duration in [Min, Max).
func (d DurationRange) Rand(r *rand.Rand) time.Duration {
	if d.Min == d.Max {
		return d.Min
	}
	return d.Min + time.Duration(r.Float64()*float64(d.Max-d.Min))
}

// Ticks returns a random duration converted to ticks, at least one.
func (d DurationRange) Ticks(r *rand.Rand) int {
	return max(Ticks(d.Rand(r)), 1)
}

// Common holds the options every subsystem recognizes.
type Common struct {
	// MaxEntities caps the live population.
	MaxEntities int `mapstructure:"max_entities"`
	// SpawnEvery is the ambient spawn rate: an elapsed-time gate or interval
	// timer, depending on the subsystem.
	SpawnEvery time.Duration `mapstructure:"spawn_every"`
	// Palette is an ordered list of hex colors.
	Palette []string `mapstructure:"palette"`
	// Size is the subsystem's primary size range.
	Size Range `mapstructure:"size"`
}

func (c Common) validate(system string) ([]Color, error) {
	if c.MaxEntities <= 0 {
		return nil, &ConfigError{system, "max_entities", fmt.Sprintf("must be positive, got %d", c.MaxEntities)}
	}
	if c.SpawnEvery < 0 {
		return nil, &ConfigError{system, "spawn_every", "must not be negative"}
	}
	if !c.Size.valid() {
		return nil, &ConfigError{system, "size", fmt.Sprintf("min %g exceeds max %g", c.Size.Min, c.Size.Max)}
	}
	return ParsePalette(system, c.Palette)
}

// ParsePalette converts hex colors ("#FF69B4" or "#f6b") to Colors. An empty
// palette or a malformed entry is a ConfigError.
func ParsePalette(system string, hex []string) ([]Color, error) {
	if len(hex) == 0 {
		return nil, &ConfigError{system, "palette", "is empty"}
	}
	out := make([]Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, &ConfigError{system, "palette", fmt.Sprintf("entry %d %q: %v", i, h, err)}
		}
		out[i] = Color{R: c.R, G: c.G, B: c.B, A: 1}
	}
	return out, nil
}

// ParseColor converts one hex color.
func ParseColor(system, field, hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, &ConfigError{system, field, fmt.Sprintf("%q: %v", hex, err)}
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// decodeOptions overlays a loose option map onto out, which already holds
// defaults. Unknown keys are ignored; strings such as "250ms" decode into
// durations and comma-separated strings into palettes.
func decodeOptions(system string, opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("bloom: %s: build decoder: %w", system, err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("bloom: %s: decode options: %w", system, err)
	}
	return nil
}

func checkHost(system string, h *Host) error {
	if h.Clock == nil {
		return &ConfigError{system, "host.clock", "is nil"}
	}
	if h.Surface == nil {
		return &ConfigError{system, "host.surface", "is nil"}
	}
	return nil
}

func positive(system, field string, v float64) error {
	if v <= 0 {
		return &ConfigError{system, field, fmt.Sprintf("must be positive, got %g", v)}
	}
	return nil
}

func validRange(system, field string, r Range) error {
	if !r.valid() {
		return &ConfigError{system, field, fmt.Sprintf("min %g exceeds max %g", r.Min, r.Max)}
	}
	return nil
}

// validRanges checks field/Range pairs in order.
func validRanges(system string, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validRange(system, pairs[i].(string), pairs[i+1].(Range)); err != nil {
			return err
		}
	}
	return nil
}

func validDurations(system, field string, d DurationRange) error {
	if d.Min <= 0 || d.Min > d.Max {
		return &ConfigError{system, field, fmt.Sprintf("need 0 < min <= max, got %v..%v", d.Min, d.Max)}
	}
	return nil
}

var (
	brightPalette = []string{
		"#FF6B95", "#FFD700", "#00CED1", "#FF69B4",
		"#7B68EE", "#98FB98", "#FF7F50", "#87CEEB",
	}
	confettiPalette = []string{
		"#FF6B95", "#FFD700", "#00CED1", "#FF69B4",
		"#7B68EE", "#98FB98", "#FF7F50", "#87CEEB",
		"#FF4500", "#32CD32", "#FF1493", "#4169E1",
	}
	fireworkPalette = []string{
		"#FF6B95", "#FFD700", "#00CED1", "#FF69B4",
		"#7B68EE", "#FF4500", "#00FF7F", "#FF1493",
		"#4169E1", "#FF8C00", "#9400D3", "#00BFFF",
	}
	balloonPalette = []string{
		"#FF6B95", "#FFD700", "#00CED1", "#9370DB", "#87CEEB", "#98FB98",
	}
	heartPalette = []string{
		"#FF6B95", "#FF8FAB", "#FFB3C6", "#FF69B4", "#FF1493",
		"#DB7093", "#FFB6C1", "#FFC0CB", "#FF85A2", "#FF99AC",
		"#E91E63", "#F06292", "#F48FB1", "#FF4081",
	}
	rainPalette = []string{
		"#FF6B95", "#FF8FAB", "#FFB3C6", "#FF69B4",
		"#FF1493", "#DB7093", "#FFB6C1", "#FFC0CB",
	}
	bloomPalette = []string{
		"#FF69B4", "#FF1493", "#FF6B95", "#FF8FAB", "#FFB6C1",
		"#FFC0CB", "#FF85A2", "#FF99AC", "#FFB3C6", "#FFCCD5",
	}
	heartGlyphs = []string{"❤️", "💖", "💗", "💝", "💕", "💓", "💞", "💘", "💟", "♥️"}
)

func clone[T any](s []T) []T {
	return append([]T(nil), s...)
}
