package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/phanxgames/bloom"
	"github.com/phanxgames/bloom/metrics"
	"github.com/phanxgames/bloom/show"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "bloom",
	Short: "bloom plays procedural celebration animations",
	Long: `bloom runs confetti, sparkles, balloons, fireworks, hearts, heart rain and a
growing heart tree, either freely or following the cues of a show file.`,
	SilenceUsage: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("show", "", "show file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "random seed; overrides the show file, 0 seeds from the clock")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console or json)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
}

// session is what every subcommand shares: the show, its logger and its
// metrics.
type session struct {
	file *show.File
	log  *zap.Logger
	reg  *prometheus.Registry
	obs  *metrics.Observer
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	f := show.Default()
	if path, _ := flags.GetString("show"); path != "" {
		var err error
		if f, err = show.Load(path); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		f.Seed, _ = flags.GetUint64("seed")
	}
	if f.Seed == 0 {
		f.Seed = uint64(time.Now().UnixNano())
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		f.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		f.Logging.Format = v
	}
	logFile, _ := flags.GetString("log-file")
	log, err := newLogger(f.Logging, logFile)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	obs, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	if addr, _ := flags.GetString("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler(reg))
			log.Info("serving metrics", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}
	log.Info("show loaded",
		zap.Uint64("seed", f.Seed),
		zap.Float64("width", f.Width),
		zap.Float64("height", f.Height),
		zap.Int("systems", len(f.Systems)),
		zap.Int("cues", len(f.Cues)))
	return &session{file: f, log: log, reg: reg, obs: obs}, nil
}

// host fills in the session-wide collaborators on a host's clock and
// surface.
func (s *session) host(h bloom.Host) bloom.Host {
	h.Bounds = s.file.Bounds()
	h.Rand = bloom.NewRand(s.file.Seed)
	h.Logger = s.log.Named("bloom")
	h.Observer = s.obs
	return h
}

// play builds the show's stage on h and starts it: the cue runner when the
// show has cues, every system otherwise.
func (s *session) play(h bloom.Host, shots show.Screenshotter) (*bloom.Stage, *show.Runner, error) {
	stage, err := show.Build(s.file, h)
	if err != nil {
		return nil, nil, err
	}
	runner, err := show.NewRunner(stage, s.file.Cues, h.Clock, shots, s.log)
	if err != nil {
		return nil, nil, err
	}
	if len(s.file.Cues) == 0 {
		stage.StartAll()
	} else {
		runner.Start()
	}
	return stage, runner, nil
}

func newLogger(cfg show.LoggingConfig, path string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if path != "" {
		zapCfg.OutputPaths = []string{path}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}

// pointerActions routes pointer input to the interactive systems: a click
// pops a heart (or bursts confetti without hearts), a drag leaves a trail.
func pointerActions(stage *bloom.Stage) (click, drag func(x, y float64)) {
	hearts, _ := stage.Lookup("hearts")
	confetti, _ := stage.Lookup("confetti")
	fireworks, _ := stage.Lookup("fireworks")
	click = func(x, y float64) {
		if h, ok := hearts.(*bloom.HeartSystem); ok {
			h.Click(x, y)
		} else if c, ok := confetti.(bloom.Burster); ok {
			c.Burst(x, y, 0)
		}
		if f, ok := fireworks.(bloom.Burster); ok {
			f.Burst(x, y, 0)
		}
	}
	drag = func(x, y float64) {
		if h, ok := hearts.(*bloom.HeartSystem); ok {
			h.Trail(x, y)
		}
	}
	return click, drag
}
