package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/phanxgames/bloom"
	"github.com/phanxgames/bloom/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxSimFrames bounds a --frames 0 run whose cues never finish.
const maxSimFrames = 60 * 60 * 10

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the show headless and print population counters",
	Long: `Steps the show on an in-memory surface for a number of frames at 60 per
simulated second and prints per-system spawn, expiry and drop counts. With
--frames 0 the run lasts until the show's cues finish.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = s.log.Sync() }()
		frames, _ := cmd.Flags().GetInt("frames")
		failEvery, _ := cmd.Flags().GetInt("fail-every")

		clock := bloom.NewFrameClock()
		surf := bloom.NewMemorySurface()
		surf.FailEvery = failEvery
		stage, runner, err := s.play(s.host(bloom.Host{Clock: clock, Surface: surf}), nil)
		if err != nil {
			return err
		}

		n := 0
		for ; frames <= 0 || n < frames; n++ {
			if frames <= 0 && (runner.Done() || n >= maxSimFrames) {
				break
			}
			clock.Step()
		}
		stage.StopAll()
		s.log.Info("simulation finished", zap.Int("frames", n), zap.Duration("simulated", clock.Now()))

		rows, err := metrics.Summary(s.reg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "frames: %d  simulated: %v  live visuals: %d\n", n, clock.Now(), surf.Live())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYSTEM\tSPAWNED\tEXPIRED\tDROPPED\tFAILED\tACTIVE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n", r.System, r.Spawned, r.Expired, r.Dropped, r.Failed, r.Active)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(simCmd)

	simCmd.Flags().Int("frames", 600, "frames to simulate; 0 runs until the cues finish")
	simCmd.Flags().Int("fail-every", 0, "make every n-th visual creation fail")
}
