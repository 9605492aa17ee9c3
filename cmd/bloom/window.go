package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/bloom/ebitenhost"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play the show in a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = s.log.Sync() }()

		showFPS, _ := cmd.Flags().GetBool("fps")
		debug, _ := cmd.Flags().GetBool("debug")
		exit, _ := cmd.Flags().GetBool("exit")
		shots, _ := cmd.Flags().GetString("screenshots")

		g := ebitenhost.NewGame(ebitenhost.RunConfig{
			Title:         "bloom",
			Width:         int(s.file.Width),
			Height:        int(s.file.Height),
			ShowFPS:       showFPS,
			Debug:         debug,
			ScreenshotDir: shots,
			Logger:        s.log,
		})
		stage, runner, err := s.play(s.host(g.Host()), g)
		if err != nil {
			return err
		}
		g.OnClick, g.OnDrag = pointerActions(stage)
		if exit {
			g.OnUpdate = func() error {
				if runner.Done() {
					return ebiten.Termination
				}
				return nil
			}
		}
		s.log.Info("opening window", zap.Int("systems", len(stage.Systems())))
		return ebitenhost.Run(g)
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)

	windowCmd.Flags().Bool("fps", false, "show the FPS overlay")
	windowCmd.Flags().Bool("debug", false, "print frame timings to stderr")
	windowCmd.Flags().Bool("exit", false, "close the window when the show's cues finish")
	windowCmd.Flags().String("screenshots", "screenshots", "directory for screenshot cues")
}
