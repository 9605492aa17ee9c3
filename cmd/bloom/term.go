package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/bloom/termhost"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Play the show in the terminal",
	Long: `Plays the show on the terminal's cell grid. Click to pop hearts, drag to
leave a trail, press Esc or q to quit. Logs go to --log-file, or nowhere, so
they do not tear the display.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("log-file"); path == "" {
			_ = cmd.Flags().Set("log-level", "fatal")
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = s.log.Sync() }()

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()
		screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

		term := termhost.New(screen, termhost.Config{
			Bounds: s.file.Bounds(),
			Logger: s.log,
		})
		stage, _, err := s.play(s.host(term.Host()), nil)
		if err != nil {
			return err
		}
		term.OnClick, term.OnDrag = pointerActions(stage)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s.log.Info("running in terminal", zap.Int("systems", len(stage.Systems())))
		err = term.Run(ctx)
		stage.StopAll()
		return err
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
}
