// Package ebitenhost runs bloom systems in an Ebitengine window. It provides
// a Surface that draws visuals as vector shapes and triangle meshes, and a
// Game whose Update steps a bloom.FrameClock once per ebiten tick.
package ebitenhost

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/bloom"
	"go.uber.org/zap"
)

// RunConfig configures a Game window.
type RunConfig struct {
	Title         string
	Width         int
	Height        int
	ShowFPS       bool
	Debug         bool
	Background    bloom.Color
	ScreenshotDir string
	// MaxVisuals caps live visuals on the surface; zero means no cap.
	MaxVisuals int
	Logger     *zap.Logger
}

// Game is an ebiten.Game hosting bloom systems.
type Game struct {
	Clock         *bloom.FrameClock
	Surface       *Surface
	Background    bloom.Color
	ScreenshotDir string

	// OnUpdate runs after the clock steps. Returning ebiten.Termination ends
	// the game cleanly.
	OnUpdate func() error
	// OnClick receives left clicks in surface units.
	OnClick func(x, y float64)
	// OnDrag receives the cursor while the left button is held and moving.
	OnDrag func(x, y float64)

	width, height int
	title         string
	fps           *fpsOverlay
	debug         bool
	stats         frameStats
	shots         []string
	lastX, lastY  int
	log           *zap.Logger
}

// NewGame returns a game with its own clock and surface.
func NewGame(cfg RunConfig) *Game {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Background == (bloom.Color{}) {
		cfg.Background = bloom.Color{R: 0.04, G: 0.04, B: 0.07, A: 1}
	}
	g := &Game{
		Clock:         bloom.NewFrameClock(),
		Surface:       NewSurface(),
		Background:    cfg.Background,
		ScreenshotDir: cfg.ScreenshotDir,
		width:         cfg.Width,
		height:        cfg.Height,
		title:         cfg.Title,
		debug:         cfg.Debug,
		log:           cfg.Logger.Named("ebiten"),
	}
	g.Surface.MaxVisuals = cfg.MaxVisuals
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Host returns the collaborators systems need to draw into this game.
func (g *Game) Host() bloom.Host {
	return bloom.Host{
		Clock:   g.Clock,
		Surface: g.Surface,
		Bounds:  bloom.Rect{Width: float64(g.width), Height: float64(g.height)},
		Logger:  g.log.Named("bloom"),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	start := time.Now()
	g.processInput()
	g.Clock.Step()
	var err error
	if g.OnUpdate != nil {
		err = g.OnUpdate()
	}
	if g.debug {
		g.stats.update += time.Since(start)
	}
	return err
}

func (g *Game) processInput() {
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.OnClick != nil {
			g.OnClick(float64(x), float64(y))
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && (x != g.lastX || y != g.lastY) {
		if g.OnDrag != nil {
			g.OnDrag(float64(x), float64(y))
		}
	}
	g.lastX, g.lastY = x, y
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	bg := g.Background
	screen.Fill(color.NRGBA{R: channel(bg.R), G: channel(bg.G), B: channel(bg.B), A: channel(bg.A)})
	g.Surface.Draw(screen)
	g.flushScreenshots(screen)
	if g.fps != nil {
		g.fps.draw(screen, g.Surface.Len())
	}
	if g.debug {
		g.stats.draw += time.Since(start)
		g.stats.frames++
		g.stats.visuals = g.Surface.Len()
		g.debugLog()
	}
}

// Layout implements ebiten.Game. The logical size is fixed.
func (g *Game) Layout(int, int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it closes.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g.log.Debug("window", zap.Int("width", g.width), zap.Int("height", g.height))
	return ebiten.RunGame(g)
}
