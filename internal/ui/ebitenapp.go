// Package ui implements a windowed front end over internal/emu using ebiten,
// keeping the teacher's Game interface shape (Update/Draw/Layout) trimmed to
// the emulation loop, framebuffer blit, and joypad polling — save states,
// CGB compatibility palettes, and audio streaming are explicit non-goals of
// this core and are not implemented here.
package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sm83core/gbcore/internal/emu"
)

// App is an ebiten.Game driving one emu.Machine.
type App struct {
	cfg Config
	m   *emu.Machine
	tex *ebiten.Image

	paused bool
	fast   bool

	lastTime time.Time
	frameAcc float64
}

// NewApp wires a windowed front end around an already-configured Machine.
func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{cfg: cfg, m: m, lastTime: time.Now()}
}

// Run blocks running the ebiten game loop until the window closes.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	var btn emu.Buttons
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		btn.Right = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		btn.Left = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		btn.Up = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		btn.Down = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		btn.A = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		btn.B = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		btn.Start = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		btn.Select = true
	}
	a.m.SetButtons(btn)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.ResetPostBoot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && a.paused {
		a.m.StepFrame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if a.paused {
		return nil
	}

	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.lastTime = now

	const gbFPS = 4194304.0 / 70224.0 // ~59.7275
	speed := 1.0
	if a.fast {
		speed = 4.0
	}
	a.frameAcc += dt * gbFPS * speed

	steps := 0
	for a.frameAcc >= 1.0 && steps < 10 { // cap to avoid a spiral of death
		a.m.StepFrame()
		a.frameAcc -= 1.0
		steps++
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
