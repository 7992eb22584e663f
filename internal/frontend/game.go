// Package frontend is the thin ebiten-backed demo shell around the
// core: it owns the window, the keyboard-to-controller mapping, an audio
// ring buffer feeding the APU's sample sink, and the save-state/rewind
// key bindings. Nothing here is part of the emulation core itself — a
// headless caller never needs to import this package.
package frontend

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"nescore/internal/input"
	"nescore/internal/rewind"
	"nescore/internal/savestate"
	"nescore/internal/scheduler"
)

const (
	nesWidth  = 256
	nesHeight = 240
	sampleHz  = 44100
)

// keyBindings maps a keyboard key to the controller button it drives.
// Player one only; a second controller would add its own map the same
// way FourScoreAdapter.Ports[2]/[3] do for four-player boards.
var keyBindings = map[ebiten.Key]input.Button{
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyShiftRight: input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

// rewindCapacity bounds how many frames of history Game keeps for the
// rewind key; at one snapshot per frame this is ten seconds of NTSC
// history.
const rewindCapacity = 600

// Game implements ebiten.Game, driving one Scheduler one frame per Update
// call and presenting its output through an RGBA image each Draw call.
type Game struct {
	sched    *scheduler.Scheduler
	romPath  string
	states   *savestate.Manager
	rewind   *rewind.Buffer
	image    *ebiten.Image
	pixels   []uint8 // RGBA scratch buffer reused every frame
	player   *audio.Player
	audioBuf *ringBuffer
}

// NewGame builds a Game around an already-reset Scheduler. statesDir is
// where save-state slots are written; pass "" to disable save states.
func NewGame(sched *scheduler.Scheduler, romPath, statesDir string) (*Game, error) {
	g := &Game{
		sched:   sched,
		romPath: romPath,
		rewind:  rewind.NewBuffer(rewindCapacity),
		image:   ebiten.NewImage(nesWidth, nesHeight),
		pixels:  make([]uint8, nesWidth*nesHeight*4),
	}

	if statesDir != "" {
		mgr, err := savestate.NewManager(statesDir, 10)
		if err != nil {
			return nil, err
		}
		g.states = mgr
	}

	g.audioBuf = newRingBuffer(sampleHz) // one second of headroom
	sched.Bus().APU().SetSampleSink(g.audioBuf.push)

	ctx := audio.NewContext(sampleHz)
	player, err := ctx.NewPlayer(g.audioBuf)
	if err != nil {
		return nil, fmt.Errorf("creating audio player: %w", err)
	}
	player.Play()
	g.player = player

	return g, nil
}

// Update advances the emulated console by exactly one frame's worth of
// controller input and CPU/PPU/APU work.
func (g *Game) Update() error {
	var buttons uint8
	for key, button := range keyBindings {
		if ebiten.IsKeyPressed(key) {
			buttons |= uint8(button)
		}
	}
	g.sched.SetButtons(0, buttons)

	if g.states != nil {
		g.handleSaveStateKeys()
	}

	g.sched.RunFrame()
	g.rewind.Push(g.sched)
	return nil
}

func (g *Game) handleSaveStateKeys() {
	for slot, key := range map[int]ebiten.Key{
		0: ebiten.KeyF1, 1: ebiten.KeyF2, 2: ebiten.KeyF3, 3: ebiten.KeyF4,
	} {
		shiftHeld := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
		if shiftHeld && ebiten.IsKeyPressed(key) {
			_ = g.states.Save(g.sched, slot, g.romPath, "quick save")
		} else if ebiten.IsKeyPressed(key) {
			_ = g.states.Load(g.sched, slot, g.romPath)
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyBackspace) {
		_ = g.rewind.Rewind(g.sched, 1)
	}
}

// Draw converts the last completed frame's palette-index buffer to RGBA
// and blits it to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	frame := g.sched.Bus().PPU().Frame()
	for i, idx := range frame {
		c := nesPalette[idx&0x3F]
		g.pixels[i*4+0] = c.R
		g.pixels[i*4+1] = c.G
		g.pixels[i*4+2] = c.B
		g.pixels[i*4+3] = 0xFF
	}
	g.image.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	bounds := screen.Bounds()
	sx := float64(bounds.Dx()) / nesWidth
	sy := float64(bounds.Dy()) / nesHeight
	op.GeoM.Scale(sx, sy)
	screen.DrawImage(g.image, op)
}

// Layout keeps the internal image at the NES's native resolution
// regardless of window size; Draw handles the scale-up.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
