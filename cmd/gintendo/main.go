// Command gintendo is the thin ebiten frontend: it owns the window, the
// key-to-controller mapping, and the audio device, and otherwise gets
// out of the way of the engine running in its own goroutine.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/bdwalton/gintendo/internal/engine"
	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/nesrom"
)

var romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")

const audioSampleRate = 44100

// game adapts a *console.Bus to ebiten.Game; the engine itself has no
// ebiten dependency, only this package does.
type game struct {
	bus *console.Bus
}

// Layout returns the NES's fixed resolution regardless of window size,
// so ebiten scales the framebuffer rather than us redrawing at a
// different resolution.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

func (g *game) Draw(screen *ebiten.Image) {
	pix, w, h := g.bus.Frame()
	if w == 0 || h == 0 {
		return
	}
	screen.WritePixels(pix)
}

// Update polls held keys into the first controller's latch. The engine
// is driven by its own goroutine, not by ebiten's update loop.
func (g *game) Update() error {
	var state uint8
	for bit, key := range keyMap {
		if ebiten.IsKeyPressed(key) {
			state |= bit
		}
	}
	g.bus.SetButtons(0, state)
	return nil
}

var keyMap = map[uint8]ebiten.Key{
	console.ButtonA:      ebiten.KeyZ,
	console.ButtonB:      ebiten.KeyX,
	console.ButtonSelect: ebiten.KeySpace,
	console.ButtonStart:  ebiten.KeyEnter,
	console.ButtonUp:     ebiten.KeyUp,
	console.ButtonDown:   ebiten.KeyDown,
	console.ButtonLeft:   ebiten.KeyLeft,
	console.ButtonRight:  ebiten.KeyRight,
}

// audioStream adapts Bus.PullSamples to the io.Reader ebiten's audio
// player wants: signed 16-bit little-endian stereo PCM, both channels
// carrying the same mono sample since the engine never produces a
// stereo signal.
type audioStream struct {
	bus *console.Bus
}

func (s *audioStream) Read(buf []byte) (int, error) {
	frames := len(buf) / 4 // 2 channels * 2 bytes/sample
	if frames == 0 {
		return 0, nil
	}

	samples := make([]float32, frames)
	n := s.bus.PullSamples(samples)

	for i := 0; i < n; i++ {
		v := int16(samples[i] * 3000) // headroom against clipping
		buf[i*4+0] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v)
		buf[i*4+3] = byte(v >> 8)
	}
	for i := n; i < frames; i++ {
		buf[i*4+0], buf[i*4+1], buf[i*4+2], buf[i*4+3] = 0, 0, 0, 0
	}
	return frames * 4, nil
}

func main() {
	flag.Parse()

	rom, err := nesrom.New(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("Couldn't Get() mapper: %v", err)
	}

	bus := console.New(m)

	ctx, cancel := context.WithCancel(context.Background())
	go bus.Run(ctx)

	audioCtx := audio.NewContext(audioSampleRate)
	player, err := audioCtx.NewPlayer(&audioStream{bus: bus})
	if err != nil {
		log.Fatalf("Couldn't start audio player: %v", err)
	}
	player.Play()

	ebiten.SetWindowSize(256*2, 240*2)
	ebiten.SetWindowTitle("Gintendo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(&game{bus: bus}); err != nil {
		log.Fatal(err)
	}

	cancel()
	os.Exit(0)
}
