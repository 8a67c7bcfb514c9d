// Package sdl implements the SDL2 peripheral driver: a window presenting the
// frame buffer, keyboard events feeding the pad key state and a queued audio
// device playing the sound timer tone.
package sdl

import (
	"fmt"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/driver"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	windowTitle = "chip8emu"

	// bytes per pixel of the streaming texture (RGBA)
	pixelDepth = 4
)

// Compile-time check to ensure Driver implements driver.Driver.
var _ driver.Driver = (*Driver)(nil)

// Driver is the SDL2 backed peripheral driver.
type Driver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audio    sdl.AudioDeviceID

	pixels []byte // texture staging buffer
	tone   []byte // one second of square wave samples
}

// New creates a window sized to the display resolution multiplied by scale
// and opens the audio playback device.
func New(scale int) (*Driver, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	d := &Driver{
		pixels: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*pixelDepth),
	}

	var err error
	d.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED),
		int32(chip8.DisplayWidth*scale), int32(chip8.DisplayHeight*scale),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	d.renderer, err = sdl.CreateRenderer(d.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	d.texture, err = d.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING), chip8.DisplayWidth, chip8.DisplayHeight)
	if err != nil {
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	if err := d.openAudio(); err != nil {
		return nil, err
	}

	return d, nil
}

// Render presents the frame buffer, green pixels on black.
func (d *Driver) Render(frame *chip8.Frame) error {
	i := 0
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			var green byte
			if frame[y][x] {
				green = 0xFF
			}
			d.pixels[i] = 0x00      // red
			d.pixels[i+1] = green   // green
			d.pixels[i+2] = 0x00    // blue
			d.pixels[i+3] = 0xFF    // alpha
			i += pixelDepth
		}
	}

	if err := d.texture.Update(nil, d.pixels, chip8.DisplayWidth*pixelDepth); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	d.renderer.Present()
	return nil
}

// padKeys maps the left side of a QWERTY keyboard onto the hex key pad:
// 1234/qwer/asdf/zxcv.
var padKeys = map[sdl.Keycode]byte{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

// Poll drains the SDL event queue and updates the pad key state.
// Closing the window or pressing Escape requests termination.
func (d *Driver) Poll(keys *chip8.KeyState) (bool, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return true, nil

		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return true, nil
			}
			key, ok := padKeys[ev.Keysym.Sym]
			if !ok {
				continue
			}
			keys[key] = ev.Type == sdl.KEYDOWN
		}
	}
	return false, nil
}

// Close destroys the SDL resources.
func (d *Driver) Close() error {
	sdl.CloseAudioDevice(d.audio)
	_ = d.texture.Destroy()
	_ = d.renderer.Destroy()
	_ = d.window.Destroy()
	sdl.Quit()
	return nil
}
