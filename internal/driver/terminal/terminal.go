// Package terminal implements a raw mode terminal peripheral driver. The
// frame buffer is rendered with ANSI escapes, pad keys are read from stdin
// and the tone is the terminal bell. Terminals report key presses but no
// releases, so a key counts as pressed for a short hold duration after its
// byte was read.
package terminal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/term/termios"
	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/driver"
	"golang.org/x/sys/unix"
)

const (
	// keyHoldDuration is how long a read key byte counts as pressed.
	keyHoldDuration = 150 * time.Millisecond

	escapeKey = 0x1B
)

// Compile-time check to ensure Driver implements driver.Driver.
var _ driver.Driver = (*Driver)(nil)

// Driver is the raw mode terminal backed peripheral driver.
type Driver struct {
	originalTerminalConfig unix.Termios
	keyBuffer              chan byte
	pressedAt              [chip8.NumKeys]time.Time
	toneActive             bool
}

// padKeys maps the left side of a QWERTY keyboard onto the hex key pad:
// 1234/qwer/asdf/zxcv.
var padKeys = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// New switches the terminal to raw mode and starts reading stdin.
func New() (*Driver, error) {
	d := &Driver{
		keyBuffer: make(chan byte, 8),
	}

	if err := d.enableRawMode(); err != nil {
		return nil, err
	}

	// clear screen and hide the cursor
	fmt.Print("\x1b[2J\x1b[?25l")

	go d.pollStdin()
	return d, nil
}

// Render draws the frame buffer with two terminal cells per pixel.
func (d *Driver) Render(frame *chip8.Frame) error {
	var sb strings.Builder
	sb.WriteString("\x1b[H")

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if frame[y][x] {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\r\n")
	}

	if _, err := os.Stdout.WriteString(sb.String()); err != nil {
		return fmt.Errorf("writing frame to terminal: %w", err)
	}
	return nil
}

// Poll drains buffered key bytes into the pad key state and expires keys
// whose hold duration passed. Escape requests termination.
func (d *Driver) Poll(keys *chip8.KeyState) (bool, error) {
	for {
		select {
		case b := <-d.keyBuffer:
			if b == escapeKey {
				return true, nil
			}
			key, ok := padKeys[b]
			if !ok {
				continue
			}
			keys[key] = true
			d.pressedAt[key] = time.Now()

		default:
			for key := 0; key < chip8.NumKeys; key++ {
				if keys[key] && time.Since(d.pressedAt[key]) > keyHoldDuration {
					keys[key] = false
				}
			}
			return false, nil
		}
	}
}

// SetToneActive rings the terminal bell when the tone starts.
func (d *Driver) SetToneActive(active bool) {
	if active && !d.toneActive {
		fmt.Print("\a")
	}
	d.toneActive = active
}

// Close restores the cursor and the terminal configuration.
func (d *Driver) Close() error {
	fmt.Print("\x1b[?25h")
	return d.disableRawMode()
}

// enableRawMode configures the terminal to deliver key bytes unbuffered and
// unechoed. Signal handling stays enabled so Ctrl-C still cancels.
func (d *Driver) enableRawMode() error {
	if err := termios.Tcgetattr(os.Stdin.Fd(), &d.originalTerminalConfig); err != nil {
		return fmt.Errorf("reading terminal configuration: %w", err)
	}

	raw := d.originalTerminalConfig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &raw); err != nil {
		return fmt.Errorf("setting terminal raw mode: %w", err)
	}
	return nil
}

func (d *Driver) disableRawMode() error {
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &d.originalTerminalConfig); err != nil {
		return fmt.Errorf("restoring terminal configuration: %w", err)
	}
	return nil
}

// pollStdin reads key bytes from stdin into the key buffer.
func (d *Driver) pollStdin() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		select {
		case d.keyBuffer <- buf[0]:
		default: // drop when the host loop is behind
		}
	}
}
