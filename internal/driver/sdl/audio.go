package sdl

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
)

// openAudio opens the default playback device, paused, and prepares one
// second of square wave samples to queue while the tone is active.
func (d *Driver) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var actualSpec sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	d.audio = id

	// square wave, half period per phase
	d.tone = make([]byte, sampleRate)
	halfPeriod := sampleRate / (2 * toneFrequency)
	for i := range d.tone {
		if i/halfPeriod%2 == 0 {
			d.tone[i] = actualSpec.Silence + 0x20
		} else {
			d.tone[i] = actualSpec.Silence
		}
	}

	return nil
}

// SetToneActive unpauses the audio device and keeps square wave samples
// queued while the sound timer is running, and silences it otherwise.
func (d *Driver) SetToneActive(active bool) {
	if !active {
		sdl.PauseAudioDevice(d.audio, true)
		sdl.ClearQueuedAudio(d.audio)
		return
	}

	if sdl.GetQueuedAudioSize(d.audio) < uint32(len(d.tone)) {
		_ = sdl.QueueAudio(d.audio, d.tone)
	}
	sdl.PauseAudioDevice(d.audio, false)
}
