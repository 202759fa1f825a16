// Package notify plays a short tone when a batch finishes.
package notify

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

const (
	sampleRate = 44100
	toneHz     = 880
	toneLength = 180 * time.Millisecond
)

// Chime owns an audio context for the lifetime of the app
type Chime struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	samples  []byte
}

// NewChime initializes the audio backend
func NewChime() (*Chime, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return &Chime{
		malgoCtx: ctx,
		samples:  tone(sampleRate, toneHz, toneLength),
	}, nil
}

// Play blocks until the tone has been played
func (c *Chime) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.malgoCtx == nil {
		return fmt.Errorf("chime is closed")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = sampleRate

	pos := 0
	done := make(chan struct{})
	var once sync.Once
	onData := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		n := copy(pOutputSample, c.samples[pos:])
		pos += n
		clear(pOutputSample[n:])
		if pos >= len(c.samples) {
			once.Do(func() { close(done) })
		}
	}

	device, err := malgo.InitDevice(c.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onData,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	select {
	case <-done:
	case <-time.After(toneLength + time.Second):
	}
	device.Stop()
	return nil
}

// Close releases resources
func (c *Chime) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.malgoCtx != nil {
		_ = c.malgoCtx.Uninit()
		c.malgoCtx.Free()
		c.malgoCtx = nil
	}
	return nil
}

// tone renders a sine wave as 16-bit little-endian mono PCM with a short
// linear fade at both ends to avoid clicks
func tone(rate, hz int, d time.Duration) []byte {
	n := int(int64(rate) * int64(d) / int64(time.Second))
	fade := rate / 100
	buf := make([]byte, n*2)

	for i := 0; i < n; i++ {
		amp := 0.3
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if n-i < fade {
			amp *= float64(n-i) / float64(fade)
		}
		v := amp * math.Sin(2*math.Pi*float64(hz)*float64(i)/float64(rate))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return buf
}
