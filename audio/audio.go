// Package audio provides the tone generation pipeline: a lazily initialized
// PulseAudio playback context, a keyed sine oscillator with click-free
// amplitude ramps, and an analysis tap for visualization.
package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
)

const (
	defaultSampleRate = 48000
	defaultLatency    = 0.02
)

// ErrAudioUnavailable indicates that the audio output device could not be
// acquired. This is fatal to the current playback run, the next run starts
// over with a fresh acquisition attempt.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// ToneSource provides access to a keyed oscillator. The oscillator is
// acquired lazily, an acquisition failure wraps ErrAudioUnavailable.
type ToneSource interface {
	AcquireOscillator() (*Oscillator, error)
}

// Context owns the shared audio output pipeline. The underlying PulseAudio
// client and playback stream are initialized on first use and reused across
// playback runs until Close is called. A failed initialization is retried on
// the next acquisition, so starting the sound server later does not require
// a restart.
type Context struct {
	applicationName string
	sampleRate      int

	lock       sync.Mutex
	ready      bool
	closed     bool
	client     *pulse.Client
	stream     *pulse.PlaybackStream
	oscillator *Oscillator
	tap        *Tap

	connect func(generator pulse.Float32Reader) (*pulse.Client, *pulse.PlaybackStream, error)
}

func NewContext(applicationName string) *Context {
	result := &Context{
		applicationName: applicationName,
		sampleRate:      defaultSampleRate,
	}
	result.connect = result.connectPulse
	return result
}

// AcquireOscillator initializes the playback pipeline if necessary and
// returns the shared oscillator.
func (c *Context) AcquireOscillator() (*Oscillator, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ensurePipeline(); err != nil {
		return nil, err
	}
	return c.oscillator, nil
}

// Tap returns the analysis tap. The tap exists independently of the playback
// pipeline, so the scope can be wired up before the first tone is played.
func (c *Context) Tap() *Tap {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.tap == nil {
		c.tap = NewTap(c.sampleRate / 10)
	}
	return c.tap
}

// SampleRate of the playback pipeline.
func (c *Context) SampleRate() int {
	return c.sampleRate
}

func (c *Context) ensurePipeline() error {
	if c.closed {
		return ErrAudioUnavailable
	}
	if c.ready {
		return nil
	}

	if c.tap == nil {
		c.tap = NewTap(c.sampleRate / 10)
	}
	oscillator := NewOscillator(c.sampleRate, c.tap)

	client, stream, err := c.connect(pulse.Float32Reader(oscillator.Synth))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}

	c.oscillator = oscillator
	c.client = client
	c.stream = stream
	c.ready = true
	return nil
}

func (c *Context) connectPulse(generator pulse.Float32Reader) (*pulse.Client, *pulse.PlaybackStream, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName(c.applicationName))
	if err != nil {
		return nil, nil, err
	}

	stream, err := client.NewPlayback(generator,
		pulse.PlaybackLatency(defaultLatency),
		pulse.PlaybackSampleRate(c.sampleRate),
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	stream.Start()

	return client, stream, nil
}

// Close releases the playback pipeline. The context cannot be reused
// afterwards.
func (c *Context) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	c.oscillator = nil
	c.ready = false
	c.closed = true
}
