package audio

import (
	"math"
	"sync"
	"time"
)

const (
	defaultFade   = 10 * time.Millisecond
	defaultVolume = 0.8
)

// Oscillator generates a keyed sine tone. The amplitude follows a linear ramp
// over the configured fade time on key-down and key-up, so the edges of a
// tone do not produce audible clicks. While unkeyed and fully ramped down the
// oscillator outputs silence.
//
// Synth is called by the playback stream from its own goroutine, all other
// methods are safe for concurrent use.
type Oscillator struct {
	lock       sync.Mutex
	sampleRate int
	tap        *Tap

	pitch     float64
	volume    float32
	keyed     bool
	phase     float64
	rampLen   int
	rampLevel int
}

func NewOscillator(sampleRate int, tap *Tap) *Oscillator {
	result := &Oscillator{
		sampleRate: sampleRate,
		tap:        tap,
		volume:     defaultVolume,
	}
	result.SetFade(defaultFade)
	return result
}

// SetPitch sets the tone frequency in Hz, effective from the next sample.
func (o *Oscillator) SetPitch(pitch float64) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.pitch = pitch
}

// SetVolume sets the target amplitude in [0, 1].
func (o *Oscillator) SetVolume(volume float64) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.volume = float32(volume)
}

// SetFade sets the ramp duration that is applied on key-down and key-up.
func (o *Oscillator) SetFade(fade time.Duration) {
	o.lock.Lock()
	defer o.lock.Unlock()
	rampLen := int(float64(o.sampleRate) * fade.Seconds())
	if rampLen < 1 {
		rampLen = 1
	}
	o.rampLen = rampLen
}

// SetKeyed keys the tone on or off. The amplitude ramps from the current
// level, so keying off in the middle of the key-down ramp never jumps.
func (o *Oscillator) SetKeyed(keyed bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.keyed = keyed
}

// Silent indicates that the oscillator is unkeyed and fully ramped down.
func (o *Oscillator) Silent() bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	return !o.keyed && o.rampLevel == 0
}

// Synth fills the given buffer with samples. It implements the generator
// contract of pulse.Float32Reader and routes all output through the analysis
// tap before it reaches the sink.
func (o *Oscillator) Synth(out []float32) (int, error) {
	o.lock.Lock()

	phaseIncrement := 2 * math.Pi * o.pitch / float64(o.sampleRate)
	for i := range out {
		o.phase += phaseIncrement
		if o.phase > 2*math.Pi {
			o.phase -= 2 * math.Pi
		}

		if o.keyed {
			if o.rampLevel < o.rampLen {
				o.rampLevel++
			}
		} else if o.rampLevel > 0 {
			o.rampLevel--
			if o.rampLevel > o.rampLen {
				o.rampLevel = o.rampLen
			}
		}

		if o.rampLevel == 0 {
			out[i] = 0
			continue
		}
		gain := o.volume
		if o.rampLevel < o.rampLen {
			gain *= float32(o.rampLevel) / float32(o.rampLen)
		}
		out[i] = float32(math.Sin(o.phase)) * gain
	}
	o.lock.Unlock()

	if o.tap != nil {
		o.tap.Write(out)
	}
	return len(out), nil
}
