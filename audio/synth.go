package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/ftl/digimodes/cw"
)

// Dit and dash durations follow the PARIS standard: a dit lasts
// 60 / (50 * wpm) seconds, a dash three times as long.
const ditsPerMinute = 50

// DitDuration returns the duration of one dit at the given speed.
func DitDuration(wpm int) time.Duration {
	return time.Minute / time.Duration(ditsPerMinute*wpm)
}

// SymbolDuration returns the duration of the given symbol at the given speed.
func SymbolDuration(symbol cw.Symbol, wpm int) time.Duration {
	switch symbol {
	case cw.Da:
		return 3 * DitDuration(wpm)
	default:
		return DitDuration(wpm)
	}
}

// Synthesizer plays single CW symbols as audible tones through a ToneSource.
type Synthesizer struct {
	source ToneSource
	fade   time.Duration
}

func NewSynthesizer(source ToneSource) *Synthesizer {
	return &Synthesizer{
		source: source,
		fade:   defaultFade,
	}
}

// PlayTone sounds the given symbol at the given speed and pitch. It returns
// after the symbol's wall-clock duration has elapsed, or promptly with
// ctx.Err() when the context is cancelled mid-tone. If the audio output
// cannot be acquired, it fails with ErrAudioUnavailable.
func (s *Synthesizer) PlayTone(ctx context.Context, symbol cw.Symbol, wpm int, pitch float64) error {
	oscillator, err := s.source.AcquireOscillator()
	if err != nil {
		return fmt.Errorf("cannot play tone: %w", err)
	}

	duration := SymbolDuration(symbol, wpm)

	// the ramps must never overlap, short tones skip the hold phase instead
	fade := s.fade
	if duration < 2*fade {
		fade = duration / 2
	}

	oscillator.SetPitch(pitch)
	oscillator.SetFade(fade)
	oscillator.SetKeyed(true)
	defer oscillator.SetKeyed(false)

	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
