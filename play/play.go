// Package play contains the playback scheduler: it drives an interruptible
// sequence over an encoded Morse message, sounding the symbols through a
// synthesizer, waiting out the gaps, and publishing the current playback
// position for highlighting.
package play

import (
	"context"
	"time"

	"github.com/ftl/digimodes/cw"
)

const (
	// DefaultWPM is the default playback speed.
	DefaultWPM = 20
	// DefaultPitch is the default tone frequency in Hz.
	DefaultPitch = 700

	MinWPM   = 5
	MaxWPM   = 40
	MinPitch = 300
	MaxPitch = 1000
)

// Settings contains the user-adjustable playback parameters. The scheduler
// reads them at the start of each element, changes during a run take effect
// from the next element.
type Settings struct {
	WPM    int
	Pitch  int
	Repeat bool
}

// DefaultSettings returns the playback defaults.
func DefaultSettings() Settings {
	return Settings{
		WPM:   DefaultWPM,
		Pitch: DefaultPitch,
	}
}

// Clamped returns a copy of the settings with all values forced into their
// valid range.
func (s Settings) Clamped() Settings {
	result := s
	result.WPM = clamp(result.WPM, MinWPM, MaxWPM)
	result.Pitch = clamp(result.Pitch, MinPitch, MaxPitch)
	return result
}

func clamp(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Highlight is the current playback position: the index into the Morse code
// and the rune index of the source character it belongs to.
type Highlight struct {
	Code int
	Text int
}

// Indicator receives the highlight after every playback step. HideHighlight
// is called on every exit path of a run, regardless of how it ended.
type Indicator interface {
	ShowHighlight(highlight Highlight)
	HideHighlight()
}

// Reporter receives the lifecycle events of playback runs.
type Reporter interface {
	PlaybackStarted()
	PlaybackStopped()
	PlaybackFailed(err error)
}

// Synthesizer sounds a single CW symbol and returns after its wall-clock
// duration, or promptly when the given context is cancelled.
type Synthesizer interface {
	PlayTone(ctx context.Context, symbol cw.Symbol, wpm int, pitch float64) error
}

type nullIndicator struct{}

func (i *nullIndicator) ShowHighlight(Highlight) {}
func (i *nullIndicator) HideHighlight()          {}

type nullReporter struct{}

func (r *nullReporter) PlaybackStarted()     {}
func (r *nullReporter) PlaybackStopped()     {}
func (r *nullReporter) PlaybackFailed(error) {}

func wait(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
