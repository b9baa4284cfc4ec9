package play

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ftl/digimodes/cw"

	"github.com/ftl/cwplayer/audio"
	"github.com/ftl/cwplayer/morse"
	"github.com/ftl/cwplayer/trace"
)

const (
	tracePlayback = "playback"

	// gap durations in dits, classical 1:3:7 timing
	elementGapDits = 1
	letterGapDits  = 3
	wordGapDits    = 7

	defaultRepeatPause = 1 * time.Second
)

var closedDone = func() chan struct{} {
	result := make(chan struct{})
	close(result)
	return result
}()

// Player schedules the playback of encoded Morse messages. There is at most
// one active run at a time; starting while a run is active stops that run
// instead. All suspension points of a run (tones, gaps, the repeat pause)
// are interruptible through the run's cancellation context.
type Player struct {
	synthesizer Synthesizer
	indicator   Indicator
	reporter    Reporter
	tracer      trace.Tracer

	repeatPause time.Duration
	wait        func(ctx context.Context, d time.Duration) error

	lock     sync.Mutex
	settings Settings
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPlayer(synthesizer Synthesizer, indicator Indicator, reporter Reporter) *Player {
	if indicator == nil {
		indicator = new(nullIndicator)
	}
	if reporter == nil {
		reporter = new(nullReporter)
	}
	return &Player{
		synthesizer: synthesizer,
		indicator:   indicator,
		reporter:    reporter,
		tracer:      new(trace.NoTracer),
		repeatPause: defaultRepeatPause,
		wait:        wait,
		settings:    DefaultSettings(),
	}
}

func (p *Player) SetTracer(tracer trace.Tracer) {
	p.tracer = tracer
}

// Settings returns the current playback settings, clamped to their valid
// range.
func (p *Player) Settings() Settings {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.settings.Clamped()
}

func (p *Player) SetSettings(settings Settings) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.settings = settings.Clamped()
}

func (p *Player) SetWPM(wpm int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.settings.WPM = clamp(wpm, MinWPM, MaxWPM)
}

func (p *Player) SetPitch(pitch int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.settings.Pitch = clamp(pitch, MinPitch, MaxPitch)
}

func (p *Player) SetRepeat(repeat bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.settings.Repeat = repeat
}

// ResetSettings restores the playback defaults.
func (p *Player) ResetSettings() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.settings = DefaultSettings()
}

// Running indicates that a playback run is active.
func (p *Player) Running() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.cancel != nil
}

// Done returns a channel that is closed when the current run ends. If no run
// is active, the returned channel is already closed.
func (p *Player) Done() <-chan struct{} {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.done == nil {
		return closedDone
	}
	return p.done
}

// Start begins the playback of the given message. If a run is already
// active, Start stops it instead. An empty message is a no-op.
func (p *Player) Start(message morse.Message) {
	p.lock.Lock()
	if p.cancel != nil {
		cancel := p.cancel
		p.lock.Unlock()
		cancel()
		return
	}
	if message.Empty() {
		p.lock.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.lock.Unlock()

	go p.run(ctx, cancel, done, message)
}

// Stop cancels the active run and waits until it has cleaned up. Stopping an
// idle player is a no-op.
func (p *Player) Stop() {
	p.lock.Lock()
	cancel := p.cancel
	done := p.done
	p.lock.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Player) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, message morse.Message) {
	p.tracer.Start()
	defer p.tracer.Stop()
	defer func() {
		p.indicator.HideHighlight()
		cancel()
		p.lock.Lock()
		p.cancel = nil
		p.done = nil
		p.lock.Unlock()
		close(done)
	}()

	p.reporter.PlaybackStarted()
	for {
		err := p.playPass(ctx, message)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			p.reporter.PlaybackStopped()
			return
		default:
			p.reporter.PlaybackFailed(err)
			return
		}

		if !p.Settings().Repeat {
			p.reporter.PlaybackStopped()
			return
		}
		if p.wait(ctx, p.repeatPause) != nil {
			p.reporter.PlaybackStopped()
			return
		}
	}
}

func (p *Player) playPass(ctx context.Context, message morse.Message) error {
	code := message.Code
	for i := 0; i < len(code); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.indicator.ShowHighlight(Highlight{Code: i, Text: message.TextIndex[i]})

		settings := p.Settings()
		dit := audio.DitDuration(settings.WPM)
		element := code[i]

		start := time.Now()
		var err error
		switch element {
		case '.':
			err = p.synthesizer.PlayTone(ctx, cw.Dit, settings.WPM, float64(settings.Pitch))
		case '-':
			err = p.synthesizer.PlayTone(ctx, cw.Da, settings.WPM, float64(settings.Pitch))
		case ' ':
			err = p.wait(ctx, letterGapDits*dit)
		case '/':
			err = p.wait(ctx, wordGapDits*dit)
		}
		if err != nil {
			return err
		}
		p.tracer.Trace(tracePlayback, "%d;%c;%f\n", i, element, time.Since(start).Seconds())

		// separators already carry their own trailing silence, only tones
		// followed by another element of the same letter get the element gap
		if isTone(element) && i+1 < len(code) && !isSeparator(code[i+1]) {
			if err := p.wait(ctx, elementGapDits*dit); err != nil {
				return err
			}
		}
	}
	return nil
}

func isTone(element byte) bool {
	return element == '.' || element == '-'
}

func isSeparator(element byte) bool {
	return element == ' ' || element == '/'
}
