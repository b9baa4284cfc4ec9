package audio

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ftl/digimodes/cw"
	"github.com/jfreymuth/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDitDuration(t *testing.T) {
	assert.Equal(t, 80*time.Millisecond, DitDuration(15))
	assert.Equal(t, 60*time.Millisecond, DitDuration(20))
	assert.Equal(t, 240*time.Millisecond, SymbolDuration(cw.Da, 15))
	assert.Equal(t, 80*time.Millisecond, SymbolDuration(cw.Dit, 15))
}

func TestOscillator_RampsWithoutClicks(t *testing.T) {
	const sampleRate = 48000
	oscillator := NewOscillator(sampleRate, nil)
	oscillator.SetPitch(700)
	oscillator.SetFade(10 * time.Millisecond)

	block := make([]float32, sampleRate/10)

	oscillator.Synth(block)
	assert.True(t, oscillator.Silent(), "unkeyed oscillator must be silent")
	for i, sample := range block {
		require.Zero(t, sample, "sample %d", i)
	}

	oscillator.SetKeyed(true)
	oscillator.Synth(block)
	assert.InDelta(t, 0, block[0], 0.01, "key-down must start at zero amplitude")
	assert.False(t, oscillator.Silent())

	maxAmplitude := float32(0)
	for _, sample := range block {
		if a := float32(math.Abs(float64(sample))); a > maxAmplitude {
			maxAmplitude = a
		}
	}
	assert.InDelta(t, defaultVolume, maxAmplitude, 0.05, "tone must reach the target amplitude")

	oscillator.SetKeyed(false)
	oscillator.Synth(block)
	assert.True(t, oscillator.Silent(), "oscillator must ramp down after key-up")
	assert.Zero(t, block[len(block)-1])
}

func TestOscillator_WritesThroughTap(t *testing.T) {
	const sampleRate = 48000
	tap := NewTap(sampleRate / 10)
	oscillator := NewOscillator(sampleRate, tap)
	oscillator.SetPitch(700)
	oscillator.SetKeyed(true)

	block := make([]float32, 1024)
	oscillator.Synth(block)

	tapped := make([]float32, 1024)
	n := tap.Read(tapped)
	require.Equal(t, 1024, n)
	assert.Equal(t, block, tapped, "the tap must see the sink's samples unaltered")
}

func TestTap_RingBuffer(t *testing.T) {
	tap := NewTap(4)

	tap.Write([]float32{1, 2})
	out := make([]float32, 4)
	assert.Equal(t, 2, tap.Read(out))
	assert.Equal(t, []float32{1, 2}, out[:2])

	tap.Write([]float32{3, 4, 5, 6})
	assert.Equal(t, 4, tap.Read(out))
	assert.Equal(t, []float32{3, 4, 5, 6}, out)

	short := make([]float32, 2)
	assert.Equal(t, 2, tap.Read(short))
	assert.Equal(t, []float32{5, 6}, short, "a short read must return the most recent samples")
}

func TestContext_RetriesAfterFailedAcquisition(t *testing.T) {
	audioContext := NewContext("test")
	attempts := 0
	audioContext.connect = func(pulse.Float32Reader) (*pulse.Client, *pulse.PlaybackStream, error) {
		attempts++
		if attempts == 1 {
			return nil, nil, errors.New("no sound server")
		}
		return nil, nil, nil
	}

	_, err := audioContext.AcquireOscillator()
	require.ErrorIs(t, err, ErrAudioUnavailable)

	oscillator, err := audioContext.AcquireOscillator()
	require.NoError(t, err, "a failure must not bar later acquisitions")
	require.NotNil(t, oscillator)
	assert.Equal(t, 2, attempts)

	_, err = audioContext.AcquireOscillator()
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "a ready pipeline must be reused")
}

func TestContext_CloseBarsFurtherAcquisition(t *testing.T) {
	audioContext := NewContext("test")
	audioContext.connect = func(pulse.Float32Reader) (*pulse.Client, *pulse.PlaybackStream, error) {
		return nil, nil, nil
	}

	_, err := audioContext.AcquireOscillator()
	require.NoError(t, err)

	audioContext.Close()

	_, err = audioContext.AcquireOscillator()
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}

type testToneSource struct {
	oscillator *Oscillator
	err        error
}

func (s *testToneSource) AcquireOscillator() (*Oscillator, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.oscillator, nil
}

func TestSynthesizer_PlayTone(t *testing.T) {
	source := &testToneSource{oscillator: NewOscillator(48000, nil)}
	synthesizer := NewSynthesizer(source)

	start := time.Now()
	err := synthesizer.PlayTone(context.Background(), cw.Dit, 30, 700)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, DitDuration(30), "PlayTone must wait out the tone's duration")
	assert.False(t, source.oscillator.keyed, "the tone must be keyed off afterwards")
}

func TestSynthesizer_CancelMidTone(t *testing.T) {
	source := &testToneSource{oscillator: NewOscillator(48000, nil)}
	synthesizer := NewSynthesizer(source)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := synthesizer.PlayTone(ctx, cw.Da, 5, 700)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, elapsed, SymbolDuration(cw.Da, 5), "cancellation must not wait out the tone")
	assert.False(t, source.oscillator.keyed, "the tone must be keyed off on cancellation")
}

func TestSynthesizer_AudioUnavailable(t *testing.T) {
	source := &testToneSource{err: ErrAudioUnavailable}
	synthesizer := NewSynthesizer(source)

	err := synthesizer.PlayTone(context.Background(), cw.Dit, 20, 700)
	assert.ErrorIs(t, err, ErrAudioUnavailable)
}
