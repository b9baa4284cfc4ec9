package scope

import (
	"time"

	"github.com/ftl/cwplayer/dsp"
)

const (
	audioStream StreamID = "audio"

	rmsChannel  ChannelID = "rms"
	peakChannel ChannelID = "peak"

	pitchMarker MarkerID = "pitch"

	defaultRefreshInterval = 40 * time.Millisecond
	defaultWaveformPoints  = 128
	defaultSpectrumSize    = 2048
)

// TapReader provides the most recent audio samples on demand.
type TapReader interface {
	Size() int
	Read(out []float32) int
}

// Monitor samples the audio analysis tap on a fixed visual cadence and
// publishes waveform, amplitude, and spectral frames to a scope. It is a
// passive observer: it only ever reads from the tap and it runs independently
// of the playback timing. While nothing is playing, the tap yields silence
// and the waveform renders as a flat center line.
type Monitor struct {
	tap        TapReader
	sampleRate int
	scope      Scope

	interval       time.Duration
	waveformPoints int
	spectrumSize   int
	pitchSource    func() float64

	fft      *dsp.FFT[float64]
	block    dsp.Block
	spectrum []float64

	close  chan struct{}
	closed chan struct{}
}

func NewMonitor(tap TapReader, sampleRate int, scope Scope) *Monitor {
	if scope == nil {
		scope = NewNullScope()
	}
	return &Monitor{
		tap:        tap,
		sampleRate: sampleRate,
		scope:      scope,

		interval:       defaultRefreshInterval,
		waveformPoints: defaultWaveformPoints,
		spectrumSize:   defaultSpectrumSize,

		fft:      dsp.NewFFT[float64](),
		block:    make(dsp.Block, tap.Size()),
		spectrum: make([]float64, defaultSpectrumSize/2),

		close:  make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// SetPitchSource provides the current tone frequency, shown as a frequency
// marker in the spectral frames.
func (m *Monitor) SetPitchSource(source func() float64) {
	m.pitchSource = source
}

// SetRefreshInterval sets the visual cadence. Must be called before Start.
func (m *Monitor) SetRefreshInterval(interval time.Duration) {
	m.interval = interval
}

func (m *Monitor) Start() {
	go m.run()
}

func (m *Monitor) Stop() {
	select {
	case <-m.close:
		return
	default:
		close(m.close)
		<-m.closed
	}
}

func (m *Monitor) run() {
	defer close(m.closed)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.close:
			return
		case <-ticker.C:
			m.refresh(time.Now())
		}
	}
}

func (m *Monitor) refresh(timestamp time.Time) {
	n := m.tap.Read(m.block)
	block := m.block[:n]

	m.scope.ShowWaveformFrame(&WaveformFrame{
		Frame:      Frame{Stream: audioStream, Timestamp: timestamp},
		SampleRate: m.sampleRate,
		Values:     block.Downsample(m.waveformPoints),
	})

	m.scope.ShowTimeFrame(&TimeFrame{
		Frame: Frame{Stream: audioStream, Timestamp: timestamp},
		Values: map[ChannelID]float64{
			rmsChannel:  float64(block.RMS()),
			peakChannel: float64(block.Peak()),
		},
	})

	if len(block) < m.spectrumSize {
		return
	}
	m.fft.BlockToSpectrum(m.spectrum, block[len(block)-m.spectrumSize:], dsp.Magnitude[float64])

	frame := &SpectralFrame{
		Frame:         Frame{Stream: audioStream, Timestamp: timestamp},
		FromFrequency: 0,
		ToFrequency:   dsp.BinToFrequency(len(m.spectrum), m.spectrumSize, m.sampleRate),
		Values:        append([]float64(nil), m.spectrum...),
	}
	if m.pitchSource != nil {
		frame.FrequencyMarkers = map[MarkerID]float64{
			pitchMarker: m.pitchSource(),
		}
	}
	m.scope.ShowSpectralFrame(frame)
}
