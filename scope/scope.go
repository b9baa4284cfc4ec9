// Package scope provides a visualisation of the audio pipeline in form of
// waveform, amplitude, and spectral frames that are streamed to remote
// clients over a websocket connection.
package scope

import (
	"time"
)

type StreamID string
type ChannelID string
type MarkerID string

// Scope accepts visualisation frames. Implementations must never block the
// producer.
type Scope interface {
	ShowWaveformFrame(frame *WaveformFrame)
	ShowTimeFrame(frame *TimeFrame)
	ShowSpectralFrame(frame *SpectralFrame)
}

type Frame struct {
	Stream    StreamID  `json:"stream"`
	Timestamp time.Time `json:"timestamp"`
}

// WaveformFrame is a downsampled time-domain polyline of the most recent
// audio samples.
type WaveformFrame struct {
	Frame
	SampleRate int       `json:"sampleRate"`
	Values     []float64 `json:"values"`
}

// TimeFrame carries one scalar value per channel, e.g. the current RMS and
// peak amplitude.
type TimeFrame struct {
	Frame
	Values map[ChannelID]float64 `json:"values"`
}

// SpectralFrame carries a magnitude spectrum with optional markers.
type SpectralFrame struct {
	Frame
	FromFrequency    float64              `json:"fromFrequency"`
	ToFrequency      float64              `json:"toFrequency"`
	Values           []float64            `json:"values"`
	FrequencyMarkers map[MarkerID]float64 `json:"frequencyMarkers,omitempty"`
}

// NullScope discards all frames.
type NullScope struct{}

func NewNullScope() *NullScope { return &NullScope{} }

func (s *NullScope) ShowWaveformFrame(*WaveformFrame) {}
func (s *NullScope) ShowTimeFrame(*TimeFrame)         {}
func (s *NullScope) ShowSpectralFrame(*SpectralFrame) {}
