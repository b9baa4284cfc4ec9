// Package dsp provides the signal processing helpers for the scope: block
// statistics and real-valued spectra.
package dsp

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Block is a block of audio samples.
type Block []float32

// Peak returns the maximum absolute sample value of the block.
func (b Block) Peak() float32 {
	var result float32
	for _, sample := range b {
		if sample < 0 {
			sample = -sample
		}
		if sample > result {
			result = sample
		}
	}
	return result
}

// RMS returns the root mean square of the block.
func (b Block) RMS() float32 {
	if len(b) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range b {
		sum += float64(sample) * float64(sample)
	}
	return float32(math.Sqrt(sum / float64(len(b))))
}

// Downsample reduces the block to the given number of points. Each point is
// the sample with the largest magnitude in its section, so short peaks stay
// visible in the downsampled waveform.
func (b Block) Downsample(points int) []float64 {
	result := make([]float64, points)
	if len(b) == 0 || points == 0 {
		return result
	}
	samplesPerPoint := float64(len(b)) / float64(points)
	for i := range result {
		from := int(float64(i) * samplesPerPoint)
		to := int(float64(i+1) * samplesPerPoint)
		if to > len(b) {
			to = len(b)
		}
		if from >= to {
			continue
		}
		var value float32
		for _, sample := range b[from:to] {
			if math.Abs(float64(sample)) > math.Abs(float64(value)) {
				value = sample
			}
		}
		result[i] = float64(value)
	}
	return result
}
