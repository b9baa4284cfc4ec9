package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSinewave(out []float32, amplitude float64, frequency float64, sampleRate int) {
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)))
	}
}

func TestFFT_BlockToSpectrum(t *testing.T) {
	const sampleRate = 48000
	const blockSize = 4800
	const frequency = 700.0

	block := make(Block, blockSize)
	generateSinewave(block, 1, frequency, sampleRate)

	fft := NewFFT[float64]()
	spectrum := make([]float64, blockSize/2)
	fft.BlockToSpectrum(spectrum, block, Magnitude[float64])

	maxBin := 0
	for i, value := range spectrum {
		if value > spectrum[maxBin] {
			maxBin = i
		}
	}
	assert.InDelta(t, frequency, BinToFrequency(maxBin, blockSize, sampleRate), float64(sampleRate)/float64(blockSize))
}

func TestFFT_WrongSpectrumSize(t *testing.T) {
	fft := NewFFT[float64]()
	block := make(Block, 16)
	assert.Panics(t, func() {
		fft.BlockToSpectrum(make([]float64, 16), block, Magnitude[float64])
	})
}

func TestBlock_Peak(t *testing.T) {
	assert.Equal(t, float32(0), Block{}.Peak())
	assert.Equal(t, float32(0.5), Block{0.1, -0.5, 0.3}.Peak())
}

func TestBlock_RMS(t *testing.T) {
	assert.Equal(t, float32(0), Block{}.RMS())
	assert.InDelta(t, 1, Block{1, -1, 1, -1}.RMS(), 1e-6)

	block := make(Block, 4800)
	generateSinewave(block, 1, 700, 48000)
	assert.InDelta(t, 1/math.Sqrt2, block.RMS(), 0.01)
}

func TestBlock_Downsample(t *testing.T) {
	block := make(Block, 1000)
	block[500] = -0.9

	points := block.Downsample(10)
	require.Len(t, points, 10)
	assert.InDelta(t, -0.9, points[5], 1e-6, "short peaks must survive downsampling")

	flat := make(Block, 1000).Downsample(10)
	for _, value := range flat {
		assert.Zero(t, value)
	}
}
