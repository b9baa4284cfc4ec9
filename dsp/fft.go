package dsp

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms blocks of real-valued audio samples into their spectral
// representation. The zero value is ready to use, the sample buffer is reused
// between calls.
type FFT[T Number] struct {
	samples []complex128
}

func NewFFT[T Number]() *FFT[T] {
	return &FFT[T]{}
}

// BlockToSpectrum fills spectrum with the projection of the FFT of the given
// block. Only the positive frequencies are used, so the spectrum slice must
// hold half the block size: index 0 corresponds to 0 Hz, the last index to
// just below the Nyquist frequency.
func (f *FFT[T]) BlockToSpectrum(spectrum []T, block Block, projection func(complex128, int) T) {
	f.setSamples(block)

	fftResult := fft.FFT(f.samples)
	blockSize := len(fftResult)
	if len(spectrum) != blockSize/2 {
		panic(fmt.Sprintf("the spectrum slice must hold half the block size: %d", blockSize/2))
	}

	for i := range spectrum {
		spectrum[i] = projection(fftResult[i], blockSize)
	}
}

func (f *FFT[T]) setSamples(block Block) {
	if len(f.samples) != len(block) {
		f.samples = make([]complex128, len(block))
	}
	for i, sample := range block {
		f.samples[i] = complex(float64(sample), 0)
	}
}

// BinToFrequency returns the center frequency of the given spectrum bin.
func BinToFrequency(bin int, blockSize int, sampleRate int) float64 {
	return float64(bin) * float64(sampleRate) / float64(blockSize)
}

func PSD[T Number](fftValue complex128, blockSize int) T {
	return T(math.Pow(real(fftValue), 2) + math.Pow(imag(fftValue), 2))
}

func Magnitude[T Number](fftValue complex128, blockSize int) T {
	return T(math.Sqrt(float64(PSD[T](fftValue, blockSize))))
}

func MagnitudeIndB[T Number](fftValue complex128, blockSize int) T {
	return T(10.0 * math.Log10(20.0*float64(PSD[T](fftValue, blockSize))/math.Pow(float64(blockSize), 2)))
}
