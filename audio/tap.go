package audio

import "sync"

// Tap is the analysis point of the audio pipeline. The oscillator writes all
// generated samples through the tap, consumers snapshot the most recent
// samples on demand. Readers never block the generator and never mutate the
// pipeline.
type Tap struct {
	lock    sync.Mutex
	samples []float32
	next    int
	filled  bool
}

func NewTap(size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{
		samples: make([]float32, size),
	}
}

// Size returns the capacity of the tap in samples.
func (t *Tap) Size() int {
	return len(t.samples)
}

// Write appends samples to the tap, overwriting the oldest ones.
func (t *Tap) Write(samples []float32) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, sample := range samples {
		t.samples[t.next] = sample
		t.next++
		if t.next == len(t.samples) {
			t.next = 0
			t.filled = true
		}
	}
}

// Read fills out with the most recent samples, oldest first, and returns the
// number of samples written. If the tap holds fewer samples than requested,
// only those are returned.
func (t *Tap) Read(out []float32) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	available := t.next
	if t.filled {
		available = len(t.samples)
	}
	n := len(out)
	if n > available {
		n = available
	}

	start := t.next - n
	if start < 0 {
		start += len(t.samples)
	}
	for i := 0; i < n; i++ {
		out[i] = t.samples[(start+i)%len(t.samples)]
	}
	return n
}
