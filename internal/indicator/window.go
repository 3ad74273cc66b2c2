package indicator

// Window is a fixed-capacity rolling buffer of float64 samples. Pushing
// beyond capacity evicts the oldest sample. The zero value is unusable;
// use NewWindow.
type Window struct {
	values []float64
	size   int
}

// NewWindow creates a rolling window holding up to size samples.
func NewWindow(size int) *Window {
	return &Window{
		values: make([]float64, 0, size),
		size:   size,
	}
}

// Push appends a sample, evicting the oldest when the window is full.
func (w *Window) Push(value float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values[len(w.values)-1] = value

		return
	}

	w.values = append(w.values, value)
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return len(w.values)
}

// Full reports whether the window holds its full capacity of samples.
func (w *Window) Full() bool {
	return len(w.values) == w.size
}

// At returns the i-th sample, oldest first.
func (w *Window) At(i int) float64 {
	return w.values[i]
}

// First returns the oldest sample. The window must not be empty.
func (w *Window) First() float64 {
	return w.values[0]
}

// Last returns the newest sample. The window must not be empty.
func (w *Window) Last() float64 {
	return w.values[len(w.values)-1]
}

// Values returns the underlying samples, oldest first. The slice must be
// treated as read-only and is invalidated by the next Push.
func (w *Window) Values() []float64 {
	return w.values
}

// Sum returns the sum of all held samples.
func (w *Window) Sum() float64 {
	total := 0.0
	for _, v := range w.values {
		total += v
	}

	return total
}

// Mean returns the average of all held samples, 0 when empty.
func (w *Window) Mean() float64 {
	if len(w.values) == 0 {
		return 0
	}

	return w.Sum() / float64(len(w.values))
}
