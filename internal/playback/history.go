package playback

// History keeps the most recent survival times, oldest first.
type History struct {
	limit int
	times []float64
}

// NewHistory creates a history holding at most limit entries.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit, times: make([]float64, 0, limit)}
}

// Add appends a survival time, evicting the oldest entries beyond the limit.
func (h *History) Add(seconds float64) {
	if h.limit == 0 {
		return
	}
	h.times = append(h.times, seconds)
	if over := len(h.times) - h.limit; over > 0 {
		h.times = append(h.times[:0], h.times[over:]...)
	}
}

// Times returns a copy of the stored survival times, oldest first.
func (h *History) Times() []float64 {
	out := make([]float64, len(h.times))
	copy(out, h.times)
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.times)
}
