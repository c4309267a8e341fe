// Package histogram bins simulated values into fixed-width bins.
package histogram

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Histogram holds bin edges and counts. len(Bins) == len(Counts)+1.
type Histogram struct {
	Bins   []float64 // Границы бинов
	Counts []int
	// Outside counts values that fell outside [Bins[0], Bins[len-1]).
	Outside int
}

// New creates empty bins of the given size covering [start, end].
func New(start, end, size float64) (*Histogram, error) {
	if !(size > 0) || !(end > start) {
		return nil, fmt.Errorf("histogram: invalid range [%g, %g] with bin size %g", start, end, size)
	}
	n := int(math.Round((end - start) / size))
	if n < 1 {
		n = 1
	}
	return NewWithEdges(floats.Span(make([]float64, n+1), start, start+float64(n)*size)), nil
}

// NewWithEdges creates empty bins with the given increasing edges.
func NewWithEdges(edges []float64) *Histogram {
	return &Histogram{
		Bins:   edges,
		Counts: make([]int, len(edges)-1),
	}
}

// Fill adds values to the histogram. Values outside the bins are counted in
// Outside and otherwise ignored.
func (h *Histogram) Fill(values []float64) *Histogram {
	lo, hi := h.Bins[0], h.Bins[len(h.Bins)-1]
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v >= hi {
			h.Outside++
			continue
		}
		i := floats.Within(h.Bins, v)
		if i < 0 {
			h.Outside++
			continue
		}
		h.Counts[i]++
	}
	return h
}

// Total returns the number of binned values.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// Max returns the largest bin count.
func (h *Histogram) Max() int {
	m := 0
	for _, c := range h.Counts {
		m = max(m, c)
	}
	return m
}

// Print writes one bar per bin, scaled to width characters. Empty leading
// and trailing bins are skipped.
func (h *Histogram) Print(w io.Writer, width int) error {
	first, last := 0, len(h.Counts)-1
	for first < last && h.Counts[first] == 0 {
		first++
	}
	for last > first && h.Counts[last] == 0 {
		last--
	}

	maxCount := h.Max()
	for i := first; i <= last; i++ {
		n := 0
		if maxCount > 0 {
			n = int(float64(h.Counts[i]) / float64(maxCount) * float64(width))
		}
		bar := strings.Repeat("█", n)
		if _, err := fmt.Fprintf(w, "[%7.3f, %7.3f) %s %d\n", h.Bins[i], h.Bins[i+1], bar, h.Counts[i]); err != nil {
			return err
		}
	}
	return nil
}
