package hbond

import (
	"fmt"
	"io"
)

// HistogramSlots is the number of bins used for bond-length diagnostics.
const HistogramSlots = 10

// Histogram is a fixed-slot histogram spanning the data range.
type Histogram struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	SlotWidth float64 `json:"slot_width"`
	Counts    []int   `json:"counts"`
}

// Slot is one bin of a Histogram.
type Slot struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// NewHistogram bins data into nSlots equal slots between its minimum and
// maximum.  The maximum falls into the last slot.  Empty data yields empty
// slots over [0, 0].
func NewHistogram(data []float64, nSlots int) Histogram {
	if nSlots < 1 {
		nSlots = 1
	}
	h := Histogram{Counts: make([]int, nSlots)}
	if len(data) == 0 {
		return h
	}
	h.Min, h.Max = data[0], data[0]
	for _, v := range data[1:] {
		if v < h.Min {
			h.Min = v
		}
		if v > h.Max {
			h.Max = v
		}
	}
	h.SlotWidth = (h.Max - h.Min) / float64(nSlots)
	for _, v := range data {
		i := 0
		if h.SlotWidth > 0 {
			i = int((v - h.Min) / h.SlotWidth)
		}
		if i >= nSlots {
			i = nSlots - 1
		}
		h.Counts[i]++
	}
	return h
}

// N is the number of binned values.
func (h Histogram) N() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Slots returns the bins with their bounds.
func (h Histogram) Slots() []Slot {
	out := make([]Slot, len(h.Counts))
	for i, c := range h.Counts {
		low := h.Min + float64(i)*h.SlotWidth
		out[i] = Slot{Low: low, High: low + h.SlotWidth, Count: c}
	}
	return out
}

// Show writes one line per slot, "<prefix><low> - <high>: <count>", with
// the bounds rendered by cutoffFormat (e.g. "%.4f").
func (h Histogram) Show(w io.Writer, prefix, cutoffFormat string) error {
	for _, s := range h.Slots() {
		line := prefix + cutoffFormat + " - " + cutoffFormat + ": %d\n"
		if _, err := fmt.Fprintf(w, line, s.Low, s.High, s.Count); err != nil {
			return err
		}
	}
	return nil
}
