package hbond

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance([3]float64{0, 0, 0}, [3]float64{3, 4, 0}), 1e-12)
	assert.Zero(t, Distance([3]float64{1, 2, 3}, [3]float64{1, 2, 3}))
}

func sampleTable() *Table {
	coords := fixedCoords{
		0: {0, 0, 0}, 1: {1.9, 0, 0},
		2: {0, 0, 0}, 3: {2.9, 0, 0},
		4: {0, 0, 0}, 5: {0, 2.1, 0},
	}
	bonds := []Bond{
		{Donor: 0, Acceptor: 1, Distance: DefaultIdealDistanceH, Sigma: 0.05},
		{Donor: 2, Acceptor: 3, Distance: DefaultIdealDistanceH, Sigma: 0.05},
		{Donor: 4, Acceptor: 5, Distance: DefaultIdealDistanceH, Sigma: 0.05},
	}
	return NewTable(bonds, coords)
}

func TestTable_FlagOutliers(t *testing.T) {
	tbl := sampleTable()
	require.Equal(t, 3, tbl.Len())
	assert.InDeltaSlice(t, []float64{1.9, 2.9, 2.1}, tbl.Lengths, 1e-9)
	assert.Equal(t, []bool{true, true, true}, tbl.Keep)

	assert.Equal(t, []int{1}, tbl.FlagOutliers(DefaultMaxDistanceH))
	assert.Equal(t, []bool{true, false, true}, tbl.Keep)
	assert.Equal(t, Summary{Total: 3, Kept: 2, Excluded: 1}, tbl.Summary())

	// already excluded rows are not reported twice
	assert.Empty(t, tbl.FlagOutliers(DefaultMaxDistanceH))
}

func TestTable_FilteredViews(t *testing.T) {
	tbl := sampleTable()
	tbl.FlagOutliers(2.5)

	assert.Len(t, tbl.Rows(false), 3)
	rows := tbl.Rows(true)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Donor)
	assert.Equal(t, 4, rows[1].Donor)
	assert.True(t, rows[1].Keep)

	kept := tbl.Kept()
	require.Len(t, kept, 2)
	assert.Equal(t, 5, kept[1].Acceptor)
	assert.InDeltaSlice(t, []float64{1.9, 2.1}, tbl.KeptLengths(), 1e-9)
}

func TestTable_Empty(t *testing.T) {
	tbl := NewTable(nil, fixedCoords{})
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.FlagOutliers(2.5))
	assert.Equal(t, Summary{}, tbl.Summary())
	assert.Empty(t, tbl.Rows(true))
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram([]float64{1.0, 1.5, 2.0, 3.0}, 4)
	assert.Equal(t, 1.0, h.Min)
	assert.Equal(t, 3.0, h.Max)
	assert.InDelta(t, 0.5, h.SlotWidth, 1e-12)
	assert.Equal(t, []int{1, 1, 1, 1}, h.Counts)
	assert.Equal(t, 4, h.N())

	slots := h.Slots()
	require.Len(t, slots, 4)
	assert.InDelta(t, 2.5, slots[3].Low, 1e-12)
	assert.InDelta(t, 3.0, slots[3].High, 1e-12)
}

func TestNewHistogram_MaximumInLastSlot(t *testing.T) {
	h := NewHistogram([]float64{0, 10}, HistogramSlots)
	require.Len(t, h.Counts, HistogramSlots)
	assert.Equal(t, 1, h.Counts[0])
	assert.Equal(t, 1, h.Counts[HistogramSlots-1])
}

func TestNewHistogram_Degenerate(t *testing.T) {
	empty := NewHistogram(nil, HistogramSlots)
	assert.Len(t, empty.Counts, HistogramSlots)
	assert.Zero(t, empty.N())

	same := NewHistogram([]float64{2, 2, 2}, HistogramSlots)
	assert.Equal(t, 3, same.Counts[0])
	assert.Zero(t, same.SlotWidth)

	assert.Len(t, NewHistogram([]float64{1}, 0).Counts, 1)
}

func TestHistogram_Show(t *testing.T) {
	var buf bytes.Buffer
	h := NewHistogram([]float64{1, 2}, 2)
	require.NoError(t, h.Show(&buf, "  ", "%.2f"))
	assert.Equal(t, "  1.00 - 1.50: 1\n  1.50 - 2.00: 1\n", buf.String())
}

func TestHistogram_ReflectsFiltering(t *testing.T) {
	tbl := sampleTable()
	a, diags := Analyze(tbl, DefaultParams().ResolveSubstitute(true), nil)
	assert.Empty(t, diags)
	assert.True(t, a.Filtered)
	assert.Equal(t, []int{1}, a.Excluded)
	assert.Equal(t, 3, a.Before.N())
	assert.Equal(t, 2, a.After.N())
	assert.InDelta(t, 2.9, a.Before.Max, 1e-9)
	assert.InDelta(t, 2.1, a.After.Max, 1e-9)
}

func TestAnalyze_NoFiltering(t *testing.T) {
	p := DefaultParams()
	p.RemoveOutliers = false
	tbl := sampleTable()
	a, _ := Analyze(tbl, p, nil)
	assert.False(t, a.Filtered)
	assert.Nil(t, a.Excluded)
	assert.Equal(t, a.Before, a.After)
	assert.Equal(t, 3, tbl.Summary().Kept)
}
