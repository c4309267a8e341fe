package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestXYs(t *testing.T) {
	pts := XYs([]float64{1, 2}, []float64{3, 4})
	require.Len(t, pts, 2)
	assert.Equal(t, 2.0, pts[1].X)
	assert.Equal(t, 4.0, pts[1].Y)
}

func TestSaveGrid(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 2, 5}

	a := New("line", "x", "y")
	require.NoError(t, AddBand(a, x, []float64{0, 2, 1, 4}, []float64{2, 4, 3, 6}, BandBlue))
	require.NoError(t, AddLine(a, x, y, LineBlue, vg.Points(1)))
	require.NoError(t, AddPoints(a, x, y, nil))
	require.NoError(t, AddVLine(a, 1.5, 0, 6))

	b := New("bars", "x", "count")
	AddBars(b, []float64{0, 1, 2, 3}, []int{2, 5, 1}, BootGray)

	dir := t.TempDir()
	for _, name := range []string{"grid.png", "grid.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, 1, 2, 20*vg.Centimeter, 8*vg.Centimeter, a, b))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSaveRejects(t *testing.T) {
	dir := t.TempDir()
	p := New("", "", "")
	assert.Error(t, Save(filepath.Join(dir, "out.svg"), 1, 1, vg.Inch, vg.Inch, p))
	assert.Error(t, Save(filepath.Join(dir, "out.png"), 1, 1, vg.Inch, vg.Inch, p, p))
}
