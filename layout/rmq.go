package layout

import "math/bits"

// rangeMax is a sparse table supporting O(1) maximum queries over an
// immutable float64 slice, built once in O(n log n). Two overlapping
// power-of-two intervals cover any query range, per the standard
// sparse-table RMQ construction.
type rangeMax struct {
	table [][]float64
}

func newRangeMax(values []float64) *rangeMax {
	n := len(values)
	if n == 0 {
		return &rangeMax{}
	}
	levels := bits.Len(uint(n)) // smallest k with 2^k > n
	table := make([][]float64, levels)
	table[0] = append([]float64(nil), values...)
	for k := 1; k < levels; k++ {
		width := 1 << k
		half := width / 2
		row := make([]float64, n-width+1)
		prev := table[k-1]
		for i := range row {
			row[i] = maxf(prev[i], prev[i+half])
		}
		table[k] = row
	}
	return &rangeMax{table: table}
}

// Max returns the maximum value over the inclusive span [i,j]. Both
// indices must be within bounds and i<=j.
func (r *rangeMax) Max(i, j int) float64 {
	if r == nil || len(r.table) == 0 {
		return 0
	}
	k := bits.Len(uint(j-i+1)) - 1
	width := 1 << k
	return maxf(r.table[k][i], r.table[k][j-width+1])
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
