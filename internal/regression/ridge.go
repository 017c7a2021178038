package regression

import (
	"fmt"
	"math"
)

// Ridge is an L2-regularized linear regressor fit in closed form on
// standardized features.
type Ridge struct {
	Lambda float64

	means     []float64
	scales    []float64
	weights   []float64
	intercept float64
	fitted    bool
}

// NewRidge returns an unfitted ridge model.
func NewRidge(lambda float64) *Ridge {
	if lambda < 0 {
		lambda = 0
	}
	return &Ridge{Lambda: lambda}
}

// Family implements Model.
func (r *Ridge) Family() Family { return FamilyRidge }

// Fit solves (XᵀX + λI)w = Xᵀ(y − ȳ) on standardized columns. Constant
// columns get zero weight.
func (r *Ridge) Fit(x [][]float64, y []float64) error {
	if err := checkMatrix(x, y); err != nil {
		return err
	}
	n := len(x)
	p := len(x[0])

	r.means = make([]float64, p)
	r.scales = make([]float64, p)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][j]
		}
		mean := sum / float64(n)
		var ss float64
		for i := 0; i < n; i++ {
			d := x[i][j] - mean
			ss += d * d
		}
		r.means[j] = mean
		r.scales[j] = math.Sqrt(ss / float64(n))
	}

	var ySum float64
	for _, v := range y {
		ySum += v
	}
	yMean := ySum / float64(n)

	// Normal equations with a ridge on the diagonal. A lambda of zero still
	// gets a tiny jitter so a rank-deficient design stays solvable.
	a := make([][]float64, p)
	b := make([]float64, p)
	for j := range a {
		a[j] = make([]float64, p)
	}
	z := make([]float64, p)
	for i := 0; i < n; i++ {
		r.standardize(x[i], z)
		yc := y[i] - yMean
		for j := 0; j < p; j++ {
			if z[j] == 0 {
				continue
			}
			b[j] += z[j] * yc
			for k := j; k < p; k++ {
				a[j][k] += z[j] * z[k]
			}
		}
	}
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			a[j][k] = a[k][j]
		}
		a[j][j] += r.Lambda + 1e-9
	}

	w, err := solve(a, b)
	if err != nil {
		return err
	}
	r.weights = w
	r.intercept = yMean
	r.fitted = true
	return nil
}

// Predict implements Predictable.
func (r *Ridge) Predict(x []float64) (float64, error) {
	if !r.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != len(r.weights) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), len(r.weights))
	}
	z := make([]float64, len(x))
	r.standardize(x, z)
	out := r.intercept
	for j, w := range r.weights {
		out += w * z[j]
	}
	return out, nil
}

// Weights returns the fitted coefficients on standardized features.
func (r *Ridge) Weights() []float64 {
	return append([]float64(nil), r.weights...)
}

func (r *Ridge) standardize(x, out []float64) {
	for j := range x {
		if r.scales[j] == 0 {
			out[j] = 0
			continue
		}
		out[j] = (x[j] - r.means[j]) / r.scales[j]
	}
}

// solve runs Gaussian elimination with partial pivoting on a copy of a.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range a {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]
		for row := col + 1; row < n; row++ {
			f := m[row][col] / m[col][col]
			if f == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}

	out := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for k := row + 1; k < n; k++ {
			sum -= m[row][k] * out[k]
		}
		out[row] = sum / m[row][row]
	}
	return out, nil
}
