package regression

import (
	"fmt"
	"sort"
)

// MinBoostSamples is the smallest training set the boosted family accepts.
const MinBoostSamples = 64

// GradientBoosted fits an ensemble of shallow regression trees on squared
// error residuals.
type GradientBoosted struct {
	Trees        int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int

	base   float64
	forest []*treeNode
	width  int
	fitted bool
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// NewGradientBoosted returns an unfitted ensemble.
func NewGradientBoosted(trees int, learningRate float64, maxDepth, minLeaf int) *GradientBoosted {
	if trees <= 0 {
		trees = 100
	}
	if learningRate <= 0 || learningRate > 1 {
		learningRate = 0.1
	}
	if maxDepth <= 0 {
		maxDepth = 3
	}
	if minLeaf <= 0 {
		minLeaf = 5
	}
	return &GradientBoosted{Trees: trees, LearningRate: learningRate, MaxDepth: maxDepth, MinLeaf: minLeaf}
}

// Family implements Model.
func (g *GradientBoosted) Family() Family { return FamilyGradientBoost }

// Available implements Capability.
func (g *GradientBoosted) Available(samples int) error {
	if samples < MinBoostSamples {
		return fmt.Errorf("%w: gbt needs %d rows, have %d", ErrInsufficientData, MinBoostSamples, samples)
	}
	return nil
}

// Fit implements Trainable.
func (g *GradientBoosted) Fit(x [][]float64, y []float64) error {
	if err := checkMatrix(x, y); err != nil {
		return err
	}
	if err := g.Available(len(x)); err != nil {
		return err
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	g.base = sum / float64(len(y))
	g.width = len(x[0])
	g.forest = g.forest[:0]

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = g.base
	}
	residual := make([]float64, len(y))
	idx := make([]int, len(y))

	for t := 0; t < g.Trees; t++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
			idx[i] = i
		}
		tree := g.grow(x, residual, idx, 0)
		g.forest = append(g.forest, tree)
		for i := range pred {
			pred[i] += g.LearningRate * tree.eval(x[i])
		}
	}
	g.fitted = true
	return nil
}

// Predict implements Predictable.
func (g *GradientBoosted) Predict(x []float64) (float64, error) {
	if !g.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != g.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), g.width)
	}
	out := g.base
	for _, tree := range g.forest {
		out += g.LearningRate * tree.eval(x)
	}
	return out, nil
}

func (g *GradientBoosted) grow(x [][]float64, r []float64, idx []int, depth int) *treeNode {
	mean := meanOf(r, idx)
	if depth >= g.MaxDepth || len(idx) < 2*g.MinLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	sorted := make([]int, len(idx))
	for f := 0; f < len(x[idx[0]]); f++ {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var total float64
		for _, i := range sorted {
			total += r[i]
		}
		var leftSum float64
		n := len(sorted)
		for k := 0; k < n-1; k++ {
			leftSum += r[sorted[k]]
			nl := k + 1
			nr := n - nl
			if nl < g.MinLeaf || nr < g.MinLeaf {
				continue
			}
			lo, hi := x[sorted[k]][f], x[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			// Reduction in squared error relative to a single leaf.
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - total*total/float64(n)
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, (lo+hi)/2, gain
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      g.grow(x, r, left, depth+1),
		right:     g.grow(x, r, right, depth+1),
	}
}

func (n *treeNode) eval(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func meanOf(values []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += values[i]
	}
	return sum / float64(len(idx))
}
