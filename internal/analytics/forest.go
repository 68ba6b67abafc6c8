package analytics

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrNoSamples is returned when a classifier is fit on an empty sample set.
var ErrNoSamples = errors.New("no training samples")

// ForestConfig controls random forest training.
type ForestConfig struct {
	NumTrees int
	Seed     int64

	// MaxFeatures is the number of candidate features drawn per split;
	// zero means floor(sqrt(number of features)), at least one.
	MaxFeatures int

	// MinSamplesSplit is the smallest node that may be split; values
	// below two are treated as two.
	MinSamplesSplit int

	// MaxDepth limits tree depth; zero grows trees until leaves are pure.
	MaxDepth int
}

// DefaultForestConfig returns 100 trees seeded with 42.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{NumTrees: 100, Seed: 42}
}

// Node is one node of a flattened decision tree. Internal nodes route
// samples with x[Feature] <= Threshold to Left and the rest to Right.
// Leaves carry the fraction of positive training samples.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Leaf      bool
	Prob      float64
}

// Tree is a binary classification tree stored as a node slice rooted at 0.
type Tree struct {
	Nodes []Node
}

func (t Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Prob
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a bagged ensemble of gini-split classification trees for
// binary targets.
type Forest struct {
	Trees       []Tree
	NumFeatures int
}

// FitForest trains a forest on feature matrix x and 0/1 labels y. Training
// is deterministic for a given configuration and input.
func FitForest(x [][]float64, y []int, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("fitting forest: %d samples but %d labels", len(x), len(y))
	}
	nfeat := len(x[0])
	if nfeat == 0 {
		return nil, fmt.Errorf("fitting forest: samples have no features")
	}
	for i, row := range x {
		if len(row) != nfeat {
			return nil, fmt.Errorf("fitting forest: sample %d has %d features, want %d", i, len(row), nfeat)
		}
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("fitting forest: label %d at sample %d is not 0 or 1", y[i], i)
		}
	}

	if cfg.NumTrees <= 0 {
		cfg.NumTrees = DefaultForestConfig().NumTrees
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = int(math.Sqrt(float64(nfeat)))
	}
	cfg.MaxFeatures = max(1, min(cfg.MaxFeatures, nfeat))
	cfg.MinSamplesSplit = max(2, cfg.MinSamplesSplit)

	master := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{Trees: make([]Tree, 0, cfg.NumTrees), NumFeatures: nfeat}
	n := len(x)

	for t := 0; t < cfg.NumTrees; t++ {
		rng := rand.New(rand.NewSource(master.Int63()))
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		g := grower{x: x, y: y, cfg: cfg, rng: rng}
		g.grow(sample, 0)
		forest.Trees = append(forest.Trees, Tree{Nodes: g.nodes})
	}
	return forest, nil
}

// PredictProba returns the mean leaf probability across trees for each row.
func (f *Forest) PredictProba(x [][]float64) ([]float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.NumFeatures {
			return nil, fmt.Errorf("predicting: sample %d has %d features, want %d", i, len(row), f.NumFeatures)
		}
		var sum float64
		for _, t := range f.Trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

// Predict returns class labels; a probability above one half maps to 1.
func (f *Forest) Predict(x [][]float64) ([]int, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

type grower struct {
	x     [][]float64
	y     []int
	cfg   ForestConfig
	rng   *rand.Rand
	nodes []Node
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
	left      []int
	right     []int
}

// grow builds the subtree for the sample indices idx and returns its node
// index. Duplicate indices from bootstrapping count as extra weight.
func (g *grower) grow(idx []int, depth int) int {
	pos := 0
	for _, i := range idx {
		pos += g.y[i]
	}
	n := len(idx)
	p := float64(pos) / float64(n)

	self := len(g.nodes)
	g.nodes = append(g.nodes, Node{Leaf: true, Prob: p})

	if pos == 0 || pos == n || n < g.cfg.MinSamplesSplit ||
		(g.cfg.MaxDepth > 0 && depth >= g.cfg.MaxDepth) {
		return self
	}

	best, ok := g.bestSplit(idx)
	if !ok {
		return self
	}

	left := g.grow(best.left, depth+1)
	right := g.grow(best.right, depth+1)
	g.nodes[self] = Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      left,
		Right:     right,
		Prob:      p,
	}
	return self
}

// bestSplit draws features in random order until MaxFeatures non-constant
// ones have been evaluated and returns the lowest weighted gini split.
func (g *grower) bestSplit(idx []int) (split, bool) {
	nfeat := len(g.x[0])
	n := len(idx)
	best := split{impurity: math.Inf(1)}
	found := false
	evaluated := 0

	sorted := make([]int, n)
	for _, f := range g.rng.Perm(nfeat) {
		if evaluated >= g.cfg.MaxFeatures {
			break
		}

		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return g.x[sorted[a]][f] < g.x[sorted[b]][f]
		})
		if g.x[sorted[0]][f] == g.x[sorted[n-1]][f] {
			continue
		}
		evaluated++

		total := 0
		for _, i := range sorted {
			total += g.y[i]
		}
		leftPos := 0
		for k := 1; k < n; k++ {
			leftPos += g.y[sorted[k-1]]
			lo, hi := g.x[sorted[k-1]][f], g.x[sorted[k]][f]
			if lo == hi {
				continue
			}
			rightPos := total - leftPos
			imp := (float64(k)*gini(leftPos, k) + float64(n-k)*gini(rightPos, n-k)) / float64(n)
			if imp < best.impurity {
				best = split{
					feature:   f,
					threshold: lo + (hi-lo)/2,
					impurity:  imp,
					left:      append([]int(nil), sorted[:k]...),
					right:     append([]int(nil), sorted[k:]...),
				}
				found = true
			}
		}
	}
	return best, found
}

// gini is the impurity of a node with pos positives among n samples.
func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}
