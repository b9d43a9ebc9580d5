package gbdt

import (
	"slices"
	"sort"
)

const leafFeature = -1

// Node 是回归树的一个节点，Feature 为 -1 时表示叶子节点
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value"`
}

// Tree 是以数组存储的二叉回归树，Nodes[0] 为根节点
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict 返回样本落入叶子的输出值
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth 返回树的深度，只有根节点时为 0
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// treeBuilder 在梯度残差上拟合回归树：分裂按平方误差最小化选择，
// 叶子值由 leafValue 按叶子内的样本计算
type treeBuilder struct {
	x              [][]float64
	residual       []float64
	maxDepth       int
	minSamplesLeaf int
	leafValue      func(idx []int) float64
	nodes          []Node
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	pos       int // 排序后左子树样本数
	order     []int
}

func (b *treeBuilder) build(idx []int) *Tree {
	b.nodes = b.nodes[:0]
	b.grow(idx, 0)
	return &Tree{Nodes: append([]Node(nil), b.nodes...)}
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leafFeature})

	if depth >= b.maxDepth || len(idx) < 2*b.minSamplesLeaf {
		b.nodes[id].Value = b.leafValue(idx)
		return id
	}

	best, ok := b.bestSplit(idx)
	if !ok {
		b.nodes[id].Value = b.leafValue(idx)
		return id
	}

	left := append([]int(nil), best.order[:best.pos]...)
	right := append([]int(nil), best.order[best.pos:]...)
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      l,
		Right:     r,
	}
	return id
}

// bestSplit 遍历所有特征的所有候选阈值，最大化 sumL²/nL + sumR²/nR - sum²/n
func (b *treeBuilder) bestSplit(idx []int) (split, bool) {
	n := len(idx)
	total := 0.0
	for _, i := range idx {
		total += b.residual[i]
	}
	parent := total * total / float64(n)

	best := split{gain: 1e-12}
	found := false
	order := make([]int, n)
	width := len(b.x[idx[0]])

	for f := 0; f < width; f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, c int) bool {
			return b.x[order[a]][f] < b.x[order[c]][f]
		})

		sumLeft := 0.0
		for pos := 1; pos < n; pos++ {
			sumLeft += b.residual[order[pos-1]]
			lo := b.x[order[pos-1]][f]
			hi := b.x[order[pos]][f]
			if lo == hi {
				continue
			}
			if pos < b.minSamplesLeaf || n-pos < b.minSamplesLeaf {
				continue
			}
			sumRight := total - sumLeft
			gain := sumLeft*sumLeft/float64(pos) + sumRight*sumRight/float64(n-pos) - parent
			if gain > best.gain {
				best = split{
					feature:   f,
					threshold: lo + (hi-lo)/2,
					gain:      gain,
					pos:       pos,
					order:     slices.Clone(order),
				}
				found = true
			}
		}
	}
	return best, found
}
