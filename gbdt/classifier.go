// Package gbdt 实现二分类梯度提升决策树 (Gradient Boosting Decision Tree)。
//
// 训练原理：
// 1. 初始值为训练集正样本比例的对数几率 log(p / (1-p))
// 2. 每一轮在负梯度（残差 y - sigmoid(F)）上拟合一棵回归树
// 3. 叶子值取牛顿步 sum(残差) / sum(p(1-p))
// 4. F += LearningRate * tree(x)
//
// 最终输出 sigmoid(F) 为正类概率。
package gbdt

import (
	"errors"
	"fmt"
	"math"
)

// Params 训练超参数
type Params struct {
	NEstimators    int     `json:"n_estimators"`
	LearningRate   float64 `json:"learning_rate"`
	MaxDepth       int     `json:"max_depth"`
	MinSamplesLeaf int     `json:"min_samples_leaf"`
}

// DefaultParams 返回默认超参数：100 棵深度为 3 的树，学习率 0.1
func DefaultParams() Params {
	return Params{
		NEstimators:    100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 1,
	}
}

func (p Params) validate() error {
	switch {
	case p.NEstimators <= 0:
		return fmt.Errorf("gbdt: n_estimators must be positive, got %d", p.NEstimators)
	case p.LearningRate <= 0:
		return fmt.Errorf("gbdt: learning_rate must be positive, got %g", p.LearningRate)
	case p.MaxDepth <= 0:
		return fmt.Errorf("gbdt: max_depth must be positive, got %d", p.MaxDepth)
	case p.MinSamplesLeaf <= 0:
		return fmt.Errorf("gbdt: min_samples_leaf must be positive, got %d", p.MinSamplesLeaf)
	}
	return nil
}

// Classifier 是训练好的二分类 GBDT 模型，训练完成后只读，可并发调用
type Classifier struct {
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"`
	NFeatures    int     `json:"n_features"`
	Trees        []*Tree `json:"trees"`
}

// Fit 在特征矩阵 x 和 0/1 标签 y 上训练模型
func Fit(x [][]float64, y []int, p Params) (*Classifier, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errors.New("gbdt: empty training set")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("gbdt: %d rows but %d labels", len(x), len(y))
	}
	width := len(x[0])
	positives := 0
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("gbdt: row %d has %d features, want %d", i, len(row), width)
		}
		switch y[i] {
		case 0:
		case 1:
			positives++
		default:
			return nil, fmt.Errorf("gbdt: label %d at row %d is not 0 or 1", y[i], i)
		}
	}
	if positives == 0 || positives == len(y) {
		return nil, errors.New("gbdt: training labels contain a single class")
	}

	prior := float64(positives) / float64(len(y))
	c := &Classifier{
		Init:         math.Log(prior / (1 - prior)),
		LearningRate: p.LearningRate,
		NFeatures:    width,
		Trees:        make([]*Tree, 0, p.NEstimators),
	}

	raw := make([]float64, len(x))
	prob := make([]float64, len(x))
	residual := make([]float64, len(x))
	for i := range raw {
		raw[i] = c.Init
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	b := &treeBuilder{
		x:              x,
		residual:       residual,
		maxDepth:       p.MaxDepth,
		minSamplesLeaf: p.MinSamplesLeaf,
		leafValue: func(leaf []int) float64 {
			num, den := 0.0, 0.0
			for _, i := range leaf {
				num += residual[i]
				den += prob[i] * (1 - prob[i])
			}
			if den < 1e-150 {
				return 0
			}
			return num / den
		},
	}

	for m := 0; m < p.NEstimators; m++ {
		for i := range raw {
			prob[i] = sigmoid(raw[i])
			residual[i] = float64(y[i]) - prob[i]
		}
		tree := b.build(idx)
		c.Trees = append(c.Trees, tree)
		for i, row := range x {
			raw[i] += c.LearningRate * tree.Predict(row)
		}
	}
	return c, nil
}

// DecisionFunction 返回未经 sigmoid 的原始分数（对数几率）
func (c *Classifier) DecisionFunction(x []float64) float64 {
	f := c.Init
	for _, t := range c.Trees {
		f += c.LearningRate * t.Predict(x)
	}
	return f
}

// PredictProba 返回 [负类概率, 正类概率]
func (c *Classifier) PredictProba(x []float64) ([2]float64, error) {
	if len(x) != c.NFeatures {
		return [2]float64{}, fmt.Errorf("gbdt: got %d features, model expects %d", len(x), c.NFeatures)
	}
	p := sigmoid(c.DecisionFunction(x))
	return [2]float64{1 - p, p}, nil
}

// Predict 返回 0/1 预测标签，阈值 0.5
func (c *Classifier) Predict(x []float64) (int, error) {
	proba, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if proba[1] > 0.5 {
		return 1, nil
	}
	return 0, nil
}

// MaxTreeDepth 返回集成中最深的一棵树的深度
func (c *Classifier) MaxTreeDepth() int {
	depth := 0
	for i := range c.Trees {
		depth = max(depth, c.Trees[i].Depth())
	}
	return depth
}

// Accuracy 计算在给定样本上的准确率
func (c *Classifier) Accuracy(x [][]float64, y []int) (float64, error) {
	if len(x) == 0 {
		return 0, errors.New("gbdt: empty evaluation set")
	}
	if len(x) != len(y) {
		return 0, fmt.Errorf("gbdt: %d rows but %d labels", len(x), len(y))
	}
	correct := 0
	for i, row := range x {
		pred, err := c.Predict(row)
		if err != nil {
			return 0, err
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x)), nil
}

// Validate 检查反序列化后的模型结构是否完整
func (c *Classifier) Validate() error {
	if c.NFeatures <= 0 {
		return errors.New("gbdt: model has no features")
	}
	if len(c.Trees) == 0 {
		return errors.New("gbdt: model has no trees")
	}
	for ti, t := range c.Trees {
		if t == nil || len(t.Nodes) == 0 {
			return fmt.Errorf("gbdt: tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature == leafFeature {
				continue
			}
			if n.Feature < 0 || n.Feature >= c.NFeatures {
				return fmt.Errorf("gbdt: tree %d node %d references feature %d", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("gbdt: tree %d node %d has invalid children", ti, ni)
			}
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
