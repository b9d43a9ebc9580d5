package features

import (
	"errors"
	"math"
)

// StandardScaler Z-score 标准化
// 公式: z = (x - μ) / σ，σ 为总体标准差；σ 为 0 的列按 1 处理，只做平移
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitStandardScaler 按列计算均值和标准差
func FitStandardScaler(rows []Vector) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("features: cannot fit scaler on empty data")
	}
	width := len(rows[0])
	mean := make([]float64, width)
	for _, row := range rows {
		if len(row) != width {
			return nil, errors.New("features: inconsistent row width")
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return &StandardScaler{Mean: mean, Scale: scale}, nil
}

// Width 返回标准化器期望的向量维度
func (s *StandardScaler) Width() int { return len(s.Mean) }

// Transform 返回标准化后的新向量，不修改入参
func (s *StandardScaler) Transform(v Vector) Vector {
	out := make(Vector, len(v))
	for j, x := range v {
		out[j] = (x - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll 批量标准化
func (s *StandardScaler) TransformAll(rows []Vector) []Vector {
	out := make([]Vector, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
