package utils

import "math"

// Round2 四舍五入保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp 将 v 限制在 [lo, hi] 区间内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
