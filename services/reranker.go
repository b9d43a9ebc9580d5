package services

import (
	"lead_scoring/utils"
)

const keywordWeight = 10.0

var (
	// PositiveKeywords 表示购买意向强的短语，每命中一个 +10
	PositiveKeywords = []string{"urgent", "immediate", "looking to move", "call me asap", "finalizing"}
	// NegativeKeywords 表示意向弱的短语，每命中一个 -10
	NegativeKeywords = []string{"not now", "just exploring", "budget issue", "need loan"}
)

// Rerank 根据备注中的关键词调整模型分数。
// 匹配不区分大小写、按子串查找，正负关键词各自独立累加，结果截断到 [0, 100]。
func Rerank(initialScore float64, comments string) float64 {
	pos := utils.FindKeywords(comments, PositiveKeywords)
	neg := utils.FindKeywords(comments, NegativeKeywords)
	score := initialScore + keywordWeight*float64(len(pos)-len(neg))
	return utils.Clamp(score, 0, 100)
}
