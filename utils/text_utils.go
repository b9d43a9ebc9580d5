package utils

import (
	"strings"
)

// DeduplicateSlice 去重字符串切片，保留首次出现的顺序
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// FindKeywords 返回 text 中出现的关键词，不区分大小写，按子串匹配；
// 重复的关键词只计一次
func FindKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range DeduplicateSlice(keywords) {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
