package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// CalculateMD5 计算字符串的MD5哈希值，返回32位小写十六进制字符串
func CalculateMD5(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ContactFingerprint 用邮箱和手机号生成日志中使用的指纹，避免明文写入联系方式
func ContactFingerprint(email, phone string) string {
	key := strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(phone)
	return CalculateMD5(key)[:12]
}
