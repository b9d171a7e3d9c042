package util

import (
	"strconv"
	"strings"
)

// StrToUint64 解析十进制无符号整数，失败返回 0
func StrToUint64(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}
