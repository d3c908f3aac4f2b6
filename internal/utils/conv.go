package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// PageParam 解析页码，非法值按第 1 页处理
func PageParam(s string) int {
	if p := StringToInt(s); p > 0 {
		return p
	}
	return 1
}
