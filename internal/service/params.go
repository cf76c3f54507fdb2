package service

import (
	"math"
	"strconv"
)

// ParseThoughtID 解析路径中的 thought ID，必须是正整数。
func ParseThoughtID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

// ParsePage 解析页码，必须是 >= 1 的整数。
func ParsePage(raw string) (int, error) {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, newValidationError("Page must be 1 or more")
	}
	return page, nil
}

// ParseMinHearts 解析 hearts 下限，任意有限数字均可。
func ParseMinHearts(raw string) (float64, error) {
	min, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(min) || math.IsInf(min, 0) {
		return 0, newValidationError("Invalid 'min' parameter. Must be a number.")
	}
	return min, nil
}
