package utils

import (
	"strconv"
	"strings"
)

// PositiveInt parses s and returns def unless the result is > 0.
func PositiveInt(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i <= 0 {
		return def
	}
	return i
}

// ParseID parses a path id; ok is false for anything but a positive integer.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
