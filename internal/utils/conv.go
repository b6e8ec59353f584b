package utils

import (
	"strconv"
)

// ParseID converts a path parameter to a positive id, ok is false otherwise
func ParseID(s string) (uint, bool) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil || i == 0 {
		return 0, false
	}
	return uint(i), true
}

func UintToString(i uint) string {
	return strconv.FormatUint(uint64(i), 10)
}
