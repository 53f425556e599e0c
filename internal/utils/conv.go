package utils

import (
	"strconv"
)

// ParseID converts a path parameter to a positive id, returns 0 if invalid
func ParseID(s string) uint {
	i, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0
	}
	return uint(i)
}
