package utils

import "strconv"

// Unique removes duplicate values from a slice, keeping first occurrences in order.
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	list := make([]T, 0, len(slice))
	for _, entry := range slice {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		list = append(list, entry)
	}
	return list
}

// FormatID renders a numeric primary key.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
