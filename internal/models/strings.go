package models

import "strings"

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
