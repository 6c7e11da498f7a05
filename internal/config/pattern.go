package config

import "strings"

// matchPattern reports whether path matches pattern, where pattern is a
// dot-separated glob and `*` matches exactly one dot-segment (never
// zero, never more than one).
func matchPattern(pattern, path string) bool {
	patternSegs := strings.Split(pattern, ".")
	pathSegs := strings.Split(path, ".")
	if len(patternSegs) != len(pathSegs) {
		return false
	}
	for i, p := range patternSegs {
		if p == "*" {
			continue
		}
		if p != pathSegs[i] {
			return false
		}
	}
	return true
}
