// Package logger provides structured logging for syncx.
package logger

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the default clip length for string attributes.
const DefaultMaxValueLen = 256

// truncateAttr clips long string values, recursing into groups.
func truncateAttr(a slog.Attr, limit int) slog.Attr {
	if limit < 0 {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); len(s) > limit {
			return slog.String(a.Key, Truncate(s, limit))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			clipped[i] = truncateAttr(attr, limit)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}

	return a
}

// Truncate shortens s to at most limit bytes on a rune boundary and notes
// how many bytes were dropped.
func Truncate(s string, limit int) string {
	if limit < 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...(%d more bytes)", s[:cut], len(s)-cut)
}
