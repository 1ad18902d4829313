package utils

import (
	"strings"
	"unicode/utf8"
)

// SplitLines breaks text on every Unicode line boundary (\n, \r\n, \r, \v, \f,
// the ASCII file/group/record separators, NEL, LS and PS). A trailing line
// break does not produce an empty final line. Bytes that are not valid UTF-8
// are kept as they are.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// NonBlankLines is SplitLines without the lines that hold only whitespace.
// Kept lines are returned verbatim.
func NonBlankLines(text string) []string {
	all := SplitLines(text)
	lines := make([]string, 0, len(all))
	for _, line := range all {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Batch cuts items into consecutive slices of at most size elements.
func Batch[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
