package clip

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// encodeDropList renders paths as the file block of a DROPFILES structure:
// each path as NUL-terminated UTF-16, then one more NUL.
func encodeDropList(paths []string) ([]uint16, error) {
	var buf []uint16
	for _, p := range paths {
		if p == "" {
			continue
		}
		if strings.ContainsRune(p, 0) {
			return nil, fmt.Errorf("path %q contains NUL: %w", p, ErrUnsupported)
		}
		buf = append(buf, utf16.Encode([]rune(p))...)
		buf = append(buf, 0)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("no files to write: %w", ErrUnsupported)
	}
	return append(buf, 0), nil
}

// decodeDropList is the inverse of encodeDropList. An empty path ends the
// block; a final path without its NUL is still returned.
func decodeDropList(buf []uint16) []string {
	var out []string
	start := 0
	for i, u := range buf {
		if u != 0 {
			continue
		}
		if i == start {
			return out
		}
		out = append(out, string(utf16.Decode(buf[start:i])))
		start = i + 1
	}
	if start < len(buf) {
		out = append(out, string(utf16.Decode(buf[start:])))
	}
	return out
}
