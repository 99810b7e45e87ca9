package imagepkg

import "strings"

// Wrap breaks text into lines of at most maxChars runes.
//
// While the remainder is longer than maxChars, the line ends at the last
// space before position maxChars and that space is dropped. When no such
// space exists the line is cut hard at maxChars. The final remainder is
// emitted unchanged, so text that already fits comes back as a single line.
func Wrap(text string, maxChars int) []string {
	maxChars = max(maxChars, 1)
	rest := []rune(text)
	var lines []string
	for len(rest) > maxChars {
		cut := lastSpace(rest[:maxChars])
		if cut <= 0 {
			lines = append(lines, strings.TrimSpace(string(rest[:maxChars])))
			rest = rest[maxChars:]
			continue
		}
		lines = append(lines, strings.TrimSpace(string(rest[:cut])))
		rest = rest[cut+1:]
	}
	return append(lines, string(rest))
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
