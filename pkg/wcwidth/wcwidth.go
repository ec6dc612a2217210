// Package wcwidth computes the display width of strings in a terminal.
package wcwidth

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/width"
)

var (
	overrideMutex sync.RWMutex
	override      = map[rune]int{}
)

// OfRune returns the column width of a rune.
func OfRune(r rune) int {
	overrideMutex.RLock()
	w, ok := override[r]
	overrideMutex.RUnlock()
	if ok {
		return w
	}
	switch {
	case r == 0 || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) ||
		unicode.Is(unicode.Cf, r):
		return 0
	case unicode.IsControl(r):
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// Override overrides the column width of a rune. A negative width removes
// the override.
func Override(r rune, w int) {
	if w < 0 {
		Unoverride(r)
		return
	}
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	override[r] = w
}

// Unoverride removes the column width override of a rune.
func Unoverride(r rune) {
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	delete(override, r)
}

// Of returns the column width of a string.
func Of(s string) (w int) {
	for _, r := range s {
		w += OfRune(r)
	}
	return w
}

// Trim trims the string s so that it is no wider than w columns.
func Trim(s string, w int) string {
	total := 0
	for i, r := range s {
		total += OfRune(r)
		if total > w {
			return s[:i]
		}
	}
	return s
}

// Force forces the string s to be exactly w columns wide, trimming or
// padding with spaces as needed.
func Force(s string, w int) string {
	s = Trim(s, w)
	return s + strings.Repeat(" ", w-Of(s))
}

// PadLeft pads s with spaces on the left until it is w columns wide.
func PadLeft(s string, w int) string {
	if n := w - Of(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// TrimEachLine trims each line of s so that it is no wider than w columns.
func TrimEachLine(s string, w int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = Trim(lines[i], w)
	}
	return strings.Join(lines, "\n")
}
