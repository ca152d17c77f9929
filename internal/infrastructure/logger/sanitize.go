package logger

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxLogValueRunes caps how much of a client-supplied value reaches the log.
const maxLogValueRunes = 200

const truncatedMarker = "...(truncated)"

// SanitizeForLog makes a client-supplied value (a video ID, a file name, a
// request path) safe to embed in one log line. Control characters are
// escaped so they cannot forge entries or drive the terminal, printable
// Unicode is kept, and values longer than 200 runes are cut.
func SanitizeForLog(s string) string {
	var b strings.Builder
	b.Grow(min(len(s), maxLogValueRunes*utf8.UTFMax))

	n := 0
	for _, r := range s {
		if n == maxLogValueRunes {
			b.WriteString(truncatedMarker)
			break
		}
		n++

		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
