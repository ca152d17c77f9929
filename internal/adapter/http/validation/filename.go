package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bnema/vidshelf/internal/domain"
)

// maxFilenameLength is the usual filesystem limit, in bytes.
const maxFilenameLength = 255

// SanitizeFilename makes name safe for headers and paths. Path separators,
// quotes, colons and control characters become '_', Unicode is kept, and
// names over 255 bytes are cut while keeping the extension. A name with
// nothing usable left becomes "file".
func SanitizeFilename(name string) string {
	result := strings.TrimSpace(strings.Map(replaceUnsafe, name))
	if strings.Trim(result, "_") == "" {
		return "file"
	}
	if len(result) > maxFilenameLength {
		result = truncateKeepingExt(result)
	}
	return result
}

func replaceUnsafe(r rune) rune {
	switch {
	case r < 32 || r == 127:
		return '_'
	case r == '"', r == '\\', r == '/', r == ':':
		return '_'
	default:
		return r
	}
}

// SafeVideoName reports whether name can be served from the videos
// directory as is: a bare, visible file name with a video extension that
// sanitizing leaves untouched.
func SafeVideoName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if SanitizeFilename(name) != name {
		return false
	}
	return domain.IsVideoFile(name)
}

func truncateKeepingExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || len(ext) >= maxFilenameLength {
		return truncateToBytes(name, maxFilenameLength)
	}
	base := strings.TrimSuffix(name, ext)
	return truncateToBytes(base, maxFilenameLength-len(ext)) + ext
}

// truncateToBytes cuts s to at most n bytes on a rune boundary.
func truncateToBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ContentDisposition returns an inline or attachment header value for
// filename, sanitized first.
func ContentDisposition(filename string, inline bool) string {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	return fmt.Sprintf("%s; filename=%q", disposition, SanitizeFilename(filename))
}
