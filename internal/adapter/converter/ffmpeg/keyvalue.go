package ffmpeg

import (
	"bufio"
	"strconv"
	"strings"
)

// KeyValues holds every value seen for each key, in output order. ffprobe
// repeats stream keys once per stream.
type KeyValues map[string][]string

// ParseKeyValues reads "key=value" lines. Blank lines, section markers such
// as [STREAM] and lines without '=' are ignored.
func ParseKeyValues(text string) KeyValues {
	kv := make(KeyValues)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		kv[key] = append(kv[key], strings.TrimSpace(value))
	}
	return kv
}

// Float returns the first value for key that parses as a float, or 0.
func (kv KeyValues) Float(key string) float64 {
	for _, v := range kv[key] {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// Int returns the first positive integer value for key, or 0. Audio streams
// report no usable dimensions, so the first positive value is the video one.
func (kv KeyValues) Int(key string) int {
	for _, v := range kv[key] {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
