package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValues(t *testing.T) {
	out := `
[STREAM]
width=1920
height=1080
[/STREAM]
  width = 
height=N/A
no equals sign here
=orphan
duration=600.040000
`
	kv := ParseKeyValues(out)

	assert.Equal(t, []string{"1920", ""}, kv["width"])
	assert.Equal(t, []string{"1080", "N/A"}, kv["height"])
	assert.Equal(t, []string{"600.040000"}, kv["duration"])
	assert.NotContains(t, kv, "")
	assert.Len(t, kv, 3)
}

func TestKeyValues_Int(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   int
	}{
		{"first positive wins", []string{"1280", "640"}, 1280},
		{"audio stream first", []string{"0", "854"}, 854},
		{"unparseable skipped", []string{"N/A", "720"}, 720},
		{"missing", nil, 0},
		{"negative ignored", []string{"-1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := KeyValues{"width": tt.values}
			assert.Equal(t, tt.want, kv.Int("width"))
		})
	}
}

func TestKeyValues_Float(t *testing.T) {
	assert.Equal(t, 12.5, KeyValues{"duration": {"N/A", "12.5"}}.Float("duration"))
	assert.Equal(t, 0.0, KeyValues{"duration": {"N/A"}}.Float("duration"))
	assert.Equal(t, 0.0, KeyValues{}.Float("duration"))
}
