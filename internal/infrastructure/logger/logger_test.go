package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		_ = SetLevel("info")
		SetOutput(os.Stdout)
	})

	require.NoError(t, SetLevel("warn"))
	Debug.Print("debug line")
	Info.Print("info line")
	Warn.Print("warn line")
	Error.Print("error line")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "WARN: ")
	assert.Contains(t, out, "error line")

	buf.Reset()
	require.NoError(t, SetLevel("DEBUG"))
	Debug.Print("visible now")
	assert.Contains(t, buf.String(), "DEBUG: ")
}

func TestSetLevel_Unknown(t *testing.T) {
	assert.Error(t, SetLevel("verbose"))
}
