package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

var levels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

var (
	mu     sync.Mutex
	out    io.Writer = os.Stdout
	thresh           = levels["info"]
)

func init() {
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	Info = log.New(os.Stdout, "INFO: ", logFlags)
	Warn = log.New(os.Stdout, "WARN: ", logFlags)
	Error = log.New(os.Stdout, "ERROR: ", logFlags)
}

// SetLevel discards every logger below level. Accepts debug, info, warn
// and error, case-insensitively.
func SetLevel(level string) error {
	l, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	mu.Lock()
	thresh = l
	mu.Unlock()
	apply()
	return nil
}

// SetOutput redirects every enabled logger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
	apply()
}

func apply() {
	mu.Lock()
	defer mu.Unlock()
	for name, lg := range map[string]*log.Logger{"debug": Debug, "info": Info, "warn": Warn, "error": Error} {
		if levels[name] < thresh {
			lg.SetOutput(io.Discard)
		} else {
			lg.SetOutput(out)
		}
	}
}
