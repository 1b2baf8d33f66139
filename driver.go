package gokata

import (
	"sync"

	jsonsrc "github.com/reoring/gokata/source/json"
)

// JSONDriver decodes composite JSON values the schema declares no shape for:
// TypeAny subtrees and passthrough extras. The default implementation wraps
// encoding/json and may be swapped with SetJSONDriver (for example with the
// go-json driver in source/gojson).
type JSONDriver interface {
	Unmarshal(data []byte, v any) error
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the encoding/json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) Unmarshal(data []byte, v any) error { return jsonsrc.Unmarshal(data, v) }
func (defaultJSONDriver) Name() string                       { return "encoding/json" }
