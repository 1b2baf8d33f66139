//go:build !jsonv2

package jsonv2

import (
	gokata "github.com/reoring/gokata"
	jsonsrc "github.com/reoring/gokata/source/json"
)

// Driver returns a stub delegating to encoding/json when the jsonv2 tag is
// not enabled.
func Driver() gokata.JSONDriver { return stub{} }

type stub struct{}

func (stub) Unmarshal(data []byte, v any) error { return jsonsrc.Unmarshal(data, v) }
func (stub) Name() string                       { return "encoding/json (jsonv2 stub)" }
