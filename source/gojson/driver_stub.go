//go:build !gojson

package gojson

import (
	gokata "github.com/reoring/gokata"
	jsonsrc "github.com/reoring/gokata/source/json"
)

// Driver returns a stub driver description when the gojson tag is not
// enabled. It delegates to the encoding/json-based codec directly to avoid
// recursion.
func Driver() gokata.JSONDriver { return stub{} }

type stub struct{}

func (stub) Unmarshal(data []byte, v any) error { return jsonsrc.Unmarshal(data, v) }
func (stub) Name() string                       { return "encoding/json (gojson stub)" }
