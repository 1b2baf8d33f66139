//go:build jsonv2

package jsonv2

import (
	v2json "encoding/json/v2"

	gokata "github.com/reoring/gokata"
)

// Driver returns a gokata.JSONDriver backed by the experimental
// encoding/json/v2 package.
func Driver() gokata.JSONDriver { return driverJSONv2{} }

type driverJSONv2 struct{}

func (driverJSONv2) Unmarshal(data []byte, v any) error { return v2json.Unmarshal(data, v) }
func (driverJSONv2) Name() string                       { return "encoding/json/v2" }
