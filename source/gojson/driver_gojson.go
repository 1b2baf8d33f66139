//go:build gojson

package gojson

import (
	j "github.com/goccy/go-json"

	gokata "github.com/reoring/gokata"
)

// Driver returns a gokata.JSONDriver backed by goccy/go-json.
func Driver() gokata.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) Unmarshal(data []byte, v any) error { return j.Unmarshal(data, v) }
func (driverGoJSON) Name() string                       { return "go-json" }
