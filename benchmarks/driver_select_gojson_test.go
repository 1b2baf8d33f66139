//go:build gojson

package gokata_test

import (
	gokata "github.com/reoring/gokata"
	drv "github.com/reoring/gokata/source/gojson"
)

func init() {
	gokata.SetJSONDriver(drv.Driver())
}
