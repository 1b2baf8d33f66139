//go:build jsonv2

package gokata_test

import (
	gokata "github.com/reoring/gokata"
	drv "github.com/reoring/gokata/source/jsonv2"
)

func init() {
	gokata.SetJSONDriver(drv.Driver())
}
