package source

import (
	gokata "github.com/reoring/gokata"
	drvgojson "github.com/reoring/gokata/source/gojson"
)

// init in a separate package to avoid an import cycle in the root. Importing
// this package makes go-json the default driver (when built with the gojson
// tag; otherwise the stub keeps encoding/json).
func init() { gokata.SetJSONDriver(drvgojson.Driver()) }
