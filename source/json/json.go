// Package json is the default encoding/json-backed value codec used by the
// root package's JSONDriver for untyped subtrees.
package json

import stdjson "encoding/json"

// Unmarshal decodes data into v using encoding/json.
func Unmarshal(data []byte, v any) error { return stdjson.Unmarshal(data, v) }
