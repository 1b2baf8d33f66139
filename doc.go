package gokata

// Package gokata compiles declarative schemas into fixed-layout field specs and
// validates data against them, either from generic maps or directly from JSON
// bytes without an intermediate object tree.
//
// - Schemas are compiled once (Compile/MustCompile) and are immutable afterward;
//   a compiled Schema is safe for unlimited concurrent use.
// - Validated values land in a Record: a fixed slot array addressed by field
//   position, with name access going through the schema's index.
// - A stable error model via Issues (JSON Pointer, code, message); field-level
//   issues accumulate across a pass, structural failures abort immediately.
// - Decode matches JSON keys against precomputed name hashes with a
//   declaration-order fast path and a full-scan fallback.
//
// Design policy:
// - Keep only public APIs in the root package; put the byte-level scanner under
//   internal/.
// - Place the YAML loader under schemayaml/, JSON Schema export under
//   jsonschema/, and the CLI under cmd/gokata.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := gokata.MustCompile("User", []*gokata.Field{
//		gokata.F("id", gokata.TypeInt).Required().GE(1),
//		gokata.F("name", gokata.TypeString).Required().MinLen(1).MaxLen(50),
//		gokata.F("email", gokata.TypeString).Format(gokata.FormatEmail),
//	})
//	rec, err := gokata.Decode(user, data)
//	out, err := rec.AppendJSON(nil)
