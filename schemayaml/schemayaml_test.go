package schemayaml_test

import (
	"strings"
	"testing"

	gokata "github.com/reoring/gokata"
	"github.com/reoring/gokata/schemayaml"
)

const userYAML = `
name: User
unknown: strict
fields:
  - name: id
    type: int
    alias: user_id
    required: true
    ge: 1
  - name: name
    type: string
    required: true
    min_length: 1
    max_length: 50
    strip: true
  - name: email
    type: string
    format: email
  - name: role
    type: string
    enum: [admin, user]
    default: user
`

func TestLoad(t *testing.T) {
	s, err := schemayaml.Load([]byte(userYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name() != "User" || s.NumFields() != 4 {
		t.Fatalf("schema: %s with %d fields", s.Name(), s.NumFields())
	}
	if s.Unknown() != gokata.UnknownStrict {
		t.Fatalf("unknown policy: %v", s.Unknown())
	}

	rec, err := gokata.Decode(s, []byte(`{"user_id":3,"name":" Ann "}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if v, _ := rec.GetByName("id"); v != int64(3) {
		t.Fatalf("id: %v", v)
	}
	if v, _ := rec.GetByName("name"); v != "Ann" {
		t.Fatalf("name: %v", v)
	}
	if v, _ := rec.GetByName("role"); v != "user" {
		t.Fatalf("default role: %v", v)
	}

	_, err = gokata.Build(s, map[string]any{"id": 0, "name": "A", "extra": 1})
	iss, _ := gokata.AsIssues(err)
	codes := map[string]bool{}
	for _, is := range iss {
		codes[string(is.Code)] = true
	}
	if !codes["too_small"] || !codes["unknown_key"] {
		t.Fatalf("issues: %v", iss)
	}
}

func TestLoadNestedSchemas(t *testing.T) {
	doc := `
name: Order
fields:
  - name: addr
    type: record
    required: true
    schema:
      name: Addr
      fields:
        - name: city
          type: string
          required: true
  - name: items
    type: list
    schemas:
      - name: Item
        fields:
          - name: price
            type: float
            gt: 0
  - name: pet
    type: union
    schemas:
      - name: Cat
        fields:
          - name: meows
            type: bool
            required: true
      - name: Dog
        fields:
          - name: barks
            type: bool
            required: true
`
	s, err := schemayaml.Load([]byte(doc))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	rec, err := gokata.Decode(s, []byte(`{"addr":{"city":"Oslo"},"items":[{"price":2.5}],"pet":{"barks":true}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	addr, _ := rec.GetByName("addr")
	if addr.(*gokata.Record).Schema().Name() != "Addr" {
		t.Fatalf("addr: %#v", addr)
	}
	pet, _ := rec.GetByName("pet")
	if pet.(*gokata.Record).Schema().Name() != "Dog" {
		t.Fatalf("pet: %#v", pet)
	}
}

func TestLoadAllAndNamed(t *testing.T) {
	doc := `
name: A
fields:
  - name: x
    type: int
---
name: B
unknown: passthrough
fields:
  - name: y
    type: string
`
	all, err := schemayaml.LoadAll([]byte(doc))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(all) != 2 || all[0].Name() != "A" || all[1].Name() != "B" {
		t.Fatalf("schemas: %v", all)
	}
	b, err := schemayaml.LoadNamed([]byte(doc), "B")
	if err != nil {
		t.Fatalf("named failed: %v", err)
	}
	if b.Unknown() != gokata.UnknownPassthrough {
		t.Fatalf("policy: %v", b.Unknown())
	}
	if _, err := schemayaml.LoadNamed([]byte(doc), "C"); err == nil {
		t.Fatal("missing name should fail")
	}
}

func TestLoadTolerance(t *testing.T) {
	doc := `
name: T
multiple_of_tolerance: 1e-12
fields:
  - name: v
    type: float
    multiple_of: 5
`
	s, err := schemayaml.Load([]byte(doc))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := gokata.Build(s, map[string]any{"v": 10.0000000001}); err == nil {
		t.Fatal("tight tolerance should reject the drifted value")
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no document", "", "no schema document"},
		{"missing name", "fields: []", "missing name"},
		{"missing fields", "name: X", "missing fields"},
		{"field not mapping", "name: X\nfields: [7]", "not a mapping"},
		{"field missing name", "name: X\nfields:\n  - type: int", "field missing name"},
		{"bad type", "name: X\nfields:\n  - name: a\n    type: blob", "unknown type"},
		{"bad format", "name: X\nfields:\n  - name: a\n    format: phone", "unknown format"},
		{"bad policy", "name: X\nunknown: reject\nfields:\n  - name: a", "unknown policy"},
		{"non-string enum", "name: X\nfields:\n  - name: a\n    enum: [1, 2]", "non-string enum"},
		{"bad yaml", "name: [", "schemayaml"},
		{"compile error", "name: X\nfields:\n  - name: a\n    type: bool\n    ge: 1", "numeric bounds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schemayaml.Load([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q should mention %q", err, tc.want)
			}
		})
	}
}
