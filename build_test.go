package gokata_test

import (
	"math"
	"strings"
	"testing"

	gokata "github.com/reoring/gokata"
)

func userSchema(t testing.TB, opt ...gokata.SchemaOpt) *gokata.Schema {
	t.Helper()
	s, err := gokata.Compile("User", []*gokata.Field{
		gokata.F("id", gokata.TypeInt).Required().GE(1),
		gokata.F("name", gokata.TypeString).Required().MinLen(1).MaxLen(50),
		gokata.F("email", gokata.TypeString).Format(gokata.FormatEmail),
	}, opt...)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return s
}

func TestBuildOK(t *testing.T) {
	s := userSchema(t)
	rec, err := gokata.Build(s, map[string]any{"id": 5, "name": "Ann", "email": "a@b.co"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if v, _ := rec.GetByName("id"); v != int64(5) {
		t.Fatalf("id = %v", v)
	}
	if v, _ := rec.GetByName("name"); v != "Ann" {
		t.Fatalf("name = %v", v)
	}
}

func TestBuildCollectsAllIssues(t *testing.T) {
	s := userSchema(t)
	_, err := gokata.Build(s, map[string]any{"id": 0, "name": "", "email": "bad"})
	iss, ok := gokata.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(iss), iss)
	}
	if iss[0].Path != "/id" || iss[0].Code != gokata.CodeTooSmall {
		t.Fatalf("issue 0: %+v", iss[0])
	}
	if iss[1].Path != "/name" || iss[1].Code != gokata.CodeTooShort {
		t.Fatalf("issue 1: %+v", iss[1])
	}
	if iss[2].Path != "/email" || iss[2].Code != gokata.CodeInvalidFormat {
		t.Fatalf("issue 2: %+v", iss[2])
	}
}

func TestBuildRequiredMissing(t *testing.T) {
	s := userSchema(t)
	_, err := gokata.Build(s, map[string]any{"name": "Ann"})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeRequired || iss[0].Path != "/id" {
		t.Fatalf("issues: %v", iss)
	}
	if iss[0].Message != "Field required" {
		t.Fatalf("message: %q", iss[0].Message)
	}
	if iss.Structural() {
		t.Fatalf("required must be field-level, not structural")
	}
}

func TestBuildDefaultSkipsValidation(t *testing.T) {
	// Defaults are assumed well-formed and stored as-is, even when they
	// would fail the field's own constraints.
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("n", gokata.TypeInt).GE(10).Default(int64(0)),
	})
	rec, err := gokata.Build(s, map[string]any{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if v := rec.Get(0); v != int64(0) {
		t.Fatalf("default = %v", v)
	}
}

func TestBuildAliasPriority(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("user_id", gokata.TypeInt).Alias("userId"),
	})
	rec, err := gokata.Build(s, map[string]any{"userId": 7, "user_id": 9})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if v := rec.Get(0); v != int64(7) {
		t.Fatalf("alias should win: got %v", v)
	}
}

func TestBoolNeverNumeric(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("i", gokata.TypeInt),
		gokata.F("f", gokata.TypeFloat),
	})
	_, err := gokata.Build(s, map[string]any{"i": true, "f": false})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	for _, is := range iss {
		if is.Code != gokata.CodeInvalidType {
			t.Fatalf("code: %+v", is)
		}
	}
}

func TestIntCoercion(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{gokata.F("n", gokata.TypeInt)})
	rec, err := gokata.Build(s, map[string]any{"n": 3.0})
	if err != nil {
		t.Fatalf("exact float should coerce: %v", err)
	}
	if v := rec.Get(0); v != int64(3) {
		t.Fatalf("coerced = %v", v)
	}
	if _, err := gokata.Build(s, map[string]any{"n": 3.5}); err == nil {
		t.Fatalf("fractional float must not coerce to int")
	}

	strict := gokata.MustCompile("S", []*gokata.Field{gokata.F("n", gokata.TypeInt).Strict()})
	_, err = gokata.Build(strict, map[string]any{"n": 3.0})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidType {
		t.Fatalf("strict int must reject floats: %v", iss)
	}
	if !strings.Contains(iss[0].Message, "exactly") {
		t.Fatalf("message: %q", iss[0].Message)
	}
}

func TestFloatCoercion(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{gokata.F("x", gokata.TypeFloat)})
	rec, err := gokata.Build(s, map[string]any{"x": 2})
	if err != nil {
		t.Fatalf("int should coerce to float: %v", err)
	}
	if v := rec.Get(0); v != 2.0 {
		t.Fatalf("coerced = %v", v)
	}
	strict := gokata.MustCompile("S", []*gokata.Field{gokata.F("x", gokata.TypeFloat).Strict()})
	if _, err := gokata.Build(strict, map[string]any{"x": 2}); err == nil {
		t.Fatalf("strict float must reject ints")
	}
}

func TestFloatFiniteness(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{gokata.F("x", gokata.TypeFloat)})
	_, err := gokata.Build(s, map[string]any{"x": math.Inf(1)})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeNotFinite {
		t.Fatalf("issues: %v", iss)
	}
	allowed := gokata.MustCompile("S", []*gokata.Field{gokata.F("x", gokata.TypeFloat).AllowInfNaN()})
	if _, err := gokata.Build(allowed, map[string]any{"x": math.NaN()}); err != nil {
		t.Fatalf("allow_inf_nan should pass: %v", err)
	}
}

func TestMultipleOfTolerance(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("x", gokata.TypeFloat).MultipleOf(5),
	})
	if _, err := gokata.Build(s, map[string]any{"x": 10.0}); err != nil {
		t.Fatalf("10.0 is a multiple of 5: %v", err)
	}
	// Remainder 1e-10 sits inside the default 1e-9 absolute tolerance.
	if _, err := gokata.Build(s, map[string]any{"x": 10.0000000001}); err != nil {
		t.Fatalf("within tolerance: %v", err)
	}
	_, err := gokata.Build(s, map[string]any{"x": 10.001})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeNotMultiple {
		t.Fatalf("outside tolerance: %v", iss)
	}

	tight := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("x", gokata.TypeFloat).MultipleOf(5),
	}, gokata.SchemaOpt{MultipleOfTolerance: 1e-12})
	if _, err := gokata.Build(tight, map[string]any{"x": 10.0000000001}); err == nil {
		t.Fatalf("tightened tolerance should reject")
	}
}

func TestStringTransformOrder(t *testing.T) {
	// strip then lower, and constraints see the transformed value.
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("code", gokata.TypeString).Strip().Lower().MinLen(3).Enum("abc"),
	})
	rec, err := gokata.Build(s, map[string]any{"code": "  ABC  "})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if v := rec.Get(0); v != "abc" {
		t.Fatalf("transformed = %v", v)
	}
	if _, err := gokata.Build(s, map[string]any{"code": "  A  "}); err == nil {
		t.Fatalf("min_length must apply to stripped value")
	}
}

func TestStringRules(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("sku", gokata.TypeString).Pattern(`^[A-Z]+-\d+$`).Prefix("SKU-").Contains("-"),
	})
	if _, err := gokata.Build(s, map[string]any{"sku": "SKU-42"}); err != nil {
		t.Fatalf("valid sku rejected: %v", err)
	}
	_, err := gokata.Build(s, map[string]any{"sku": "sku-42"})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodePattern {
		t.Fatalf("pattern should fail first: %v", iss)
	}
}

func TestFirstFailingRuleWinsPerField(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("n", gokata.TypeInt).GE(10).LE(5),
	})
	_, err := gokata.Build(s, map[string]any{"n": 7})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("one field yields one issue: %v", iss)
	}
	if iss[0].Rule != "ge" {
		t.Fatalf("ge checks before le: %+v", iss[0])
	}
}

func TestBytesField(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("blob", gokata.TypeBytes).MaxLen(4),
	})
	if _, err := gokata.Build(s, map[string]any{"blob": []byte("abcd")}); err != nil {
		t.Fatalf("bytes rejected: %v", err)
	}
	if _, err := gokata.Build(s, map[string]any{"blob": "abcd"}); err == nil {
		t.Fatalf("bytes require []byte, no coercion from string")
	}
	if _, err := gokata.Build(s, map[string]any{"blob": []byte("abcde")}); err == nil {
		t.Fatalf("max_length on byte count")
	}
}

func TestNestedRecord(t *testing.T) {
	addr := gokata.MustCompile("Addr", []*gokata.Field{
		gokata.F("city", gokata.TypeString).Required().MinLen(1),
	})
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("addr", gokata.TypeRecord).Required().Schemas(addr),
	})

	rec, err := gokata.Build(s, map[string]any{"addr": map[string]any{"city": "Oslo"}})
	if err != nil {
		t.Fatalf("nested build failed: %v", err)
	}
	inner := rec.Get(0).(*gokata.Record)
	if v, _ := inner.GetByName("city"); v != "Oslo" {
		t.Fatalf("city = %v", v)
	}

	// Pass-through of an already-validated record.
	if _, err := gokata.Build(s, map[string]any{"addr": inner}); err != nil {
		t.Fatalf("record pass-through failed: %v", err)
	}

	// Inner failures surface on the nested path.
	_, err = gokata.Build(s, map[string]any{"addr": map[string]any{}})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/addr/city" || iss[0].Code != gokata.CodeRequired {
		t.Fatalf("issues: %v", iss)
	}

	// Record of the wrong schema names the expected one.
	other := gokata.MustCompile("Other", []*gokata.Field{gokata.F("x", gokata.TypeInt)})
	wrong, _ := gokata.Build(other, map[string]any{"x": 1})
	_, err = gokata.Build(s, map[string]any{"addr": wrong})
	iss, _ = gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidType {
		t.Fatalf("issues: %v", iss)
	}
	if !strings.Contains(iss[0].Message, "Addr") {
		t.Fatalf("message should name the expected schema: %q", iss[0].Message)
	}
}

func TestListOfRecords(t *testing.T) {
	item := gokata.MustCompile("Item", []*gokata.Field{
		gokata.F("price", gokata.TypeFloat).Required().GT(0),
	})
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("items", gokata.TypeList).Required().Schemas(item).MinLen(1).MaxLen(3),
	})

	rec, err := gokata.Build(s, map[string]any{"items": []any{
		map[string]any{"price": 1.5},
		map[string]any{"price": 2.5},
	}})
	if err != nil {
		t.Fatalf("list build failed: %v", err)
	}
	if got := len(rec.Get(0).([]any)); got != 2 {
		t.Fatalf("elements: %d", got)
	}

	// Length bounds apply to the sequence itself.
	if _, err := gokata.Build(s, map[string]any{"items": []any{}}); err == nil {
		t.Fatalf("min_length on list")
	}

	// Per-element failures accumulate; later elements still validate.
	_, err = gokata.Build(s, map[string]any{"items": []any{
		map[string]any{"price": -1.0},
		map[string]any{"price": 2.0},
		map[string]any{},
	}})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 2 {
		t.Fatalf("expected 2 element issues, got %v", iss)
	}
	if iss[0].Path != "/items/0/price" || iss[1].Path != "/items/2/price" {
		t.Fatalf("paths: %v", iss)
	}
}

func TestUnionOfRecords(t *testing.T) {
	cat := gokata.MustCompile("Cat", []*gokata.Field{
		gokata.F("meow", gokata.TypeBool).Required(),
	})
	dog := gokata.MustCompile("Dog", []*gokata.Field{
		gokata.F("bark", gokata.TypeBool).Required(),
	})
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("pet", gokata.TypeUnion).Required().Schemas(cat, dog),
	})

	rec, err := gokata.Build(s, map[string]any{"pet": map[string]any{"bark": true}})
	if err != nil {
		t.Fatalf("union build failed: %v", err)
	}
	pet := rec.Get(0).(*gokata.Record)
	if pet.Schema().Name() != "Dog" {
		t.Fatalf("matched schema: %s", pet.Schema().Name())
	}

	// Declared order decides ambiguous matches; an existing record of any
	// accepted schema passes through.
	if _, err := gokata.Build(s, map[string]any{"pet": pet}); err != nil {
		t.Fatalf("record pass-through failed: %v", err)
	}

	_, err = gokata.Build(s, map[string]any{"pet": map[string]any{"quack": true}})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidType {
		t.Fatalf("issues: %v", iss)
	}
	if !strings.Contains(iss[0].Message, "Cat|Dog") {
		t.Fatalf("message should list accepted schemas: %q", iss[0].Message)
	}
}

func TestUnknownPolicies(t *testing.T) {
	in := map[string]any{"id": 1, "name": "Ann", "extra": 1}

	if _, err := gokata.Build(userSchema(t), in); err != nil {
		t.Fatalf("strip should ignore unknown keys: %v", err)
	}

	strict := userSchema(t, gokata.SchemaOpt{Unknown: gokata.UnknownStrict})
	_, err := gokata.Build(strict, in)
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/extra" || iss[0].Code != gokata.CodeUnknownKey {
		t.Fatalf("issues: %v", iss)
	}
	if iss[0].Message != "Extra inputs are not permitted" {
		t.Fatalf("message: %q", iss[0].Message)
	}

	pass := userSchema(t, gokata.SchemaOpt{Unknown: gokata.UnknownPassthrough})
	rec, err := gokata.Build(pass, in)
	if err != nil {
		t.Fatalf("passthrough build failed: %v", err)
	}
	if rec.Extra()["extra"] != 1 {
		t.Fatalf("extra container: %v", rec.Extra())
	}
}
