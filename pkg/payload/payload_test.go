package payload

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClone_IsDeep(t *testing.T) {
	src := Payload{
		"client": map[string]any{"name": "Ana"},
		"rows":   []any{[]any{"a", "b"}},
	}
	dup := src.Clone()
	dup.Set("client.name", "Bia")
	dup["rows"].([]any)[0].([]any)[0] = "z"

	if got, _ := src.Get("client.name"); got != "Ana" {
		t.Fatalf("source mutated through clone: %v", got)
	}
	if got := src["rows"].([]any)[0].([]any)[0]; got != "a" {
		t.Fatalf("source rows mutated through clone: %v", got)
	}
}

func TestMerge_OverlayWinsAndNestedMerges(t *testing.T) {
	base := Payload{"name": "Ana", "client": Payload{"cpf": "1", "rg": "2"}}
	overlay := Payload{"name": "Bia", "client": map[string]any{"rg": "9"}}

	got := Merge(base, overlay)
	want := Payload{"name": "Bia", "client": Payload{"cpf": "1", "rg": "9"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["name"] != "Ana" {
		t.Fatalf("base mutated by merge")
	}
}

func TestSetGetDelete(t *testing.T) {
	p := Payload{}
	p.Set("document.day", "05")
	p.Set("document.month", "03")
	if v, ok := p.Get("document.day"); !ok || v != "05" {
		t.Fatalf("get document.day = %v, %v", v, ok)
	}
	p.Delete("document.day")
	if _, ok := p.Get("document.day"); ok {
		t.Fatalf("expected document.day removed")
	}
	p.Delete("missing.path")
	if _, ok := p.Get("document.month.deeper"); ok {
		t.Fatalf("lookup through a scalar must fail")
	}
}

func TestStringAndTruthy(t *testing.T) {
	cases := []struct {
		in     any
		str    string
		truthy bool
	}{
		{nil, "", false},
		{"", "", false},
		{"x", "x", true},
		{float64(12), "12", true},
		{float64(0), "0", false},
		{true, "true", true},
		{Payload{}, "", true},
	}
	for _, tc := range cases {
		if got := String(tc.in); got != tc.str {
			t.Errorf("String(%#v) = %q, want %q", tc.in, got, tc.str)
		}
		if got := Truthy(tc.in); got != tc.truthy {
			t.Errorf("Truthy(%#v) = %v, want %v", tc.in, got, tc.truthy)
		}
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode([]byte(`{"a":{"b":[1,"x"]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Payload{"a": Payload{"b": []any{float64(1), "x"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
	if _, err := Decode([]byte(`[1]`)); err == nil {
		t.Fatalf("expected error for non-object json")
	}
}
