package h5features

import "testing"

func mustProperties(t *testing.T, m map[string]Value) Properties {
	t.Helper()
	p, err := NewProperties(m, true)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPropertiesBasics(t *testing.T) {
	p := mustProperties(t, map[string]Value{
		"flag":  BoolValue(true),
		"count": Int32Value(7),
		"ratio": Float64Value(0.5),
		"label": StringValue("hello"),
	})
	if p.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", p.Size())
	}
	if !p.Contains("flag") || p.Contains("missing") {
		t.Fatal("Contains is wrong")
	}
	names := p.Names()
	want := []string{"count", "flag", "label", "ratio"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestPropertiesSetDeleteAreCopyOnWrite(t *testing.T) {
	p := mustProperties(t, map[string]Value{"a": Int32Value(1)})
	p2, err := p.Set("b", Int32Value(2), true)
	if err != nil {
		t.Fatal(err)
	}
	if p.Contains("b") {
		t.Fatal("Set must not mutate the receiver")
	}
	if !p2.Contains("a") || !p2.Contains("b") {
		t.Fatal("Set result must contain both keys")
	}
	p3 := p2.Delete("a")
	if p2.Contains("a") == false {
		t.Fatal("sanity: p2 should still contain a")
	}
	if p3.Contains("a") {
		t.Fatal("Delete must not mutate the receiver, and must drop the key in the result")
	}
}

func TestPropertiesNestedEquality(t *testing.T) {
	inner := mustProperties(t, map[string]Value{"x": Float64Value(1.5)})
	a := mustProperties(t, map[string]Value{"nested": PropertiesValue(inner)})
	b := mustProperties(t, map[string]Value{"nested": PropertiesValue(inner)})
	if !a.Equal(b) {
		t.Fatal("structurally identical nested properties should be equal")
	}

	vec := []Properties{
		mustProperties(t, map[string]Value{"i": Int32Value(0)}),
		mustProperties(t, map[string]Value{"i": Int32Value(1)}),
	}
	c := mustProperties(t, map[string]Value{"items": PropertiesVectorValue(vec)})
	d := mustProperties(t, map[string]Value{"items": PropertiesVectorValue(vec)})
	if !c.Equal(d) {
		t.Fatal("structurally identical vectors of properties should be equal")
	}
	if a.Equal(c) {
		t.Fatal("differently-shaped properties must not be equal")
	}
}

func TestPropertiesValueKindIsolation(t *testing.T) {
	scalarVec := Int32VectorValue([]int32{1, 2, 3})
	if scalarVec.Kind() != KindInt32Vector {
		t.Fatalf("Kind() = %v, want KindInt32Vector", scalarVec.Kind())
	}
	empty, err := NewProperties(nil, true)
	if err != nil {
		t.Fatal(err)
	}
	propsVec := PropertiesVectorValue([]Properties{empty})
	if propsVec.Kind() != KindPropertiesVector {
		t.Fatalf("Kind() = %v, want KindPropertiesVector", propsVec.Kind())
	}
	if scalarVec.Equal(propsVec) {
		t.Fatal("a scalar vector and a vector of properties must never compare equal")
	}
}

func TestIsReservedKey(t *testing.T) {
	if !isReservedKey(vectorElementName("items", 3)) {
		t.Fatal("a sentinel-shaped name must be reserved")
	}
	if isReservedKey("items") {
		t.Fatal("a plain key must not be reserved")
	}
}

func TestPropertiesRejectsEmptyKey(t *testing.T) {
	if _, err := NewProperties(map[string]Value{"": Int32Value(1)}, true); err == nil || !Is(err, InvalidValue) {
		t.Fatalf("expected InvalidValue for an empty top-level key, got %v", err)
	}

	p := mustProperties(t, map[string]Value{"a": Int32Value(1)})
	if _, err := p.Set("", Int32Value(2), true); err == nil || !Is(err, InvalidValue) {
		t.Fatalf("expected InvalidValue from Set with an empty key, got %v", err)
	}
	if _, err := p.Set("", Int32Value(2), false); err != nil {
		t.Fatalf("Set with check=false must not validate, got %v", err)
	}

	inner, err := NewProperties(map[string]Value{"": Int32Value(1)}, false)
	if err != nil {
		t.Fatal(err)
	}
	nested, err := NewProperties(map[string]Value{"ok": PropertiesValue(inner)}, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := nested.Validate(); err == nil || !Is(err, InvalidValue) {
		t.Fatalf("expected InvalidValue for an empty key nested inside a KindProperties value, got %v", err)
	}

	vecNested, err := NewProperties(map[string]Value{"ok": PropertiesVectorValue([]Properties{inner})}, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := vecNested.Validate(); err == nil || !Is(err, InvalidValue) {
		t.Fatalf("expected InvalidValue for an empty key nested inside a KindPropertiesVector value, got %v", err)
	}
}
