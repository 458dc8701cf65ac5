package h5features

import "testing"

func mustItem(t *testing.T, name string, featData []float64, dim int, timeData []float64) Item {
	t.Helper()
	f, err := NewFeatures(featData, dim, true)
	if err != nil {
		t.Fatal(err)
	}
	tm, err := NewTimes(timeData, Simple, true)
	if err != nil {
		t.Fatal(err)
	}
	it, err := NewItem(name, f, tm, Properties{}, true)
	if err != nil {
		t.Fatal(err)
	}
	return it
}

func TestItemValidate(t *testing.T) {
	it := mustItem(t, "a", []float64{1, 2, 3, 4}, 2, []float64{0, 1})
	if it.Size() != 2 || it.Dim() != 2 {
		t.Fatalf("Size()/Dim() = %d/%d, want 2/2", it.Size(), it.Dim())
	}

	f, _ := NewFeatures([]float64{1, 2, 3, 4, 5, 6}, 2, true)
	tm, _ := NewTimes([]float64{0, 1}, Simple, true)
	if _, err := NewItem("b", f, tm, Properties{}, true); err == nil || !Is(err, InvalidValue) {
		t.Fatalf("expected InvalidValue for mismatched sizes, got %v", err)
	}

	if _, err := NewItem("", it.Features(), it.Times(), Properties{}, true); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestItemEqualAndHasProperties(t *testing.T) {
	a := mustItem(t, "a", []float64{1, 2, 3, 4}, 2, []float64{0, 1})
	b := mustItem(t, "a", []float64{1, 2, 3, 4}, 2, []float64{0, 1})
	if !a.Equal(b) {
		t.Fatal("structurally identical items should be equal")
	}
	if a.HasProperties() {
		t.Fatal("item built with empty Properties should report HasProperties() == false")
	}

	props, err := NewProperties(map[string]Value{"k": Int32Value(1)}, true)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := NewFeatures([]float64{1, 2, 3, 4}, 2, true)
	tm, _ := NewTimes([]float64{0, 1}, Simple, true)
	c, err := NewItem("a", f, tm, props, true)
	if err != nil {
		t.Fatal(err)
	}
	if !c.HasProperties() {
		t.Fatal("item built with non-empty Properties should report HasProperties() == true")
	}
	if a.Equal(c) {
		t.Fatal("items differing only in properties must not compare equal")
	}
}
