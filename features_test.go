package h5features

import "testing"

func TestFeaturesValidate(t *testing.T) {
	cases := []struct {
		name    string
		data    []float64
		dim     int
		wantErr bool
	}{
		{"ok", []float64{1, 2, 3, 4}, 2, false},
		{"zero dim", []float64{1, 2}, 0, true},
		{"empty", nil, 2, true},
		{"not multiple", []float64{1, 2, 3}, 2, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewFeatures(c.data, c.dim, true)
			if (err != nil) != c.wantErr {
				t.Fatalf("NewFeatures(%v, %d) error = %v, wantErr %v", c.data, c.dim, err, c.wantErr)
			}
			if err != nil && !Is(err, InvalidValue) {
				t.Fatalf("expected InvalidValue category, got %v", err)
			}
		})
	}
}

func TestFeaturesSizeAndSelect(t *testing.T) {
	f, err := NewFeatures([]float64{0, 1, 2, 3, 4, 5}, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.Size(), 3; got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}
	sub := f.Select(1, 3)
	want := []float64{2, 3, 4, 5}
	if !f.Equal(f) {
		t.Fatal("Equal should be reflexive")
	}
	other, _ := NewFeatures(want, 2, true)
	if !sub.Equal(other) {
		t.Fatalf("Select(1,3) = %v, want %v", sub.Data(), want)
	}
}
