package h5features

import "testing"

func TestVersionString(t *testing.T) {
	cases := map[Version]string{
		V1_0: "1.0",
		V1_1: "1.1",
		V1_2: "1.2",
		V2_0: "2.0",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", v, got, want)
		}
	}
	if got := Version(99).String(); got != "invalid" {
		t.Fatalf("Version(99).String() = %q, want %q", got, "invalid")
	}
}

func TestVersionIsPacked(t *testing.T) {
	for _, v := range []Version{V1_0, V1_1, V1_2} {
		if !v.isPacked() {
			t.Fatalf("%v should be packed", v)
		}
	}
	if V2_0.isPacked() {
		t.Fatal("2.0 should not be packed")
	}
}
