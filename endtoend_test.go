package h5features

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bootphon/h5features/h5testutil"
)

func buildScenarioItem(t *testing.T) Item {
	t.Helper()
	features, err := NewFeatures([]float64{0, 1, 2, 3, 4, 5, 2, 1, 0, 0, 0, 0}, 4, true)
	require.NoError(t, err)
	times, err := NewIntervalTimes([]float64{0, 0.2, 0.4}, []float64{0.3, 0.5, 0.7}, true)
	require.NoError(t, err)
	item, err := NewItem("a", features, times, Properties{}, true)
	require.NoError(t, err)
	return item
}

func TestRoundTripV2(t *testing.T) {
	path := h5testutil.TempFile(t, "roundtrip.h5")
	item := buildScenarioItem(t)

	w, err := NewWriter(path, "group", true, false, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadItem("a", false)
	require.NoError(t, err)
	require.True(t, got.Equal(item), "round-tripped item must equal the original")
}

func TestPartialReadInterval(t *testing.T) {
	path := h5testutil.TempFile(t, "partial.h5")
	item := buildScenarioItem(t)

	w, err := NewWriter(path, "group", true, false, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadItemInterval("a", 0, 0.6, false)
	require.NoError(t, err)
	require.Equal(t, 2, got.Size())
	require.Equal(t, []float64{0, 0.3, 0.2, 0.5}, got.Times().Data())
	require.Equal(t, []float64{0, 1, 2, 3, 4, 5, 2, 1}, got.Features().Data())
}

func TestPartialReadDegenerate(t *testing.T) {
	path := h5testutil.TempFile(t, "degenerate.h5")
	item := buildScenarioItem(t)

	w, err := NewWriter(path, "group", true, false, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadItemInterval("a", 1, 1, false)
	require.Error(t, err)
	require.True(t, Is(err, InvalidRange))

	_, err = r.ReadItemInterval("a", 1, 1.1, false)
	require.Error(t, err)
	require.True(t, Is(err, InvalidRange))
}

func TestV1AppendOrder(t *testing.T) {
	path := h5testutil.TempFile(t, "append.h5")

	gen := h5testutil.NewGen(1)
	f1, _ := NewFeatures(gen.Floats(10*5), 5, true)
	t1, _ := NewTimes(gen.SortedFloats(10), Simple, true)
	i1, err := NewItem("I1", f1, t1, Properties{}, true)
	require.NoError(t, err)

	f2, _ := NewFeatures(gen.Floats(7*5), 5, true)
	t2, _ := NewTimes(gen.SortedFloats(7), Simple, true)
	i2, err := NewItem("I2", f2, t2, Properties{}, true)
	require.NoError(t, err)

	w, err := NewWriter(path, "group", true, false, V1_2)
	require.NoError(t, err)
	require.NoError(t, w.Write(i1))
	require.NoError(t, w.Write(i2))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	items, err := r.Items()
	require.NoError(t, err)
	require.Equal(t, []string{"I1", "I2"}, items)

	got, err := r.ReadItem("I2", false)
	require.NoError(t, err)
	require.True(t, got.Equal(i2))
}

func TestDimensionMismatchV2(t *testing.T) {
	path := h5testutil.TempFile(t, "dimmismatch.h5")
	gen := h5testutil.NewGen(2)

	f4, _ := NewFeatures(gen.Floats(3*4), 4, true)
	t4, _ := NewTimes(gen.SortedFloats(3), Simple, true)
	item4, err := NewItem("dim4", f4, t4, Properties{}, true)
	require.NoError(t, err)

	w, err := NewWriter(path, "group", true, false, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item4))

	f5, _ := NewFeatures(gen.Floats(3*5), 5, true)
	t5, _ := NewTimes(gen.SortedFloats(3), Simple, true)
	item5, err := NewItem("dim5", f5, t5, Properties{}, true)
	require.NoError(t, err)

	err = w.Write(item5)
	require.Error(t, err)
	require.True(t, Is(err, InvariantViolation))
	require.Contains(t, err.Error(), "4")
	require.NoError(t, w.Close())
}

func TestVersionMismatchOnReopen(t *testing.T) {
	path := h5testutil.TempFile(t, "versionmismatch.h5")
	item := buildScenarioItem(t)

	w, err := NewWriter(path, "group", true, false, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	_, err = NewWriter(path, "group", false, false, V1_1)
	require.Error(t, err)
	require.True(t, Is(err, InvariantViolation))
}

// richProperties builds a Properties exercising every ValueKind: scalars,
// homogeneous vectors, a nested map, and a vector of maps.
func richProperties(t *testing.T) Properties {
	t.Helper()
	child, err := NewProperties(map[string]Value{"label": StringValue("child")}, true)
	require.NoError(t, err)
	props, err := NewProperties(map[string]Value{
		"flag":     BoolValue(true),
		"count":    Int32Value(42),
		"ratio":    Float64Value(3.5),
		"name":     StringValue("hello"),
		"ints":     Int32VectorValue([]int32{1, 2, 3}),
		"floats":   Float64VectorValue([]float64{1.5, 2.5}),
		"strings":  StringVectorValue([]string{"a", "b", "c"}),
		"nested":   PropertiesValue(child),
		"children": PropertiesVectorValue([]Properties{child, child}),
	}, true)
	require.NoError(t, err)
	return props
}

func TestPropertiesRoundTripV1_2(t *testing.T) {
	path := h5testutil.TempFile(t, "propsv12.h5")
	gen := h5testutil.NewGen(4)

	f, err := NewFeatures(gen.Floats(5*3), 3, true)
	require.NoError(t, err)
	tm, err := NewTimes(gen.SortedFloats(5), Simple, true)
	require.NoError(t, err)
	props := richProperties(t)
	item, err := NewItem("a", f, tm, props, true)
	require.NoError(t, err)

	w, err := NewWriter(path, "group", true, false, V1_2)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadItem("a", false)
	require.NoError(t, err)
	require.True(t, got.Features().Equal(f))
	require.True(t, got.Times().Equal(tm))
	require.True(t, got.Properties().Equal(props), "properties must round-trip through the v1.2 packed layout")

	ignored, err := r.ReadItem("a", true)
	require.NoError(t, err)
	require.False(t, ignored.HasProperties(), "ignoreProperties=true must not read the properties group back")
}

func TestPropertiesRoundTripV2_0(t *testing.T) {
	path := h5testutil.TempFile(t, "propsv20.h5")
	gen := h5testutil.NewGen(5)

	f, err := NewFeatures(gen.Floats(4*6), 6, true)
	require.NoError(t, err)
	starts := gen.SortedFloats(4)
	stops := make([]float64, len(starts))
	for i, s := range starts {
		stops[i] = s + 0.05
	}
	tm, err := NewIntervalTimes(starts, stops, true)
	require.NoError(t, err)
	props := richProperties(t)
	item, err := NewItem("b", f, tm, props, true)
	require.NoError(t, err)

	w, err := NewWriter(path, "group", true, true, V2_0)
	require.NoError(t, err)
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadItem("b", false)
	require.NoError(t, err)
	require.True(t, got.Features().Equal(f))
	require.True(t, got.Times().Equal(tm))
	require.True(t, got.Properties().Equal(props), "properties must round-trip through the v2.0 per-item layout")
}

func TestPropertiesInV1_1(t *testing.T) {
	path := h5testutil.TempFile(t, "propsv11.h5")
	gen := h5testutil.NewGen(3)

	f, _ := NewFeatures(gen.Floats(4*3), 3, true)
	tm, _ := NewTimes(gen.SortedFloats(4), Simple, true)
	props, err := NewProperties(map[string]Value{"speaker": StringValue("bob")}, true)
	require.NoError(t, err)
	item, err := NewItem("a", f, tm, props, true)
	require.NoError(t, err)

	logger := h5testutil.NewCapturingLogger()
	w, err := NewWriter(path, "group", true, false, V1_1)
	require.NoError(t, err)
	w.Logger = logger
	require.NoError(t, w.Write(item))
	require.NoError(t, w.Close())

	found := false
	for _, msg := range logger.Warnings() {
		if containsSubstring(msg, "ignoring properties while writing") {
			found = true
		}
	}
	require.True(t, found, "expected a warning about ignoring properties while writing")

	r, err := NewReader(path, "group")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadItem("a", false)
	require.NoError(t, err)
	require.True(t, got.Features().Equal(f))
	require.True(t, got.Times().Equal(tm))
	require.False(t, got.HasProperties())
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
