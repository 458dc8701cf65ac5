/*
Copyright © 2026 the h5features authors.
This file is part of h5features.

h5features is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

h5features is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with h5features.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package h5testutil provides random value-model generators, a log-capture
// harness, and temporary-file fixtures shared by the h5features test suite.
package h5testutil

import (
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// TempFile returns the path to a not-yet-created file inside a directory
// that t.Cleanup removes at the end of the test, following the same
// create-then-defer-remove idiom as the rest of the h5features test suite.
func TempFile(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, name)
}

// Gen is a deterministic random generator for value-model fixtures. Two Gens
// built with the same seed produce identical sequences, so tests stay
// reproducible without hand-maintaining literal data.
type Gen struct {
	rnd *rand.Rand
}

// NewGen returns a Gen seeded with seed.
func NewGen(seed int64) *Gen {
	return &Gen{rnd: rand.New(rand.NewSource(seed))}
}

// Floats returns n random floats in [0, 1).
func (g *Gen) Floats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.rnd.Float64()
	}
	return out
}

// SortedFloats returns n random floats sorted in non-decreasing order,
// suitable as Simple-format times.
func (g *Gen) SortedFloats(n int) []float64 {
	out := make([]float64, n)
	t := 0.0
	for i := range out {
		t += g.rnd.Float64() + 0.01
		out[i] = t
	}
	return out
}

// Name returns a probably-unique item name built from prefix and a random
// number drawn from g.
func (g *Gen) Name(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, g.rnd.Int63())
}

// CapturingLogger is a logrus.FieldLogger that records every Warn-level
// message instead of writing to a stream, so tests can assert on warning
// text without relying on the global logger.
type CapturingLogger struct {
	*logrus.Logger
	mu       sync.Mutex
	warnings []string
}

// NewCapturingLogger returns a CapturingLogger with output discarded except
// into its in-memory buffer.
func NewCapturingLogger() *CapturingLogger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	c := &CapturingLogger{Logger: base}
	base.AddHook(c)
	return c
}

// Levels implements logrus.Hook: the hook only cares about warnings.
func (c *CapturingLogger) Levels() []logrus.Level {
	return []logrus.Level{logrus.WarnLevel}
}

// Fire implements logrus.Hook, appending the formatted message.
func (c *CapturingLogger) Fire(entry *logrus.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, entry.Message)
	return nil
}

// Warnings returns every warning message recorded so far.
func (c *CapturingLogger) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.warnings...)
}
