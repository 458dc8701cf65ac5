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

package h5features

// Features is an ordered sequence of Size frames, each a vector of Dim
// double-precision floats, stored linearly: element (i, j) lives at
// Data[i*dim+j].
type Features struct {
	data []float64
	dim  int
}

// NewFeatures builds a Features from data and dim. When check is true, the
// result is validated and an *Error of category InvalidValue is returned on
// failure. When check is false the instance may be transiently invalid; this
// is used internally by readers that trust the on-disk layout.
func NewFeatures(data []float64, dim int, check bool) (Features, error) {
	f := Features{data: data, dim: dim}
	if check {
		if err := f.Validate(); err != nil {
			return Features{}, err
		}
	}
	return f, nil
}

// Dim returns the width of a single feature frame.
func (f Features) Dim() int { return f.dim }

// Size returns the number of stored frames.
func (f Features) Size() int {
	if f.dim == 0 {
		return len(f.data)
	}
	return len(f.data) / f.dim
}

// Data returns the flat, row-major backing slice. Callers must not mutate
// the returned slice.
func (f Features) Data() []float64 { return f.data }

// Equal reports whether f and other hold the same dimension and data.
func (f Features) Equal(other Features) bool {
	if f.dim != other.dim || len(f.data) != len(other.data) {
		return false
	}
	for i := range f.data {
		if f.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Validate returns an *Error of category InvalidValue when dim is zero, the
// data is empty, or its length is not a multiple of dim.
func (f Features) Validate() error {
	if f.dim == 0 {
		return NewInvalidValue("features dimension must be greater than zero")
	}
	if len(f.data) == 0 {
		return NewInvalidValue("features must have a non-zero size")
	}
	if len(f.data)%f.dim != 0 {
		return NewInvalidValue("features size must be a multiple of dim")
	}
	return nil
}

// Select returns the sub-range of frames [start, stop), without validation.
func (f Features) Select(start, stop int) Features {
	return Features{data: f.data[start*f.dim : stop*f.dim], dim: f.dim}
}
