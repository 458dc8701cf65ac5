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

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// TimesFormat distinguishes the two on-disk timestamp layouts.
type TimesFormat int

const (
	// Simple holds one center timestamp per frame.
	Simple TimesFormat = iota + 1
	// Interval holds an interleaved (start, stop) pair per frame.
	Interval
)

// GetTimesFormat maps a stored dimension (1 or 2) to its TimesFormat.
func GetTimesFormat(dim int) (TimesFormat, error) {
	switch dim {
	case 1:
		return Simple, nil
	case 2:
		return Interval, nil
	default:
		return 0, NewInvalidValue("invalid times dimension %d", dim)
	}
}

// Times is a per-frame timestamp vector, either one scalar per frame
// (Simple) or an interleaved [start, stop] pair per frame (Interval).
type Times struct {
	data   []float64
	format TimesFormat
}

// NewTimes builds a Times from data and format. When check is true the
// result is validated. When check is false the instance may be transiently
// invalid, for use by readers trusting the on-disk layout.
func NewTimes(data []float64, format TimesFormat, check bool) (Times, error) {
	t := Times{data: data, format: format}
	if check {
		if err := t.Validate(); err != nil {
			return Times{}, err
		}
	}
	return t, nil
}

// NewIntervalTimes builds an Interval Times by interleaving start and stop,
// i.e. data[2i] = start[i] and data[2i+1] = stop[i]. It fails when start and
// stop differ in length.
func NewIntervalTimes(start, stop []float64, check bool) (Times, error) {
	if len(start) != len(stop) {
		return Times{}, NewInvalidValue("tstart and tstop must have the same size")
	}
	data := make([]float64, 0, 2*len(start))
	for i := range start {
		data = append(data, start[i], stop[i])
	}
	return NewTimes(data, Interval, check)
}

// Format returns the on-disk layout of t.
func (t Times) Format() TimesFormat { return t.format }

// Dim returns 1 for Simple, 2 for Interval.
func (t Times) Dim() int {
	if t.format == Simple {
		return 1
	}
	return 2
}

// Size returns the number of stored frames.
func (t Times) Size() int {
	if t.format == Simple {
		return len(t.data)
	}
	return len(t.data) / 2
}

// Data returns the flat backing slice (interleaved for Interval). Callers
// must not mutate the returned slice.
func (t Times) Data() []float64 { return t.data }

// Equal reports whether t and other hold the same format and data.
func (t Times) Equal(other Times) bool {
	if t.format != other.format || len(t.data) != len(other.data) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Start returns the first stored scalar.
func (t Times) Start() (float64, error) {
	if len(t.data) == 0 {
		return 0, NewInvalidValue("times is empty")
	}
	return t.data[0], nil
}

// Stop returns the last stored scalar.
func (t Times) Stop() (float64, error) {
	if len(t.data) == 0 {
		return 0, NewInvalidValue("times is empty")
	}
	return t.data[len(t.data)-1], nil
}

// starts returns the even-indexed (start) sub-sequence for Interval data, or
// the data itself for Simple.
func (t Times) starts() stridedView {
	if t.format == Simple {
		return stridedView{data: t.data, stride: 1}
	}
	return stridedView{data: t.data, stride: 2}
}

// stops returns the odd-indexed (stop) sub-sequence for Interval data, or
// the data itself for Simple.
func (t Times) stops() stridedView {
	if t.format == Simple {
		return stridedView{data: t.data, stride: 1}
	}
	return stridedView{data: t.data[1:], stride: 2}
}

// stridedView is a thin, allocation-free random-access view over every
// stride'th element of data, used to run binary searches over the
// interleaved [start, stop, start, stop, ...] times layout without copying.
type stridedView struct {
	data   []float64
	stride int
}

func (v stridedView) len() int { return (len(v.data) + v.stride - 1) / v.stride }

func (v stridedView) at(i int) float64 { return v.data[i*v.stride] }

// lowerBound returns the index of the first element >= x.
func (v stridedView) lowerBound(x float64) int {
	return sort.Search(v.len(), func(i int) bool { return v.at(i) >= x })
}

// upperBound returns the index of the first element > x.
func (v stridedView) upperBound(x float64) int {
	return sort.Search(v.len(), func(i int) bool { return v.at(i) > x })
}

func (v stridedView) isSorted() bool {
	if v.stride == 1 {
		return floats.IsSorted(v.data)
	}
	prev := v.at(0)
	for i := 1; i < v.len(); i++ {
		cur := v.at(i)
		if cur < prev {
			return false
		}
		prev = cur
	}
	return true
}

// Validate returns an *Error of category InvalidValue when the data is
// empty, not sorted, or (for Interval) has odd length or any start > stop.
func (t Times) Validate() error {
	if len(t.data) == 0 {
		return NewInvalidValue("timestamps must be non-empty")
	}
	switch t.format {
	case Simple:
		if !floats.IsSorted(t.data) {
			return NewInvalidValue("timestamps must be sorted in increasing order")
		}
	case Interval:
		if len(t.data)%2 != 0 {
			return NewInvalidValue("timestamps must have an even size (as [start, stop] pairs)")
		}
		if !t.starts().isSorted() || !t.stops().isSorted() {
			return NewInvalidValue("timestamps must be sorted in increasing order")
		}
		for i := 0; i < len(t.data); i += 2 {
			if t.data[i] > t.data[i+1] {
				return NewInvalidValue("tstart must be lower or equal to tstop for all timestamps")
			}
		}
	default:
		return NewInvalidValue("invalid times format %d", t.format)
	}
	return nil
}

// GetIndices returns [i, j) such that frames whose center (Simple) or start
// (Interval) lies in [t0, +inf) and whose center/stop lies in (-inf, t1]
// are included: i is a lower bound over starts/centers at t0, j an upper
// bound over stops/centers at t1. It fails with InvalidRange when t0 >= t1
// or when the resulting window would be empty.
func (t Times) GetIndices(t0, t1 float64) (int, int, error) {
	if t0 >= t1 {
		return 0, 0, NewInvalidRange("start must be lower than stop")
	}
	i := t.starts().lowerBound(t0)
	j := t.stops().upperBound(t1)
	if i >= j {
		return 0, 0, NewInvalidRange("no valid indices for time interval (%g, %g)", t0, t1)
	}
	return i, j, nil
}

// Select returns the sub-vector of frames [start, stop), without validation.
// It fails with InvalidValue when start >= stop or stop > Size().
func (t Times) Select(start, stop int) (Times, error) {
	if start >= stop {
		return Times{}, NewInvalidValue("start index must be lower than stop index")
	}
	if stop > t.Size() {
		return Times{}, NewInvalidValue("stop index must be lower or equal to size")
	}
	if t.format == Simple {
		return Times{data: t.data[start:stop], format: Simple}, nil
	}
	return Times{data: t.data[start*2 : stop*2], format: Interval}, nil
}
