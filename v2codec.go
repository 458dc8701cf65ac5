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
	"github.com/bootphon/h5features/internal/h5c"
)

const (
	v2AttrDimFeatures = "dim_features"
	v2AttrDimTimes    = "dim_times"
	v2AttrDim         = "dim"
	v2AttrFormat      = "format"
	v2DatasetFeatures = "features"
	v2DatasetTimes    = "times"
	v2GroupProperties = "properties"
)

// v2Codec reads and writes the per-item-subgroup (v2.0) layout.
type v2Codec struct {
	group    *h5c.Group
	compress bool
}

func newV2Codec(group *h5c.Group, compress bool) *v2Codec {
	return &v2Codec{group: group, compress: compress}
}

func (c *v2Codec) items() ([]string, error) {
	names, err := c.group.ChildNames()
	if err != nil {
		return nil, NewIoError(err)
	}
	return names, nil
}

func (c *v2Codec) readItem(name string, ignoreProperties bool) (Item, error) {
	has, err := c.group.Has(name)
	if err != nil {
		return Item{}, NewIoError(err)
	}
	if !has {
		return Item{}, NewNotFound("item %q not found", name)
	}
	sub, err := c.group.OpenGroup(name)
	if err != nil {
		return Item{}, NewIoError(err)
	}

	features, err := c.readFeatures(sub)
	if err != nil {
		return Item{}, err
	}
	times, err := c.readTimes(sub)
	if err != nil {
		return Item{}, err
	}
	props, err := c.readOptionalProperties(sub, ignoreProperties)
	if err != nil {
		return Item{}, err
	}
	return NewItem(name, features, times, props, false)
}

func (c *v2Codec) readItemInterval(name string, t0, t1 float64, ignoreProperties bool) (Item, error) {
	has, err := c.group.Has(name)
	if err != nil {
		return Item{}, NewIoError(err)
	}
	if !has {
		return Item{}, NewNotFound("item %q not found", name)
	}
	sub, err := c.group.OpenGroup(name)
	if err != nil {
		return Item{}, NewIoError(err)
	}

	fullTimes, err := c.readTimes(sub)
	if err != nil {
		return Item{}, err
	}
	i, j, err := fullTimes.GetIndices(t0, t1)
	if err != nil {
		return Item{}, err
	}

	featuresDS, err := sub.OpenDataset(v2DatasetFeatures)
	if err != nil {
		return Item{}, NewIoError(err)
	}
	dim, err := readDimAttribute(featuresDS)
	if err != nil {
		return Item{}, err
	}
	dims, err := featuresDS.Dims()
	if err != nil {
		return Item{}, NewIoError(err)
	}
	featuresLen := int(dims[0])
	if i >= j || j*dim > featuresLen {
		return Item{}, NewInvariantViolation("time window (%g, %g) is out of range for item %q", t0, t1, name)
	}

	raw, err := featuresDS.ReadHyperslab([]uint{uint(i * dim)}, []uint{uint((j - i) * dim)})
	if err != nil {
		return Item{}, NewIoError(err)
	}
	data, ok := raw.([]float64)
	if !ok {
		return Item{}, NewCorruptData("features dataset of item %q has an unsupported storage type %T", name, raw)
	}
	features, err := NewFeatures(data, dim, false)
	if err != nil {
		return Item{}, err
	}

	times, err := fullTimes.Select(i, j)
	if err != nil {
		return Item{}, err
	}

	props, err := c.readOptionalProperties(sub, ignoreProperties)
	if err != nil {
		return Item{}, err
	}
	return NewItem(name, features, times, props, false)
}

func (c *v2Codec) readFeatures(sub *h5c.Group) (Features, error) {
	ds, err := sub.OpenDataset(v2DatasetFeatures)
	if err != nil {
		return Features{}, NewIoError(err)
	}
	dim, err := readDimAttribute(ds)
	if err != nil {
		return Features{}, err
	}
	raw, err := ds.ReadAll()
	if err != nil {
		return Features{}, NewIoError(err)
	}
	data, ok := raw.([]float64)
	if !ok {
		return Features{}, NewCorruptData("features dataset has an unsupported storage type %T", raw)
	}
	return NewFeatures(data, dim, false)
}

func readDimAttribute(ds *h5c.Dataset) (int, error) {
	raw, ok, err := ds.Attribute(v2AttrDim)
	if err != nil {
		return 0, NewIoError(err)
	}
	if !ok {
		return 0, NewCorruptData("missing %q attribute on features dataset", v2AttrDim)
	}
	switch v := raw.(type) {
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case uint:
		return int(v), nil
	default:
		return 0, NewCorruptData("dim attribute has an unsupported storage type %T", raw)
	}
}

func (c *v2Codec) readTimes(sub *h5c.Group) (Times, error) {
	ds, err := sub.OpenDataset(v2DatasetTimes)
	if err != nil {
		return Times{}, NewIoError(err)
	}
	raw, ok, err := ds.Attribute(v2AttrFormat)
	if err != nil {
		return Times{}, NewIoError(err)
	}
	if !ok {
		return Times{}, NewCorruptData("missing %q attribute on times dataset", v2AttrFormat)
	}
	formatStr, ok := raw.(string)
	if !ok {
		return Times{}, NewCorruptData("format attribute has an unsupported storage type %T", raw)
	}
	format, err := timesFormatFromString(formatStr)
	if err != nil {
		return Times{}, err
	}
	rawData, err := ds.ReadAll()
	if err != nil {
		return Times{}, NewIoError(err)
	}
	data, ok := rawData.([]float64)
	if !ok {
		return Times{}, NewCorruptData("times dataset has an unsupported storage type %T", rawData)
	}
	return NewTimes(data, format, false)
}

func (c *v2Codec) readOptionalProperties(sub *h5c.Group, ignoreProperties bool) (Properties, error) {
	if ignoreProperties {
		return Properties{}, nil
	}
	has, err := sub.Has(v2GroupProperties)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	if !has {
		return Properties{}, nil
	}
	propsGroup, err := sub.OpenGroup(v2GroupProperties)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	return readProperties(propsGroup)
}

func (c *v2Codec) write(item Item) error {
	has, err := c.group.Has(item.Name())
	if err != nil {
		return NewIoError(err)
	}
	if has {
		return NewDuplicate("item %q already exists", item.Name())
	}

	if err := c.checkOrSetDim(v2AttrDimFeatures, item.Features().Dim()); err != nil {
		return err
	}
	if err := c.checkOrSetDim(v2AttrDimTimes, item.Times().Dim()); err != nil {
		return err
	}

	sub, err := c.group.CreateGroup(item.Name())
	if err != nil {
		return NewIoError(err)
	}
	if err := c.writeFeatures(sub, item.Features()); err != nil {
		return err
	}
	if err := c.writeTimes(sub, item.Times()); err != nil {
		return err
	}
	if item.HasProperties() {
		propsGroup, err := sub.CreateGroup(v2GroupProperties)
		if err != nil {
			return NewIoError(err)
		}
		if err := writeProperties(propsGroup, item.Properties(), c.compress); err != nil {
			return err
		}
	}
	return nil
}

func (c *v2Codec) checkOrSetDim(attr string, dim int) error {
	raw, ok, err := c.group.Attribute(attr)
	if err != nil {
		return NewIoError(err)
	}
	if !ok {
		if err := c.group.SetAttribute(attr, uint(dim)); err != nil {
			return NewIoError(err)
		}
		return nil
	}
	existing, ok := toInt(raw)
	if !ok {
		return NewCorruptData("%s attribute has an unsupported storage type %T", attr, raw)
	}
	if existing != dim {
		return NewInvariantViolation("dimension mismatch: group %s is %d, item is %d", attr, existing, dim)
	}
	return nil
}

func toInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case uint:
		return int(v), true
	case int32:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func (c *v2Codec) writeFeatures(sub *h5c.Group, features Features) error {
	dim := features.Dim()
	length := len(features.Data())
	shape := h5c.Shape{Dtype: h5c.Float64, Dims: []uint{uint(length)}}
	if c.compress {
		shape.Chunk = []uint{uint(dim * minInt(features.Size(), 128))}
		shape.Deflate = 9
	}
	ds, err := sub.CreateDataset(v2DatasetFeatures, shape)
	if err != nil {
		return NewIoError(err)
	}
	if err := ds.WriteHyperslab([]uint{0}, features.Data()); err != nil {
		return NewIoError(err)
	}
	if err := ds.SetAttribute(v2AttrDim, int32(dim)); err != nil {
		return NewIoError(err)
	}
	return nil
}

func (c *v2Codec) writeTimes(sub *h5c.Group, times Times) error {
	length := len(times.Data())
	shape := h5c.Shape{Dtype: h5c.Float64, Dims: []uint{uint(length)}}
	if c.compress {
		shape.Chunk = []uint{uint(minInt(length, 32768))}
		shape.Deflate = 9
	}
	ds, err := sub.CreateDataset(v2DatasetTimes, shape)
	if err != nil {
		return NewIoError(err)
	}
	if err := ds.WriteHyperslab([]uint{0}, times.Data()); err != nil {
		return NewIoError(err)
	}
	if err := ds.SetAttribute(v2AttrFormat, timesFormatString(times.Format())); err != nil {
		return NewIoError(err)
	}
	return nil
}

func timesFormatString(f TimesFormat) string {
	if f == Simple {
		return "simple"
	}
	return "interval"
}

func timesFormatFromString(s string) (TimesFormat, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "interval":
		return Interval, nil
	default:
		return 0, NewCorruptData("invalid times format %q", s)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
