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
	v1AttrFormat      = "format"
	v1FormatDense     = "dense"
	v1DatasetFeatures = "features"
	v1GroupProperties = "properties"
)

func v1NamesDataset(v Version) string {
	if v == V1_0 {
		return "files"
	}
	return "items"
}

func v1IndexDataset(v Version) string {
	if v == V1_0 {
		return "file_index"
	}
	return "index"
}

func v1TimesDataset(v Version) string {
	if v == V1_0 {
		return "times"
	}
	return "labels"
}

// v1Codec reads and, for v1.1/v1.2, appends to the packed (items + index +
// features + labels) layout shared by the three v1 sub-versions.
type v1Codec struct {
	group    *h5c.Group
	version  Version
	compress bool
	// warnf emits a non-fatal warning. It is a closure over the owning
	// Reader/Writer's Logger field, rather than a captured logger value, so
	// that assigning Logger after construction (the teacher's CacheSize
	// idiom) still takes effect.
	warnf func(format string, args ...interface{})

	names      []string
	nameSet    map[string]bool
	dimFeat    int
	dimTimes   int
	lastIndex  int64
	haveSchema bool
}

func newV1Codec(group *h5c.Group, version Version, compress bool, warnf func(string, ...interface{})) (*v1Codec, error) {
	c := &v1Codec{
		group:     group,
		version:   version,
		compress:  compress,
		warnf:     warnf,
		lastIndex: -1,
	}
	n, err := group.NumChildren()
	if err != nil {
		return nil, NewIoError(err)
	}
	if n == 0 {
		c.nameSet = make(map[string]bool)
		return c, nil
	}
	if err := c.loadSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *v1Codec) loadSchema() error {
	names, err := c.readNames()
	if err != nil {
		return err
	}
	c.names = names
	c.nameSet = make(map[string]bool, len(names))
	for _, n := range names {
		c.nameSet[n] = true
	}

	featuresDS, err := c.group.OpenDataset(v1DatasetFeatures)
	if err != nil {
		return NewIoError(err)
	}
	fdims, err := featuresDS.Dims()
	if err != nil {
		return NewIoError(err)
	}
	if len(fdims) != 2 {
		return NewCorruptData("features dataset must be 2-D")
	}
	c.dimFeat = int(fdims[1])

	timesDS, err := c.group.OpenDataset(v1TimesDataset(c.version))
	if err != nil {
		return NewIoError(err)
	}
	tdims, err := timesDS.Dims()
	if err != nil {
		return NewIoError(err)
	}
	if len(tdims) != 2 {
		return NewCorruptData("labels dataset must be 2-D")
	}
	c.dimTimes = int(tdims[1])

	index, err := c.readIndex()
	if err != nil {
		return err
	}
	if len(index) > 0 {
		c.lastIndex = index[len(index)-1]
	}
	c.haveSchema = true
	return nil
}

func (c *v1Codec) readNames() ([]string, error) {
	ds, err := c.group.OpenDataset(v1NamesDataset(c.version))
	if err != nil {
		return nil, NewIoError(err)
	}
	raw, err := ds.ReadAll()
	if err != nil {
		return nil, NewIoError(err)
	}
	names, ok := raw.([]string)
	if !ok {
		return nil, NewCorruptData("items dataset has an unsupported storage type %T", raw)
	}
	return names, nil
}

func (c *v1Codec) readIndex() ([]int64, error) {
	ds, err := c.group.OpenDataset(v1IndexDataset(c.version))
	if err != nil {
		return nil, NewIoError(err)
	}
	raw, err := ds.ReadAll()
	if err != nil {
		return nil, NewIoError(err)
	}
	index, ok := raw.([]int64)
	if !ok {
		return nil, NewCorruptData("index dataset has an unsupported storage type %T", raw)
	}
	return index, nil
}

func (c *v1Codec) items() ([]string, error) {
	if c.names == nil {
		names, err := c.readNames()
		if err != nil {
			return nil, err
		}
		c.names = names
	}
	return c.names, nil
}

// frameRange returns the [start, stop) frame range of the item at position
// idx, given the full index array.
func frameRange(index []int64, idx int) (int, int) {
	if idx == 0 {
		return 0, int(index[0]) + 1
	}
	return int(index[idx-1]) + 1, int(index[idx]) + 1
}

func (c *v1Codec) locate(name string) (int, []int64, error) {
	names, err := c.items()
	if err != nil {
		return 0, nil, err
	}
	idx := -1
	for i, n := range names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, nil, NewNotFound("item %q not found", name)
	}
	index, err := c.readIndex()
	if err != nil {
		return 0, nil, err
	}
	return idx, index, nil
}

func (c *v1Codec) readItem(name string, ignoreProperties bool) (Item, error) {
	idx, index, err := c.locate(name)
	if err != nil {
		return Item{}, err
	}
	start, stop := frameRange(index, idx)
	return c.readFrames(name, start, stop, ignoreProperties)
}

func (c *v1Codec) readItemInterval(name string, t0, t1 float64, ignoreProperties bool) (Item, error) {
	idx, index, err := c.locate(name)
	if err != nil {
		return Item{}, err
	}
	start, stop := frameRange(index, idx)
	fullTimes, err := c.readTimesRange(start, stop)
	if err != nil {
		return Item{}, err
	}
	i, j, err := fullTimes.GetIndices(t0, t1)
	if err != nil {
		return Item{}, err
	}
	item, err := c.readFrames(name, start+i, start+j, ignoreProperties)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func (c *v1Codec) readFrames(name string, start, stop int, ignoreProperties bool) (Item, error) {
	featuresDS, err := c.group.OpenDataset(v1DatasetFeatures)
	if err != nil {
		return Item{}, NewIoError(err)
	}
	rawF, err := featuresDS.ReadHyperslab([]uint{uint(start), 0}, []uint{uint(stop - start), uint(c.dimFeat)})
	if err != nil {
		return Item{}, NewIoError(err)
	}
	dataF, ok := rawF.([]float64)
	if !ok {
		return Item{}, NewCorruptData("features dataset has an unsupported storage type %T", rawF)
	}
	features, err := NewFeatures(dataF, c.dimFeat, false)
	if err != nil {
		return Item{}, err
	}

	times, err := c.readTimesRange(start, stop)
	if err != nil {
		return Item{}, err
	}

	props, err := c.readItemProperties(name, ignoreProperties)
	if err != nil {
		return Item{}, err
	}

	return NewItem(name, features, times, props, false)
}

func (c *v1Codec) readTimesRange(start, stop int) (Times, error) {
	timesDS, err := c.group.OpenDataset(v1TimesDataset(c.version))
	if err != nil {
		return Times{}, NewIoError(err)
	}
	raw, err := timesDS.ReadHyperslab([]uint{uint(start), 0}, []uint{uint(stop - start), uint(c.dimTimes)})
	if err != nil {
		return Times{}, NewIoError(err)
	}
	data, ok := raw.([]float64)
	if !ok {
		return Times{}, NewCorruptData("labels dataset has an unsupported storage type %T", raw)
	}
	format, err := GetTimesFormat(c.dimTimes)
	if err != nil {
		return Times{}, err
	}
	return NewTimes(data, format, false)
}

func (c *v1Codec) readItemProperties(name string, ignoreProperties bool) (Properties, error) {
	hasPropsGroup, err := c.group.Has(v1GroupProperties)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	if !hasPropsGroup {
		return Properties{}, nil
	}
	if c.version != V1_2 {
		c.warnf("ignoring properties while reading item %q: properties require version 1.2", name)
		return Properties{}, nil
	}
	if ignoreProperties {
		return Properties{}, nil
	}
	propsGroup, err := c.group.OpenGroup(v1GroupProperties)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	has, err := propsGroup.Has(name)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	if !has {
		return Properties{}, nil
	}
	itemProps, err := propsGroup.OpenGroup(name)
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	return readProperties(itemProps)
}

// write appends item to the group, lazily initializing the on-disk schema
// on the first call.
func (c *v1Codec) write(item Item) error {
	n, err := c.group.NumChildren()
	if err != nil {
		return NewIoError(err)
	}
	if n == 0 && !c.haveSchema {
		if err := c.initSchema(item); err != nil {
			return err
		}
	} else if err := c.checkAppendable(item); err != nil {
		return err
	}

	if c.version != V1_2 && item.HasProperties() {
		c.warnf("ignoring properties while writing item %q: properties require version 1.2", item.Name())
	}

	if err := c.appendFrames(item); err != nil {
		return err
	}
	if c.version == V1_2 && item.HasProperties() {
		if err := c.appendProperties(item); err != nil {
			return err
		}
	}
	c.names = append(c.names, item.Name())
	c.nameSet[item.Name()] = true
	return nil
}

func (c *v1Codec) initSchema(item Item) error {
	if err := c.group.SetAttribute(v1AttrFormat, v1FormatDense); err != nil {
		return NewIoError(err)
	}

	dimFeat := item.Features().Dim()
	dimTimes := item.Times().Dim()

	chunkDeflate := uint(0)
	if c.compress {
		chunkDeflate = 9
	}

	if _, err := c.group.CreateDataset(v1IndexDataset(c.version), h5c.Shape{
		Dtype: h5c.Int64, Dims: []uint{0}, MaxDims: []uint{h5c.Unlimited}, Chunk: []uint{10}, Deflate: chunkDeflate,
	}); err != nil {
		return NewIoError(err)
	}
	if _, err := c.group.CreateDataset(v1NamesDataset(c.version), h5c.Shape{
		Dtype: h5c.String, Dims: []uint{0}, MaxDims: []uint{h5c.Unlimited}, Chunk: []uint{10},
	}); err != nil {
		return NewIoError(err)
	}
	featuresShape := h5c.Shape{
		Dtype: h5c.Float64, Dims: []uint{0, uint(dimFeat)}, MaxDims: []uint{h5c.Unlimited, uint(dimFeat)},
		Chunk: []uint{128, uint(dimFeat)},
	}
	if c.compress {
		featuresShape.Deflate = 9
	}
	if _, err := c.group.CreateDataset(v1DatasetFeatures, featuresShape); err != nil {
		return NewIoError(err)
	}
	timesShape := h5c.Shape{
		Dtype: h5c.Float64, Dims: []uint{0, uint(dimTimes)}, MaxDims: []uint{h5c.Unlimited, uint(dimTimes)},
		Chunk: []uint{128, uint(dimTimes)},
	}
	if c.compress {
		timesShape.Deflate = 9
	}
	if _, err := c.group.CreateDataset(v1TimesDataset(c.version), timesShape); err != nil {
		return NewIoError(err)
	}

	c.dimFeat = dimFeat
	c.dimTimes = dimTimes
	c.names = nil
	c.nameSet = make(map[string]bool)
	c.lastIndex = -1
	c.haveSchema = true
	return nil
}

func (c *v1Codec) checkAppendable(item Item) error {
	if c.nameSet[item.Name()] {
		return NewInvariantViolation("item %q already exists", item.Name())
	}
	if item.Features().Dim() != c.dimFeat {
		return NewInvariantViolation("features dimension mismatch: group is %d, item is %d", c.dimFeat, item.Features().Dim())
	}
	if item.Times().Dim() != c.dimTimes {
		return NewInvariantViolation("times dimension mismatch: group is %d, item is %d", c.dimTimes, item.Times().Dim())
	}
	return nil
}

func (c *v1Codec) appendFrames(item Item) error {
	indexDS, err := c.group.OpenDataset(v1IndexDataset(c.version))
	if err != nil {
		return NewIoError(err)
	}
	var newIndex int64
	if c.lastIndex < 0 {
		newIndex = int64(item.Size() - 1)
	} else {
		newIndex = c.lastIndex + int64(item.Size())
	}
	if err := indexDS.Append([]int64{newIndex}, 1, 1); err != nil {
		return NewIoError(err)
	}
	c.lastIndex = newIndex

	namesDS, err := c.group.OpenDataset(v1NamesDataset(c.version))
	if err != nil {
		return NewIoError(err)
	}
	if err := namesDS.Append([]string{item.Name()}, 1, 1); err != nil {
		return NewIoError(err)
	}

	featuresDS, err := c.group.OpenDataset(v1DatasetFeatures)
	if err != nil {
		return NewIoError(err)
	}
	if err := featuresDS.Append(item.Features().Data(), item.Size(), uint(c.dimFeat)); err != nil {
		return NewIoError(err)
	}

	timesDS, err := c.group.OpenDataset(v1TimesDataset(c.version))
	if err != nil {
		return NewIoError(err)
	}
	if err := timesDS.Append(item.Times().Data(), item.Size(), uint(c.dimTimes)); err != nil {
		return NewIoError(err)
	}
	return nil
}

func (c *v1Codec) appendProperties(item Item) error {
	has, err := c.group.Has(v1GroupProperties)
	if err != nil {
		return NewIoError(err)
	}
	var propsGroup *h5c.Group
	if has {
		propsGroup, err = c.group.OpenGroup(v1GroupProperties)
	} else {
		propsGroup, err = c.group.CreateGroup(v1GroupProperties)
	}
	if err != nil {
		return NewIoError(err)
	}
	itemGroup, err := propsGroup.CreateGroup(item.Name())
	if err != nil {
		return NewIoError(err)
	}
	return writeProperties(itemGroup, item.Properties(), c.compress)
}
