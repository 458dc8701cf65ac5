// Copyright © 2026 the h5features authors.
// This file is part of h5features.
//
// h5features is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package h5c is the seam between h5features and the real HDF5 binding
// (github.com/sbinet/go-hdf5). It exposes exactly the group, attribute,
// dataset, and hyperslab primitives the rest of the module needs, the same
// way bitbucket.org/ctessum/cdf's File/Header types wrap raw NetCDF bytes
// behind a typed, storage-agnostic surface for the teacher's sr.Reader. No
// other package in this module imports go-hdf5 directly.
package h5c

import (
	"fmt"

	hdf5 "github.com/sbinet/go-hdf5"
)

// Unlimited marks a dataset dimension as extendable.
const Unlimited = hdf5.UNLIMITED

// Dtype identifies the element type of a dataset or attribute.
type Dtype int

// The element types h5features datasets may hold. Scalar attributes (which
// include bool) are written and read through SetAttribute/Attribute, which
// pass the Go value straight to go-hdf5's own WriteAttribute/ReadAttribute
// and never consult Dtype: Dtype only selects the wire type for a dataset
// created via CreateDataset, which never holds a bool (no ValueKind is a
// bool vector).
const (
	Int32 Dtype = iota
	Int64
	Float64
	String
)

// Shape describes a dataset to be created: its element type, current and
// maximum dimensions (Unlimited for an extendable axis), an optional chunk
// shape, and a deflate compression level (0 disables compression).
type Shape struct {
	Dtype   Dtype
	Dims    []uint
	MaxDims []uint
	Chunk   []uint
	Deflate uint
}

// Container is an open HDF5 file.
type Container struct {
	file *hdf5.File
}

// Create truncates (or creates) the file at path and returns a Container
// open for reading and writing.
func Create(path string) (*Container, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("h5c: create %s: %w", path, err)
	}
	return &Container{file: f}, nil
}

// OpenReadWrite opens the file at path for reading and writing, creating it
// if it does not already exist.
func OpenReadWrite(path string) (*Container, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDWR)
	if err != nil {
		f, err = hdf5.CreateFile(path, hdf5.F_ACC_EXCL)
	}
	if err != nil {
		return nil, fmt.Errorf("h5c: open %s: %w", path, err)
	}
	return &Container{file: f}, nil
}

// OpenReadOnly opens the file at path for reading only.
func OpenReadOnly(path string) (*Container, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("h5c: open %s: %w", path, err)
	}
	return &Container{file: f}, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("h5c: close: %w", err)
	}
	return nil
}

// Has reports whether a top-level child (group or otherwise) named name
// exists.
func (c *Container) Has(name string) (bool, error) {
	ok, err := c.file.LinkExists(name)
	if err != nil {
		return false, fmt.Errorf("h5c: exists %s: %w", name, err)
	}
	return ok, nil
}

// OpenGroup opens an existing top-level group.
func (c *Container) OpenGroup(name string) (*Group, error) {
	g, err := c.file.OpenGroup(name)
	if err != nil {
		return nil, fmt.Errorf("h5c: open group %s: %w", name, err)
	}
	return &Group{loc: g}, nil
}

// CreateGroup creates a new top-level group.
func (c *Container) CreateGroup(name string) (*Group, error) {
	g, err := c.file.CreateGroup(name)
	if err != nil {
		return nil, fmt.Errorf("h5c: create group %s: %w", name, err)
	}
	return &Group{loc: g}, nil
}

// GroupNames returns the names of every top-level child of the file that is
// itself a group.
func (c *Container) GroupNames() ([]string, error) {
	names, err := c.file.ObjectNames()
	if err != nil {
		return nil, fmt.Errorf("h5c: list root: %w", err)
	}
	var groups []string
	for _, n := range names {
		isGroup, err := c.file.IsGroup(n)
		if err != nil {
			return nil, fmt.Errorf("h5c: stat %s: %w", n, err)
		}
		if isGroup {
			groups = append(groups, n)
		}
	}
	return groups, nil
}

// Group is an HDF5 group: a node that may carry attributes and children
// (datasets or nested groups).
type Group struct {
	loc *hdf5.Group
}

// Has reports whether group has a child named name.
func (g *Group) Has(name string) (bool, error) {
	ok, err := g.loc.LinkExists(name)
	if err != nil {
		return false, fmt.Errorf("h5c: exists %s: %w", name, err)
	}
	return ok, nil
}

// ChildNames returns the names of group's direct children, in on-disk
// (creation) order.
func (g *Group) ChildNames() ([]string, error) {
	names, err := g.loc.ObjectNames()
	if err != nil {
		return nil, fmt.Errorf("h5c: list children: %w", err)
	}
	return names, nil
}

// NumChildren returns the number of direct children of group.
func (g *Group) NumChildren() (int, error) {
	n, err := g.loc.NumObjects()
	if err != nil {
		return 0, fmt.Errorf("h5c: count children: %w", err)
	}
	return int(n), nil
}

// NumAttrs returns the number of attributes attached to group.
func (g *Group) NumAttrs() (int, error) {
	n, err := g.loc.NumAttrs()
	if err != nil {
		return 0, fmt.Errorf("h5c: count attrs: %w", err)
	}
	return int(n), nil
}

// AttrNames returns the names of every attribute attached to group.
func (g *Group) AttrNames() ([]string, error) {
	names, err := g.loc.AttrNames()
	if err != nil {
		return nil, fmt.Errorf("h5c: list attrs: %w", err)
	}
	return names, nil
}

// IsChildGroup reports whether the child named name is itself a group, as
// opposed to a dataset.
func (g *Group) IsChildGroup(name string) (bool, error) {
	ok, err := g.loc.IsGroup(name)
	if err != nil {
		return false, fmt.Errorf("h5c: stat %s: %w", name, err)
	}
	return ok, nil
}

// CreateGroup creates a child group named name.
func (g *Group) CreateGroup(name string) (*Group, error) {
	child, err := g.loc.CreateGroup(name)
	if err != nil {
		return nil, fmt.Errorf("h5c: create group %s: %w", name, err)
	}
	return &Group{loc: child}, nil
}

// OpenGroup opens an existing child group named name.
func (g *Group) OpenGroup(name string) (*Group, error) {
	child, err := g.loc.OpenGroup(name)
	if err != nil {
		return nil, fmt.Errorf("h5c: open group %s: %w", name, err)
	}
	return &Group{loc: child}, nil
}

// HasAttribute reports whether group carries an attribute named name.
func (g *Group) HasAttribute(name string) (bool, error) {
	ok, err := g.loc.AttrExists(name)
	if err != nil {
		return false, fmt.Errorf("h5c: attr exists %s: %w", name, err)
	}
	return ok, nil
}

// Attribute reads a scalar attribute (bool, int32, float64, or string) from
// group, returning ok=false if it is absent. The returned value's Go type is
// whatever go-hdf5's ReadAttribute infers from the stored HDF5 datatype; it
// is not selected via Dtype.
func (g *Group) Attribute(name string) (interface{}, bool, error) {
	ok, err := g.HasAttribute(name)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := g.loc.ReadAttribute(name)
	if err != nil {
		return nil, false, fmt.Errorf("h5c: read attr %s: %w", name, err)
	}
	return v, true, nil
}

// SetAttribute creates (or overwrites) a scalar attribute on group. value
// must be one of bool, int32, float64, uint, or string; go-hdf5's own
// WriteAttribute picks the on-disk datatype by reflecting on value, the same
// path used for int32/float64/string scalars, so bool needs no Dtype case.
func (g *Group) SetAttribute(name string, value interface{}) error {
	if err := g.loc.WriteAttribute(name, value); err != nil {
		return fmt.Errorf("h5c: write attr %s: %w", name, err)
	}
	return nil
}

// CreateDataset creates a dataset named name with the given shape.
func (g *Group) CreateDataset(name string, shape Shape) (*Dataset, error) {
	ds, err := g.loc.CreateDatasetWithShape(name, toHDF5Dtype(shape.Dtype), shape.Dims, shape.MaxDims, shape.Chunk, shape.Deflate)
	if err != nil {
		return nil, fmt.Errorf("h5c: create dataset %s: %w", name, err)
	}
	return &Dataset{ds: ds}, nil
}

// OpenDataset opens an existing dataset named name.
func (g *Group) OpenDataset(name string) (*Dataset, error) {
	ds, err := g.loc.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("h5c: open dataset %s: %w", name, err)
	}
	return &Dataset{ds: ds}, nil
}

// Dataset is an HDF5 dataset: a typed, possibly chunked and extendable
// n-dimensional array, possibly carrying its own scalar attributes.
type Dataset struct {
	ds *hdf5.Dataset
}

// Dims returns the dataset's current dimensions.
func (d *Dataset) Dims() ([]uint, error) {
	dims, err := d.ds.Dims()
	if err != nil {
		return nil, fmt.Errorf("h5c: dims: %w", err)
	}
	return dims, nil
}

// Resize grows (or shrinks) the dataset's dimensions in place.
func (d *Dataset) Resize(dims []uint) error {
	if err := d.ds.Resize(dims); err != nil {
		return fmt.Errorf("h5c: resize: %w", err)
	}
	return nil
}

// ReadAll reads the full dataset content into a slice of the appropriate
// element type ([]int32, []float64, or []string).
func (d *Dataset) ReadAll() (interface{}, error) {
	v, err := d.ds.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("h5c: read: %w", err)
	}
	return v, nil
}

// ReadHyperslab reads the hyperslab [start, start+count) from the dataset.
func (d *Dataset) ReadHyperslab(start, count []uint) (interface{}, error) {
	v, err := d.ds.ReadHyperslab(start, count)
	if err != nil {
		return nil, fmt.Errorf("h5c: read hyperslab: %w", err)
	}
	return v, nil
}

// WriteHyperslab writes data into the hyperslab [start, start+count) of the
// dataset, where count is inferred from data's shape.
func (d *Dataset) WriteHyperslab(start []uint, data interface{}) error {
	if err := d.ds.WriteHyperslab(start, data); err != nil {
		return fmt.Errorf("h5c: write hyperslab: %w", err)
	}
	return nil
}

// Append appends data as new rows along the leading dimension, resizing the
// dataset first. rowWidth is the size of a single row (1 for 1-D datasets).
func (d *Dataset) Append(data interface{}, rows int, rowWidth uint) error {
	dims, err := d.Dims()
	if err != nil {
		return err
	}
	start := make([]uint, len(dims))
	start[0] = dims[0]
	dims[0] += uint(rows)
	if err := d.Resize(dims); err != nil {
		return err
	}
	count := append([]uint(nil), dims...)
	count[0] = uint(rows)
	if len(count) > 1 {
		count[1] = rowWidth
	}
	return d.WriteHyperslab(start, data)
}

// Attribute reads a scalar attribute from the dataset, returning ok=false
// if absent.
func (d *Dataset) Attribute(name string) (interface{}, bool, error) {
	ok, err := d.ds.AttrExists(name)
	if err != nil {
		return nil, false, fmt.Errorf("h5c: attr exists %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}
	v, err := d.ds.ReadAttribute(name)
	if err != nil {
		return nil, false, fmt.Errorf("h5c: read attr %s: %w", name, err)
	}
	return v, true, nil
}

// SetAttribute creates a scalar attribute on the dataset.
func (d *Dataset) SetAttribute(name string, value interface{}) error {
	if err := d.ds.WriteAttribute(name, value); err != nil {
		return fmt.Errorf("h5c: write attr %s: %w", name, err)
	}
	return nil
}

func toHDF5Dtype(d Dtype) hdf5.Datatype {
	switch d {
	case Int32:
		return hdf5.T_NATIVE_INT32
	case Int64:
		return hdf5.T_NATIVE_INT64
	case Float64:
		return hdf5.T_NATIVE_DOUBLE
	case String:
		return hdf5.T_GO_STRING
	default:
		panic(fmt.Sprintf("h5c: invalid dtype %d", d))
	}
}
