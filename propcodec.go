/*
Copyright © 2026 the h5features authors.
This file is part of h5features.

h5features is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.
*/

package h5features

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/bootphon/h5features/internal/h5c"
)

// reservedKeyPattern matches the `__<index>$$` sentinel suffix used to mark
// the sub-groups of a vector-of-properties encoding (see writePropertiesVector
// below). A user-supplied key matching this pattern is rejected at write
// time, since it would be indistinguishable from the sentinel on read.
var reservedKeyPattern = regexp.MustCompile(`__[0-9]+\$\$$`)

func isReservedKey(key string) bool { return reservedKeyPattern.MatchString(key) }

func vectorElementName(key string, index int) string {
	return fmt.Sprintf("%s__%d$$", key, index)
}

// writeProperties writes props into group, which must be empty (no
// children). Each (key, value) pair becomes an attribute, dataset, or child
// group per spec: scalars are attributes, homogeneous vectors are datasets,
// nested maps are child groups, and vectors of maps are a child group of
// sentinel-named sub-groups.
func writeProperties(group *h5c.Group, props Properties, compress bool) error {
	n, err := group.NumChildren()
	if err != nil {
		return NewIoError(err)
	}
	if n != 0 {
		return NewInvariantViolation("group not empty")
	}

	for _, key := range props.Names() {
		if isReservedKey(key) {
			return NewInvalidValue("property key %q collides with the reserved vector-of-properties sentinel", key)
		}
		value, _ := props.Get(key)
		if err := writePropertyValue(group, key, value, compress); err != nil {
			return err
		}
	}
	return nil
}

func writePropertyValue(group *h5c.Group, key string, value Value, compress bool) error {
	switch value.Kind() {
	case KindBool:
		b, _ := value.AsBool()
		if err := group.SetAttribute(key, b); err != nil {
			return NewIoError(err)
		}
	case KindInt32:
		i, _ := value.AsInt32()
		if err := group.SetAttribute(key, i); err != nil {
			return NewIoError(err)
		}
	case KindFloat64:
		f, _ := value.AsFloat64()
		if err := group.SetAttribute(key, f); err != nil {
			return NewIoError(err)
		}
	case KindString:
		s, _ := value.AsString()
		if err := group.SetAttribute(key, s); err != nil {
			return NewIoError(err)
		}
	case KindInt32Vector:
		v, _ := value.AsInt32Vector()
		return writeVectorDataset(group, key, h5c.Int32, len(v), v, compress)
	case KindFloat64Vector:
		v, _ := value.AsFloat64Vector()
		return writeVectorDataset(group, key, h5c.Float64, len(v), v, compress)
	case KindStringVector:
		v, _ := value.AsStringVector()
		return writeVectorDataset(group, key, h5c.String, len(v), v, compress)
	case KindProperties:
		nested, _ := value.AsProperties()
		child, err := group.CreateGroup(key)
		if err != nil {
			return NewIoError(err)
		}
		return writeProperties(child, nested, compress)
	case KindPropertiesVector:
		vec, _ := value.AsPropertiesVector()
		return writePropertiesVector(group, key, vec, compress)
	default:
		return NewInvalidValue("property %q has an unknown value kind", key)
	}
	return nil
}

func writeVectorDataset(group *h5c.Group, key string, dtype h5c.Dtype, length int, data interface{}, compress bool) error {
	shape := h5c.Shape{
		Dtype: dtype,
		Dims:  []uint{uint(length)},
	}
	if compress {
		shape.Chunk = []uint{uint(length)}
		shape.Deflate = 9
	}
	ds, err := group.CreateDataset(key, shape)
	if err != nil {
		return NewIoError(err)
	}
	if err := ds.WriteHyperslab([]uint{0}, data); err != nil {
		return NewIoError(err)
	}
	return nil
}

func writePropertiesVector(group *h5c.Group, key string, vec []Properties, compress bool) error {
	container, err := group.CreateGroup(key)
	if err != nil {
		return NewIoError(err)
	}
	for i, elem := range vec {
		sub, err := container.CreateGroup(vectorElementName(key, i))
		if err != nil {
			return NewIoError(err)
		}
		if err := writeProperties(sub, elem, compress); err != nil {
			return err
		}
	}
	return nil
}

// readProperties reconstructs a Properties from group: every attribute
// becomes a scalar value, every dataset child a homogeneous vector, and
// every group child either a nested map or a reconstructed vector of maps,
// depending on whether all of that child's own children match the
// `<key>__<index>$$` sentinel pattern.
func readProperties(group *h5c.Group) (Properties, error) {
	out := make(map[string]Value)

	attrNames, err := attributeNames(group)
	if err != nil {
		return Properties{}, err
	}
	for _, name := range attrNames {
		v, err := readPropertyAttribute(group, name)
		if err != nil {
			return Properties{}, err
		}
		out[name] = v
	}

	childNames, err := group.ChildNames()
	if err != nil {
		return Properties{}, NewIoError(err)
	}
	for _, name := range childNames {
		v, err := readPropertyChild(group, name)
		if err != nil {
			return Properties{}, err
		}
		out[name] = v
	}

	return NewProperties(out, false)
}

// attributeNames lists the names of every attribute attached to group via
// h5c.Group.AttrNames.
func attributeNames(group *h5c.Group) ([]string, error) {
	return group.AttrNames()
}

func readPropertyAttribute(group *h5c.Group, name string) (Value, error) {
	raw, ok, err := group.Attribute(name)
	if err != nil {
		return Value{}, NewIoError(err)
	}
	if !ok {
		return Value{}, NewCorruptData("attribute %q vanished while reading", name)
	}
	switch v := raw.(type) {
	case bool:
		return BoolValue(v), nil
	case int32:
		return Int32Value(v), nil
	case float64:
		return Float64Value(v), nil
	case string:
		return StringValue(v), nil
	default:
		return Value{}, NewCorruptData("attribute %q has an unsupported storage type %T", name, raw)
	}
}

func readPropertyChild(group *h5c.Group, name string) (Value, error) {
	isGroup, err := isChildGroup(group, name)
	if err != nil {
		return Value{}, err
	}
	if !isGroup {
		return readPropertyDataset(group, name)
	}

	child, err := group.OpenGroup(name)
	if err != nil {
		return Value{}, NewIoError(err)
	}
	grandchildren, err := child.ChildNames()
	if err != nil {
		return Value{}, NewIoError(err)
	}
	if len(grandchildren) > 0 && allMatchSentinel(grandchildren, name) {
		vec, err := readPropertiesVector(child, name, grandchildren)
		if err != nil {
			return Value{}, err
		}
		return PropertiesVectorValue(vec), nil
	}
	nested, err := readProperties(child)
	if err != nil {
		return Value{}, err
	}
	return PropertiesValue(nested), nil
}

func allMatchSentinel(names []string, key string) bool {
	for _, n := range names {
		if !matchesSentinel(n, key) {
			return false
		}
	}
	return true
}

func matchesSentinel(name, key string) bool {
	if !reservedKeyPattern.MatchString(name) {
		return false
	}
	prefix := key + "__"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return false
	}
	return true
}

func sentinelIndex(name, key string) (int, error) {
	rest := name[len(key+"__"):]
	rest = rest[:len(rest)-len("$$")]
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return 0, NewCorruptData("malformed vector-of-properties sub-group name %q", name)
	}
	return idx, nil
}

func readPropertiesVector(container *h5c.Group, key string, names []string) ([]Properties, error) {
	type indexed struct {
		index int
		name  string
	}
	entries := make([]indexed, 0, len(names))
	for _, n := range names {
		idx, err := sentinelIndex(n, key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, indexed{idx, n})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	out := make([]Properties, len(entries))
	for i, e := range entries {
		sub, err := container.OpenGroup(e.name)
		if err != nil {
			return nil, NewIoError(err)
		}
		props, err := readProperties(sub)
		if err != nil {
			return nil, err
		}
		out[i] = props
	}
	return out, nil
}

func readPropertyDataset(group *h5c.Group, name string) (Value, error) {
	ds, err := group.OpenDataset(name)
	if err != nil {
		return Value{}, NewIoError(err)
	}
	data, err := ds.ReadAll()
	if err != nil {
		return Value{}, NewIoError(err)
	}
	switch v := data.(type) {
	case []int32:
		return Int32VectorValue(v), nil
	case []float64:
		return Float64VectorValue(v), nil
	case []string:
		return StringVectorValue(v), nil
	default:
		return Value{}, NewCorruptData("dataset %q has an unsupported storage type %T", name, data)
	}
}

func isChildGroup(group *h5c.Group, name string) (bool, error) {
	isGroup, err := group.IsChildGroup(name)
	if err != nil {
		return false, NewIoError(err)
	}
	return isGroup, nil
}
