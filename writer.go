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
	"github.com/sirupsen/logrus"

	"github.com/bootphon/h5features/internal/h5c"
)

// Writer opens or creates one h5features group for writing, at a single
// version frozen for the lifetime of the group (see NewWriter).
type Writer struct {
	// Logger receives non-fatal warnings (e.g. properties dropped on a
	// pre-1.2 group). Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger

	container *h5c.Container
	group     *h5c.Group
	path      string
	groupName string
	version   Version
	compress  bool

	v1 *v1Codec
	v2 *v2Codec
}

// NewWriter opens or creates groupName within path. When overwrite is true
// the file is truncated; otherwise it is opened read-write, created if
// absent. compress enables deflate-9 compression on the datasets the writer
// creates (chunking them where they are not already chunked), except the v1
// item-names dataset, which is never compressed. version is frozen for the group's lifetime:
// it must match the group's existing stored version if the group is
// already populated. Writing v1_0 is Unsupported, since that layout is
// read-only.
func NewWriter(path, groupName string, overwrite, compress bool, version Version) (*Writer, error) {
	if version == V1_0 {
		return nil, NewUnsupported("writing h5features version 1.0 is not supported")
	}

	var container *h5c.Container
	var err error
	if overwrite {
		container, err = h5c.Create(path)
	} else {
		container, err = h5c.OpenReadWrite(path)
	}
	if err != nil {
		return nil, NewIoError(err)
	}

	group, version, err := openOrCreateGroup(container, groupName, version)
	if err != nil {
		container.Close()
		return nil, err
	}

	w := &Writer{
		Logger:    defaultLogger(),
		container: container,
		group:     group,
		path:      path,
		groupName: groupName,
		version:   version,
		compress:  compress,
	}

	switch {
	case version.isPacked():
		w.v1, err = newV1Codec(group, version, compress, func(format string, args ...interface{}) {
			w.Logger.Warnf(format, args...)
		})
	case version == V2_0:
		w.v2 = newV2Codec(group, compress)
	default:
		err = NewInvariantViolation("unsupported h5features version %q", version)
	}
	if err != nil {
		container.Close()
		return nil, err
	}
	return w, nil
}

func openOrCreateGroup(container *h5c.Container, groupName string, version Version) (*h5c.Group, Version, error) {
	has, err := container.Has(groupName)
	if err != nil {
		return nil, 0, NewIoError(err)
	}
	if !has {
		group, err := container.CreateGroup(groupName)
		if err != nil {
			return nil, 0, NewIoError(err)
		}
		if err := writeVersion(group, version); err != nil {
			return nil, 0, err
		}
		return group, version, nil
	}

	group, err := container.OpenGroup(groupName)
	if err != nil {
		return nil, 0, NewIoError(err)
	}
	nChildren, err := group.NumChildren()
	if err != nil {
		return nil, 0, NewIoError(err)
	}
	nAttrs, err := group.NumAttrs()
	if err != nil {
		return nil, 0, NewIoError(err)
	}
	if nChildren == 0 && nAttrs == 0 {
		if err := writeVersion(group, version); err != nil {
			return nil, 0, err
		}
		return group, version, nil
	}

	existing, err := readVersion(group)
	if err != nil {
		return nil, 0, err
	}
	if existing != version {
		return nil, 0, NewInvariantViolation("group %q is already populated at version %s, cannot open as %s", groupName, existing, version)
	}
	return group, existing, nil
}

// Close releases the underlying file handle.
func (w *Writer) Close() error { return w.container.Close() }

// Filename returns the path the writer was opened on.
func (w *Writer) Filename() string { return w.path }

// Groupname returns the name of the group the writer was opened on.
func (w *Writer) Groupname() string { return w.groupName }

// Version returns the group's frozen version.
func (w *Writer) Version() Version { return w.version }

// Write appends item to the group, delegating to the version-specific
// codec.
func (w *Writer) Write(item Item) error {
	if w.v1 != nil {
		return w.v1.write(item)
	}
	return w.v2.write(item)
}

// WriteAll writes every item in items, in order, stopping at the first
// error.
func (w *Writer) WriteAll(items []Item) error {
	for _, item := range items {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}
