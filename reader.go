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
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"

	"github.com/bootphon/h5features/internal/h5c"
)

// Reader opens one h5features group for reading, dispatching to the
// version-specific codec detected at construction.
type Reader struct {
	// Logger receives non-fatal warnings (e.g. properties ignored on a
	// pre-1.2 group). Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger

	// CacheSize is the number of ReadItem/ReadItemInterval results held in
	// an in-memory, deduplicating cache. The default is 100; 0 disables
	// caching. CacheSize can only be changed before the first read.
	CacheSize int

	container *h5c.Container
	group     *h5c.Group
	path      string
	groupName string
	version   Version

	v1 *v1Codec
	v2 *v2Codec

	cache     *requestcache.Cache
	cacheInit sync.Once
}

// NewReader opens path read-only and locates groupName within it, failing
// with NotFound if the group does not exist. The group's version attribute
// is read and the appropriate codec is selected.
func NewReader(path, groupName string) (*Reader, error) {
	container, err := h5c.OpenReadOnly(path)
	if err != nil {
		return nil, NewIoError(err)
	}
	has, err := container.Has(groupName)
	if err != nil {
		container.Close()
		return nil, NewIoError(err)
	}
	if !has {
		container.Close()
		return nil, NewNotFound("group %q not found in %q", groupName, path)
	}
	group, err := container.OpenGroup(groupName)
	if err != nil {
		container.Close()
		return nil, NewIoError(err)
	}
	version, err := readVersion(group)
	if err != nil {
		container.Close()
		return nil, err
	}

	r := &Reader{
		Logger:    defaultLogger(),
		CacheSize: 100,
		container: container,
		group:     group,
		path:      path,
		groupName: groupName,
		version:   version,
	}

	switch {
	case version.isPacked():
		r.v1, err = newV1Codec(group, version, false, func(format string, args ...interface{}) {
			r.Logger.Warnf(format, args...)
		})
	case version == V2_0:
		r.v2 = newV2Codec(group, false)
	default:
		err = NewInvariantViolation("unsupported h5features version %q", version)
	}
	if err != nil {
		container.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.container.Close() }

// Filename returns the path the reader was opened on.
func (r *Reader) Filename() string { return r.path }

// Groupname returns the name of the group the reader was opened on.
func (r *Reader) Groupname() string { return r.groupName }

// Version returns the group's on-disk version.
func (r *Reader) Version() Version { return r.version }

// Items returns the item names stored in the group, in on-disk order.
func (r *Reader) Items() ([]string, error) {
	if r.v1 != nil {
		return r.v1.items()
	}
	return r.v2.items()
}

// ReadItem reads the full item named name.
func (r *Reader) ReadItem(name string, ignoreProperties bool) (Item, error) {
	return r.cachedRead(readRequest{name: name, ignoreProperties: ignoreProperties})
}

// ReadItemInterval reads only the frames of item name whose times fall
// within [t0, t1], translating the window to a frame range via
// Times.GetIndices.
func (r *Reader) ReadItemInterval(name string, t0, t1 float64, ignoreProperties bool) (Item, error) {
	return r.cachedRead(readRequest{name: name, partial: true, t0: t0, t1: t1, ignoreProperties: ignoreProperties})
}

func (r *Reader) readUncached(req readRequest) (Item, error) {
	if r.v1 != nil {
		if req.partial {
			return r.v1.readItemInterval(req.name, req.t0, req.t1, req.ignoreProperties)
		}
		return r.v1.readItem(req.name, req.ignoreProperties)
	}
	if req.partial {
		return r.v2.readItemInterval(req.name, req.t0, req.t1, req.ignoreProperties)
	}
	return r.v2.readItem(req.name, req.ignoreProperties)
}

// ReadAll reads every item in the group, in on-disk order.
func (r *Reader) ReadAll(ignoreProperties bool) ([]Item, error) {
	names, err := r.Items()
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(names))
	for _, name := range names {
		item, err := r.ReadItem(name, ignoreProperties)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ListGroups returns the names of every top-level group in the HDF5 file at
// path.
func ListGroups(path string) ([]string, error) {
	container, err := h5c.OpenReadOnly(path)
	if err != nil {
		return nil, NewIoError(err)
	}
	defer container.Close()
	names, err := container.GroupNames()
	if err != nil {
		return nil, NewIoError(err)
	}
	return names, nil
}

// ListGroups returns the names of every top-level group in the file this
// reader was opened on. It delegates to the free function of the same name.
func (r *Reader) ListGroups() ([]string, error) { return ListGroups(r.path) }
