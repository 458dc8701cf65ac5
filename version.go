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

import "github.com/bootphon/h5features/internal/h5c"

// Version identifies one of the four historical on-disk layouts.
type Version int

// The supported h5features format versions. V1_0 is read-only.
const (
	V1_0 Version = iota + 1
	V1_1
	V1_2
	V2_0
)

var versionStrings = map[Version]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V2_0: "2.0",
}

var stringVersions = map[string]Version{
	"1.0": V1_0,
	"1.1": V1_1,
	"1.2": V1_2,
	"2.0": V2_0,
}

// String renders v as its on-disk attribute string, e.g. "1.2".
func (v Version) String() string {
	if s, ok := versionStrings[v]; ok {
		return s
	}
	return "invalid"
}

// isPacked reports whether v uses the v1.x packed layout.
func (v Version) isPacked() bool { return v == V1_0 || v == V1_1 || v == V1_2 }

const versionAttr = "version"

// readVersion reads the "version" attribute of group and maps it to a
// Version. Absence of the attribute, or an unrecognized string, is an
// InvariantViolation.
func readVersion(group *h5c.Group) (Version, error) {
	raw, ok, err := group.Attribute(versionAttr)
	if err != nil {
		return 0, NewIoError(err)
	}
	if !ok {
		return 0, NewInvariantViolation("failed to read h5features version")
	}
	s, ok := raw.(string)
	if !ok {
		return 0, NewCorruptData("version attribute is not a string")
	}
	v, ok := stringVersions[s]
	if !ok {
		return 0, NewInvariantViolation("invalid h5features version %q", s)
	}
	return v, nil
}

// writeVersion creates or overwrites the "version" attribute of group.
func writeVersion(group *h5c.Group, v Version) error {
	if err := group.SetAttribute(versionAttr, v.String()); err != nil {
		return NewIoError(err)
	}
	return nil
}
