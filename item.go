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

// Item is a named, time-aligned bundle of features, times, and optional
// properties.
type Item struct {
	name       string
	features   Features
	times      Times
	properties Properties
}

// NewItem builds an Item. When check is true, Validate(false) is run and
// its error, if any, is returned.
func NewItem(name string, features Features, times Times, properties Properties, check bool) (Item, error) {
	it := Item{name: name, features: features, times: times, properties: properties}
	if check {
		if err := it.Validate(false); err != nil {
			return Item{}, err
		}
	}
	return it, nil
}

// Name returns the item's name.
func (it Item) Name() string { return it.name }

// Features returns the item's features.
func (it Item) Features() Features { return it.features }

// Times returns the item's times.
func (it Item) Times() Times { return it.times }

// Properties returns the item's properties.
func (it Item) Properties() Properties { return it.properties }

// Dim returns the width of a feature frame.
func (it Item) Dim() int { return it.features.Dim() }

// Size returns the number of frames.
func (it Item) Size() int { return it.features.Size() }

// HasProperties reports whether the item carries any property.
func (it Item) HasProperties() bool { return it.properties.Size() != 0 }

// Equal reports whether it and other are structurally equal: same name,
// features, times, and properties.
func (it Item) Equal(other Item) bool {
	return it.name == other.name &&
		it.features.Equal(other.features) &&
		it.times.Equal(other.times) &&
		it.properties.Equal(other.properties)
}

// Validate checks the item invariants: non-empty name, features and times
// of equal size, and a non-empty size. When deep is true, it additionally
// validates the contained Features and Times.
func (it Item) Validate(deep bool) error {
	if deep {
		if err := it.times.Validate(); err != nil {
			return err
		}
		if err := it.features.Validate(); err != nil {
			return err
		}
	}
	if it.times.Size() != it.features.Size() {
		return NewInvalidValue("times and features must have the same size")
	}
	if it.Size() == 0 {
		return NewInvalidValue("item must not be empty")
	}
	if it.name == "" {
		return NewInvalidValue("item name must not be empty")
	}
	return nil
}
