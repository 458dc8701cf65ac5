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

// Package h5features persists and retrieves collections of time-aligned
// feature frames in a self-describing, versioned HDF5 container. A
// persisted item associates a name, a dense matrix of fixed-width feature
// vectors, one timestamp per frame, and an optional recursively-typed
// property map. The package reads four historical on-disk layouts
// (1.0 read-only, 1.1, 1.2, 2.0) behind the single Reader/Writer API.
package h5features
