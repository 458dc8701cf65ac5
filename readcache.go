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
	"context"
	"fmt"
	"runtime"

	"github.com/ctessum/requestcache"
)

// readRequest identifies one cached read: a full read when partial is
// false, otherwise a [t0, t1] window.
type readRequest struct {
	name             string
	partial          bool
	t0, t1           float64
	ignoreProperties bool
}

func (r readRequest) key() string {
	if !r.partial {
		return fmt.Sprintf("%q_%v", r.name, r.ignoreProperties)
	}
	return fmt.Sprintf("%q_%g_%g_%v", r.name, r.t0, r.t1, r.ignoreProperties)
}

// initCache lazily builds the read cache the first time it is needed. It is
// a no-op (never builds a cache) when CacheSize is 0.
func (r *Reader) initCache() {
	r.cacheInit.Do(func() {
		if r.CacheSize == 0 {
			return
		}
		r.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			req := request.(readRequest)
			return r.readUncached(req)
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
}

// cachedRead reads req, either from the memoizing cache (when CacheSize != 0)
// or directly.
func (r *Reader) cachedRead(req readRequest) (Item, error) {
	r.initCache()
	if r.cache == nil {
		return r.readUncached(req)
	}
	creq := r.cache.NewRequest(context.TODO(), req, req.key())
	result, err := creq.Result()
	if err != nil {
		return Item{}, err
	}
	return result.(Item), nil
}
