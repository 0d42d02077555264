// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/lpstaking/cache"
	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/log"
)

var logger = log.WithContext("pkg", "state")

// cached values carry a leading marker byte so absence can be cached too.
const (
	markerAbsent  byte = 0
	markerPresent byte = 1
)

// Stater is the state creator. It owns the committed store and a read cache
// of committed values.
type Stater struct {
	store kv.Store
	cache *directcache.Cache
	stats cache.Stats
}

// NewStater create a new stater. A non-positive cacheSizeMB disables the read cache.
func NewStater(store kv.Store, cacheSizeMB int) *Stater {
	s := &Stater{store: store}
	if cacheSizeMB > 0 {
		s.cache = directcache.New(cacheSizeMB * 1024 * 1024)
	}
	return s
}

// NewState create a new state object over the latest committed data.
func (s *Stater) NewState() *State {
	return New(s)
}

// Get implements Source.
func (s *Stater) Get(key []byte) ([]byte, error) {
	if s.cache != nil {
		var (
			val   []byte
			found bool
		)
		if s.cache.AdvGet(key, func(v []byte) {
			if len(v) > 0 {
				found = true
				if v[0] == markerPresent {
					val = bytes.Clone(v[1:])
				}
			}
		}, false) && found {
			s.stats.Hit()
			metricReadCounter().AddWithLabel(1, map[string]string{"source": "cache"})
			return val, nil
		}
		s.stats.Miss()
		if changed, hit, miss := s.stats.Stats(); changed {
			logger.Debug("state cache stats", "hit", hit, "miss", miss)
		}
	}

	metricReadCounter().AddWithLabel(1, map[string]string{"source": "store"})
	val, err := s.store.Get(key)
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, errors.Wrap(err, "get from store")
		}
		val = nil
	}
	s.cacheValue(key, val)
	return val, nil
}

// Iterate implements Source.
func (s *Stater) Iterate(r kv.Range) kv.Iterator {
	return s.store.Iterate(r)
}

// Commit writes the changes in one atomic batch and refreshes the cache.
func (s *Stater) Commit(changes []Change) error {
	bulk := s.store.Bulk()
	var puts, deletes int64
	for i := range changes {
		c := &changes[i]
		if c.IsDelete() {
			if err := bulk.Delete(c.Key); err != nil {
				return errors.Wrap(err, "delete")
			}
			deletes++
		} else {
			if err := bulk.Put(c.Key, c.Value); err != nil {
				return errors.Wrap(err, "put")
			}
			puts++
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write bulk")
	}

	for i := range changes {
		s.cacheValue(changes[i].Key, changes[i].Value)
	}
	metricCommitCounter().AddWithLabel(puts, map[string]string{"type": "put"})
	metricCommitCounter().AddWithLabel(deletes, map[string]string{"type": "delete"})
	return nil
}

func (s *Stater) cacheValue(key, val []byte) {
	if s.cache == nil {
		return
	}
	if len(val) == 0 {
		_ = s.cache.Set(key, []byte{markerAbsent})
		return
	}
	_ = s.cache.Set(key, append([]byte{markerPresent}, val...))
}
