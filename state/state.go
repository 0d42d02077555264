// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vechain/lpstaking/kv"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Source provides the committed data a State reads through.
type Source interface {
	// Get returns nil value if the key is absent.
	Get(key []byte) ([]byte, error)
	Iterate(r kv.Range) kv.Iterator
}

// State is a read-your-writes overlay over a Source. Writes are journaled
// and can be reverted to a checkpoint; nothing reaches the source until
// the staged changes are committed.
//
// An empty value means the key is absent, so putting an empty value deletes the key.
type State struct {
	src Source
	sm  *stackedMap[string, []byte]
}

// New create state object.
func New(src Source) *State {
	s := &State{src: src}
	s.sm = newStackedMap(func(key string) ([]byte, bool, error) {
		val, err := src.Get([]byte(key))
		if err != nil {
			return nil, false, err
		}
		return val, len(val) > 0, nil
	})
	s.sm.Push()
	return s
}

// Get returns the value for the key, nil if absent.
func (s *State) Get(key []byte) ([]byte, error) {
	val, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, &Error{err}
	}
	return val, nil
}

// Has returns whether the key exists.
func (s *State) Has(key []byte) (bool, error) {
	val, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return len(val) > 0, nil
}

// Put sets the value for the key.
func (s *State) Put(key, val []byte) {
	s.sm.Put(string(key), bytes.Clone(val))
}

// Delete removes the key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Iterate walks the keys in range merged with uncommitted writes, ascending or
// descending, until fn returns false or an error. fn must not modify the state.
func (s *State) Iterate(r kv.Range, reverse bool, fn func(key, val []byte) (bool, error)) error {
	type entry struct {
		key string
		val []byte
	}
	var dirty []entry
	s.sm.Dirty(func(key string, val []byte) {
		if r.Contains([]byte(key)) {
			dirty = append(dirty, entry{key, val})
		}
	})

	before := func(a, b string) bool {
		if reverse {
			return a > b
		}
		return a < b
	}
	sort.Slice(dirty, func(i, j int) bool { return before(dirty[i].key, dirty[j].key) })

	it := s.src.Iterate(r)
	defer it.Release()

	advance := it.Next
	ok := false
	if reverse {
		advance = it.Prev
		ok = it.Last()
	} else {
		ok = it.First()
	}

	i := 0
	for ok || i < len(dirty) {
		var cur entry
		switch {
		case ok && (i >= len(dirty) || before(string(it.Key()), dirty[i].key)):
			cur = entry{string(it.Key()), bytes.Clone(it.Value())}
			ok = advance()
		case ok && string(it.Key()) == dirty[i].key:
			// overridden by the journal
			cur = dirty[i]
			i++
			ok = advance()
		default:
			cur = dirty[i]
			i++
		}
		if len(cur.val) == 0 {
			continue
		}
		cont, err := fn([]byte(cur.key), cur.val)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	return nil
}

// Stage flattens the journal into the final set of changes.
func (s *State) Stage() *Stage {
	latest := make(map[string][]byte)
	s.sm.Journal(func(key string, val []byte) bool {
		latest[key] = val
		return true
	})

	changes := make([]Change, 0, len(latest))
	for k, v := range latest {
		changes = append(changes, Change{Key: []byte(k), Value: v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].Key, changes[j].Key) < 0
	})

	stage := &Stage{changes: changes}
	if c, ok := s.src.(committer); ok {
		stage.committer = c
	}
	return stage
}
