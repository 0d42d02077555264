// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}
	sm := newStackedMap(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	get := func(key string) string {
		v, _, err := sm.Get(key)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, 0, sm.Push())
	assert.Equal(t, "bar", get("foo"))

	sm.Put("foo", "baz")
	sm.Put("a", "1")
	assert.Equal(t, 1, sm.Push())
	sm.Put("a", "2")
	sm.Put("a", "3")
	assert.Equal(t, 2, sm.Depth())
	assert.Equal(t, "3", get("a"))

	var journal []string
	sm.Journal(func(k, v string) bool {
		journal = append(journal, k+"="+v)
		return true
	})
	assert.Equal(t, []string{"foo=baz", "a=1", "a=2", "a=3"}, journal)

	dirty := map[string]string{}
	sm.Dirty(func(k, v string) { dirty[k] = v })
	assert.Equal(t, map[string]string{"foo": "baz", "a": "3"}, dirty)

	sm.Pop()
	assert.Equal(t, "1", get("a"))
	assert.Equal(t, "baz", get("foo"))

	sm.PopTo(0)
	assert.Equal(t, "bar", get("foo"))
	_, found, _ := sm.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, sm.Depth())
}

func TestStackedMapSourceError(t *testing.T) {
	sm := newStackedMap(func(key int) (int, bool, error) {
		return 0, false, errors.New("boom")
	})
	sm.Push()
	_, _, err := sm.Get(1)
	assert.Error(t, err)

	sm.Put(1, 10)
	v, found, err := sm.Get(1)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10, v)
}
