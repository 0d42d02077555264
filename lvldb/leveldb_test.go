// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		got, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
		assert.Nil(t, got)
	}
}

func TestLevelDBBulk(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("gone"), []byte("x")))

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	require.NoError(t, bulk.Delete([]byte("gone")))

	// nothing visible before write
	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, bulk.Write())

	val, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	has, err = db.Has([]byte("gone"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestLevelDBSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v1")))
	snap := db.Snapshot()
	defer snap.Release()

	require.NoError(t, db.Put([]byte("k"), []byte("v2")))

	val, err := snap.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	_, err = snap.Get([]byte("missing"))
	assert.True(t, snap.IsNotFound(err))
}

func TestLevelDBIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"p1", "p2", "p3", "q1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}

	collect := func(r kv.Range, reverse bool) (keys []string) {
		it := db.Iterate(r)
		defer it.Release()
		if reverse {
			for ok := it.Last(); ok; ok = it.Prev() {
				keys = append(keys, string(it.Key()))
			}
		} else {
			for ok := it.First(); ok; ok = it.Next() {
				keys = append(keys, string(it.Key()))
			}
		}
		require.NoError(t, it.Error())
		return
	}

	assert.Equal(t, []string{"p1", "p2", "p3"}, collect(kv.PrefixRange([]byte("p")), false))
	assert.Equal(t, []string{"p3", "p2", "p1"}, collect(kv.PrefixRange([]byte("p")), true))
	assert.Equal(t, []string{"p2", "p3"}, collect(kv.PrefixRange([]byte("p")).After([]byte("p1")), false))
	assert.Equal(t, []string{"p1"}, collect(kv.PrefixRange([]byte("p")).Before([]byte("p2")), true))
}
