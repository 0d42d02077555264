// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/lvldb"
)

func newTestStater(t *testing.T, cacheMB int) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(kv.Bucket("s").NewStore(db), cacheMB)
}

func collect(t *testing.T, st *State, r kv.Range, reverse bool) []string {
	var keys []string
	require.NoError(t, st.Iterate(r, reverse, func(key, val []byte) (bool, error) {
		keys = append(keys, string(key)+"="+string(val))
		return true, nil
	}))
	return keys
}

func TestStateGetPut(t *testing.T) {
	stater := newTestStater(t, 1)
	st := stater.NewState()

	val, err := st.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Nil(t, val)

	st.Put([]byte("a"), []byte("1"))
	val, err = st.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	has, err := st.Has([]byte("a"))
	assert.NoError(t, err)
	assert.True(t, has)

	st.Delete([]byte("a"))
	has, err = st.Has([]byte("a"))
	assert.NoError(t, err)
	assert.False(t, has)

	st.Put([]byte("b"), nil)
	has, err = st.Has([]byte("b"))
	assert.NoError(t, err)
	assert.False(t, has, "empty value means absent")
}

func TestStateCheckpoint(t *testing.T) {
	st := newTestStater(t, 0).NewState()

	st.Put([]byte("a"), []byte("1"))
	chk := st.NewCheckpoint()
	st.Put([]byte("a"), []byte("2"))
	st.Put([]byte("b"), []byte("2"))

	val, _ := st.Get([]byte("a"))
	assert.Equal(t, []byte("2"), val)

	st.RevertTo(chk)
	val, _ = st.Get([]byte("a"))
	assert.Equal(t, []byte("1"), val)
	val, _ = st.Get([]byte("b"))
	assert.Nil(t, val)

	// reverting everything leaves a usable state
	st.RevertTo(0)
	val, _ = st.Get([]byte("a"))
	assert.Nil(t, val)
	st.Put([]byte("c"), []byte("3"))
	assert.Len(t, st.Stage().Changes(), 1)
}

func TestStageCommit(t *testing.T) {
	for _, cacheMB := range []int{0, 1} {
		stater := newTestStater(t, cacheMB)

		st := stater.NewState()
		st.Put([]byte("b"), []byte("2"))
		st.Put([]byte("a"), []byte("1"))
		st.Put([]byte("c"), []byte("3"))
		st.Delete([]byte("c"))

		stage := st.Stage()
		changes := stage.Changes()
		require.Len(t, changes, 3)
		assert.Equal(t, "a", string(changes[0].Key))
		assert.Equal(t, "b", string(changes[1].Key))
		assert.True(t, changes[2].IsDelete())

		// uncommitted writes are invisible to other states
		val, err := stater.NewState().Get([]byte("a"))
		assert.NoError(t, err)
		assert.Nil(t, val)

		require.NoError(t, stage.Commit())

		st2 := stater.NewState()
		val, _ = st2.Get([]byte("a"))
		assert.Equal(t, []byte("1"), val)
		val, _ = st2.Get([]byte("c"))
		assert.Nil(t, val)

		st2.Delete([]byte("a"))
		require.NoError(t, st2.Stage().Commit())
		val, _ = stater.NewState().Get([]byte("a"))
		assert.Nil(t, val)
	}
}

func TestStageCommitNotCommittable(t *testing.T) {
	st := New(&struct {
		kv.GetFunc
		kv.IterateFunc
	}{
		func([]byte) ([]byte, error) { return nil, nil },
		func(kv.Range) kv.Iterator { return nil },
	})
	st.Put([]byte("a"), []byte("1"))
	assert.Error(t, st.Stage().Commit())
}

func TestStateIterate(t *testing.T) {
	stater := newTestStater(t, 1)

	st := stater.NewState()
	for _, k := range []string{"p/1", "p/3", "p/5", "q/1"} {
		st.Put([]byte(k), []byte("c"))
	}
	require.NoError(t, st.Stage().Commit())

	st = stater.NewState()
	st.Put([]byte("p/2"), []byte("d"))
	st.Put([]byte("p/3"), []byte("d"))
	st.Delete([]byte("p/5"))
	st.Put([]byte("p/6"), []byte("d"))
	st.Put([]byte("q/0"), []byte("d"))

	r := kv.PrefixRange([]byte("p/"))
	assert.Equal(t, []string{"p/1=c", "p/2=d", "p/3=d", "p/6=d"}, collect(t, st, r, false))
	assert.Equal(t, []string{"p/6=d", "p/3=d", "p/2=d", "p/1=c"}, collect(t, st, r, true))

	assert.Equal(t, []string{"p/3=d", "p/6=d"}, collect(t, st, r.After([]byte("p/2")), false))
	assert.Equal(t, []string{"p/2=d", "p/1=c"}, collect(t, st, r.Before([]byte("p/3")), true))

	var n int
	require.NoError(t, st.Iterate(r, false, func(key, val []byte) (bool, error) {
		n++
		return n < 2, nil
	}))
	assert.Equal(t, 2, n)
}
