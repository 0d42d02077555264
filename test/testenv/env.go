// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testenv

import (
	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/genesis"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/lvldb"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/state"
)

// Env is an in-memory staking runtime set up with the devnet genesis,
// using the plain address codec.
type Env struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	runtime *runtime.Runtime
	genesis *genesis.Genesis
}

// New creates an Env with the devnet genesis applied.
func New() (*Env, error) {
	return NewWithGenesis(genesis.NewDevnet())
}

// NewWithGenesis creates an Env with gen applied.
func NewWithGenesis(gen *genesis.Genesis) (*Env, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	rt := runtime.New(state.NewStater(db, 0), logDB, 0)
	if _, err := gen.Apply(rt, address.PlainCodec{}); err != nil {
		rt.Close()
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Env{
		db:      db,
		logDB:   logDB,
		runtime: rt,
		genesis: gen,
	}, nil
}

func (e *Env) Runtime() *runtime.Runtime { return e.runtime }

func (e *Env) LogDB() *logdb.LogDB { return e.logDB }

func (e *Env) Genesis() *genesis.Genesis { return e.genesis }

func (e *Env) Codec() address.Codec { return address.PlainCodec{} }

func (e *Env) Close() {
	e.runtime.Close()
	e.logDB.Close()
	e.db.Close()
}
