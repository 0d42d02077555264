// Copyright (c) 2020 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	"github.com/vechain/lpstaking/cache"
)

// filter queries are composed from the filter fields, so the set of distinct
// statements is small but not fixed.
const stmtCacheSize = 64

// to cache prepared sql statement, which maps query string to stmt.
type stmtCache struct {
	db  *sql.DB
	mu  sync.Mutex
	lru *cache.LRU[string, *sql.Stmt]
}

func newStmtCache(db *sql.DB) *stmtCache {
	lru, err := cache.NewLRUWithEvict(stmtCacheSize, func(_ string, stmt *sql.Stmt) {
		// ignore error since not used anymore
		_ = stmt.Close()
	})
	if err != nil {
		panic(err)
	}
	return &stmtCache{db: db, lru: lru}
}

func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.lru.GetOrLoad(query, func(query string) (*sql.Stmt, error) {
		return sc.db.Prepare(query)
	})
}

func (sc *stmtCache) MustPrepare(query string) *sql.Stmt {
	stmt, err := sc.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

func (sc *stmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.lru.Purge()
}
