// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/pkg/errors"

// Change is a single key write. An empty Value deletes the key.
type Change struct {
	Key   []byte
	Value []byte
}

// IsDelete returns whether the change removes the key.
func (c *Change) IsDelete() bool {
	return len(c.Value) == 0
}

type committer interface {
	Commit(changes []Change) error
}

// Stage holds the changes of a state, ready to be committed.
type Stage struct {
	changes   []Change
	committer committer
}

// Changes returns the changes in key order.
func (s *Stage) Changes() []Change {
	return s.changes
}

// Commit writes all changes atomically into the source the state was created from.
func (s *Stage) Commit() error {
	if s.committer == nil {
		return errors.New("state source is not committable")
	}
	if len(s.changes) == 0 {
		return nil
	}
	return s.committer.Commit(s.changes)
}
