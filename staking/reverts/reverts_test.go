// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(NotFound, "pool")
	assert.Equal(t, "pool", revert.message)
	assert.Equal(t, "not found: pool", revert.Error())
	assert.Equal(t, NotFound, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))

	wrapped := errors.Wrap(Newf(PositionLocked, "staker %s", "abc"), "bond")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, Is(wrapped, PositionLocked))
	assert.False(t, Is(wrapped, NotFound))
	assert.False(t, Is(errors.New("plain"), NotFound))

	assert.Equal(t, "kind(99)", Kind(99).String())
}
