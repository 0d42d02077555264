// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	Unauthorized Kind = iota + 1
	InsufficientBondAmount
	PositionLocked
	NotFound
	ArithmeticInvariantViolation
	AlreadyMigrated
	AlreadyExists
	InvalidInput
)

var kindNames = map[Kind]string{
	Unauthorized:                 "unauthorized",
	InsufficientBondAmount:       "insufficient bond amount",
	PositionLocked:               "position locked",
	NotFound:                     "not found",
	ArithmeticInvariantViolation: "arithmetic invariant violation",
	AlreadyMigrated:              "already migrated",
	AlreadyExists:                "already exists",
	InvalidInput:                 "invalid input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrRevert aborts the current action. It is caused by the caller's input or
// permissions, or by a broken arithmetic invariant.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Error() string {
	return e.kind.String() + ": " + e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind == kind
	}
	return false
}
