// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package decimal implements an unsigned fixed-point number with 18 fractional digits.
package decimal

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Places is the number of fractional decimal digits.
const Places = 18

var (
	one = uint256.NewInt(1_000_000_000_000_000_000)

	// ErrOverflow is returned when a result does not fit in 256 bits.
	ErrOverflow = errors.New("decimal: overflow")
	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("decimal: division by zero")
)

// Decimal is a non-negative fixed-point number, stored as value * 10^18.
// The zero value is 0.
type Decimal struct {
	raw uint256.Int
}

// Zero returns 0.
func Zero() Decimal {
	return Decimal{}
}

// FromRaw creates a decimal from its scaled representation.
func FromRaw(raw *uint256.Int) Decimal {
	var d Decimal
	d.raw.Set(raw)
	return d
}

// FromInt converts an integer to decimal.
func FromInt(n *uint256.Int) (Decimal, error) {
	var d Decimal
	if _, overflow := d.raw.MulOverflow(n, one); overflow {
		return Decimal{}, ErrOverflow
	}
	return d, nil
}

// FromRatio returns num / den, truncated toward zero.
func FromRatio(num, den *uint256.Int) (Decimal, error) {
	if den.IsZero() {
		return Decimal{}, ErrDivisionByZero
	}
	var d Decimal
	if _, overflow := d.raw.MulDivOverflow(num, one, den); overflow {
		return Decimal{}, ErrOverflow
	}
	return d, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses a decimal string like "4", "0.5" or "12.000000000000000001".
func Parse(s string) (Decimal, error) {
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || (hasDot && fracPart == "") {
		return Decimal{}, fmt.Errorf("decimal: invalid string %q", s)
	}
	if len(fracPart) > Places {
		return Decimal{}, fmt.Errorf("decimal: too many fractional digits %q", s)
	}
	for _, c := range intPart + fracPart {
		if c < '0' || c > '9' {
			return Decimal{}, fmt.Errorf("decimal: invalid string %q", s)
		}
	}

	n, err := uint256.FromDecimal(intPart)
	if err != nil {
		return Decimal{}, errors.Wrapf(err, "decimal: parse %q", s)
	}
	d, err := FromInt(n)
	if err != nil {
		return Decimal{}, err
	}
	if fracPart != "" {
		frac, err := uint256.FromDecimal(fracPart + strings.Repeat("0", Places-len(fracPart)))
		if err != nil {
			return Decimal{}, errors.Wrapf(err, "decimal: parse %q", s)
		}
		if _, overflow := d.raw.AddOverflow(&d.raw, frac); overflow {
			return Decimal{}, ErrOverflow
		}
	}
	return d, nil
}

// Raw returns a copy of the scaled representation.
func (d Decimal) Raw() *uint256.Int {
	return d.raw.Clone()
}

// IsZero returns whether d is 0.
func (d Decimal) IsZero() bool {
	return d.raw.IsZero()
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d Decimal) Cmp(o Decimal) int {
	return d.raw.Cmp(&o.raw)
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	var r Decimal
	if _, overflow := r.raw.AddOverflow(&d.raw, &o.raw); overflow {
		return Decimal{}, ErrOverflow
	}
	return r, nil
}

// MulFloor returns floor(n * d).
func (d Decimal) MulFloor(n *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).MulDivOverflow(n, &d.raw, one)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

// String returns the shortest exact decimal form, e.g. "4" or "0.25".
func (d Decimal) String() string {
	var rem uint256.Int
	quo, _ := new(uint256.Int).DivMod(&d.raw, one, &rem)
	if rem.IsZero() {
		return quo.Dec()
	}
	frac := strings.TrimRight(fmt.Sprintf("%018d", rem.Uint64()), "0")
	return quo.Dec() + "." + frac
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (d Decimal) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &d.raw)
}

// DecodeRLP implements rlp.Decoder.
func (d *Decimal) DecodeRLP(s *rlp.Stream) error {
	return s.ReadUint256(&d.raw)
}
