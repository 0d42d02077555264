// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reward"
)

// Amounts are encoded as 0x prefixed hex and accepted as hex or decimal strings.

type Asset struct {
	Asset  string                `json:"asset"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Payment struct {
	Recipient string                `json:"recipient"`
	Asset     string                `json:"asset"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

type Weight struct {
	Asset  string                `json:"asset"`
	Weight *math.HexOrDecimal256 `json:"weight"`
}

type Config struct {
	Owner    string `json:"owner"`
	Rewarder string `json:"rewarder"`
}

type PoolInfo struct {
	Asset                  string                `json:"asset"`
	StakingToken           string                `json:"stakingToken"`
	TotalBondAmount        *math.HexOrDecimal256 `json:"totalBondAmount"`
	RewardIndex            string                `json:"rewardIndex"`
	PendingReward          *math.HexOrDecimal256 `json:"pendingReward"`
	Migrated               bool                  `json:"migrated"`
	IndexSnapshot          string                `json:"indexSnapshot,omitempty"`
	DeprecatedStakingToken string                `json:"deprecatedStakingToken,omitempty"`
}

type RewardInfo struct {
	Asset           string                `json:"asset"`
	BondAmount      *math.HexOrDecimal256 `json:"bondAmount"`
	PendingReward   *math.HexOrDecimal256 `json:"pendingReward"`
	PendingWithdraw []Asset               `json:"pendingWithdraw"`
	ShouldMigrate   bool                  `json:"shouldMigrate"`
}

type RewardInfoResponse struct {
	Staker      string       `json:"staker"`
	RewardInfos []RewardInfo `json:"rewardInfos"`
}

type BondReport struct {
	Asset            string                `json:"asset"`
	TotalBondAmount  *math.HexOrDecimal256 `json:"totalBondAmount"`
	LiveBondAmount   *math.HexOrDecimal256 `json:"liveBondAmount"`
	LegacyBondAmount *math.HexOrDecimal256 `json:"legacyBondAmount"`
	Stakers          int                   `json:"stakers"`
	Balanced         bool                  `json:"balanced"`
}

type Event struct {
	Action   string                `json:"action"`
	Sender   string                `json:"sender"`
	Staker   string                `json:"staker,omitempty"`
	Asset    string                `json:"asset,omitempty"`
	Amount   *math.HexOrDecimal256 `json:"amount,omitempty"`
	Payments []Payment             `json:"payments,omitempty"`
}

type Receipt struct {
	CallID  string  `json:"callID"`
	Action  string  `json:"action"`
	Time    uint64  `json:"time"`
	GasUsed uint64  `json:"gasUsed"`
	Events  []Event `json:"events"`
}

type LogMeta struct {
	Seq    uint64 `json:"seq"`
	CallID string `json:"callID"`
	Index  uint32 `json:"index"`
	Time   uint64 `json:"time"`
}

type FilteredEvent struct {
	Event
	Meta LogMeta `json:"meta"`
}

// Converter converts between the json types and the staking types, in the
// human address form of its codec.
type Converter struct {
	Codec address.Codec
}

func (c Converter) Address(addr address.Address) (string, error) {
	if addr.IsEmpty() {
		return "", nil
	}
	return c.Codec.Humanize(addr)
}

func (c Converter) ParseAddress(s string) (address.Address, error) {
	if s == "" {
		return nil, nil
	}
	return c.Codec.Canonicalize(s)
}

func (c Converter) AssetInfo(info asset.Info) (string, error) {
	return info.Format(c.Codec)
}

func (c Converter) ParseAssetInfo(s string) (asset.Info, error) {
	return asset.Parse(s, c.Codec)
}

func (c Converter) Assets(assets []asset.Asset) ([]Asset, error) {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		s, err := c.AssetInfo(a.Info)
		if err != nil {
			return nil, err
		}
		out = append(out, Asset{Asset: s, Amount: Amount(a.Amount)})
	}
	return out, nil
}

func (c Converter) ParseAssets(assets []Asset) ([]asset.Asset, error) {
	out := make([]asset.Asset, 0, len(assets))
	for i, a := range assets {
		info, err := c.ParseAssetInfo(a.Asset)
		if err != nil {
			return nil, errors.WithMessagef(err, "assets[%d]", i)
		}
		amount, err := ParseAmount(a.Amount)
		if err != nil {
			return nil, errors.WithMessagef(err, "assets[%d]", i)
		}
		out = append(out, asset.Asset{Info: info, Amount: amount})
	}
	return out, nil
}

func (c Converter) Payments(payments []staking.Payment) ([]Payment, error) {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		recipient, err := c.Address(p.Recipient)
		if err != nil {
			return nil, err
		}
		info, err := c.AssetInfo(p.Info)
		if err != nil {
			return nil, err
		}
		out = append(out, Payment{Recipient: recipient, Asset: info, Amount: Amount(p.Amount)})
	}
	return out, nil
}

func (c Converter) Weights(weights reward.Weights) ([]Weight, error) {
	out := make([]Weight, 0, len(weights))
	for _, w := range weights {
		info, err := c.AssetInfo(w.Info)
		if err != nil {
			return nil, err
		}
		out = append(out, Weight{Asset: info, Weight: Amount(w.Weight)})
	}
	return out, nil
}

func (c Converter) ParseWeights(weights []Weight) (reward.Weights, error) {
	out := make(reward.Weights, 0, len(weights))
	for i, w := range weights {
		info, err := c.ParseAssetInfo(w.Asset)
		if err != nil {
			return nil, errors.WithMessagef(err, "weights[%d]", i)
		}
		weight, err := ParseAmount(w.Weight)
		if err != nil {
			return nil, errors.WithMessagef(err, "weights[%d]", i)
		}
		out = append(out, reward.Weight{Info: info, Weight: weight})
	}
	return out, nil
}

func (c Converter) Config(cfg *staking.Config) (*Config, error) {
	owner, err := c.Address(cfg.Owner)
	if err != nil {
		return nil, err
	}
	rewarder, err := c.Address(cfg.Rewarder)
	if err != nil {
		return nil, err
	}
	return &Config{Owner: owner, Rewarder: rewarder}, nil
}

func (c Converter) PoolInfo(p *staking.PoolInfoResponse) (*PoolInfo, error) {
	info, err := c.AssetInfo(p.Info)
	if err != nil {
		return nil, err
	}
	token, err := c.Address(p.StakingToken)
	if err != nil {
		return nil, err
	}
	out := &PoolInfo{
		Asset:           info,
		StakingToken:    token,
		TotalBondAmount: Amount(p.TotalBondAmount),
		RewardIndex:     p.RewardIndex.String(),
		PendingReward:   Amount(p.PendingReward),
		Migrated:        p.Migrated,
	}
	if p.Migrated {
		out.IndexSnapshot = p.IndexSnapshot.String()
		if out.DeprecatedStakingToken, err = c.Address(p.DeprecatedStakingToken); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c Converter) RewardInfoResponse(r *staking.RewardInfoResponse) (*RewardInfoResponse, error) {
	staker, err := c.Address(r.Staker)
	if err != nil {
		return nil, err
	}
	out := &RewardInfoResponse{Staker: staker, RewardInfos: make([]RewardInfo, 0, len(r.RewardInfos))}
	for _, ri := range r.RewardInfos {
		info, err := c.AssetInfo(ri.Info)
		if err != nil {
			return nil, err
		}
		withdraw, err := c.Assets(ri.PendingWithdraw)
		if err != nil {
			return nil, err
		}
		out.RewardInfos = append(out.RewardInfos, RewardInfo{
			Asset:           info,
			BondAmount:      Amount(ri.BondAmount),
			PendingReward:   Amount(ri.PendingReward),
			PendingWithdraw: withdraw,
			ShouldMigrate:   ri.ShouldMigrate,
		})
	}
	return out, nil
}

func (c Converter) BondReport(r *staking.BondReport) (*BondReport, error) {
	info, err := c.AssetInfo(r.Info)
	if err != nil {
		return nil, err
	}
	return &BondReport{
		Asset:            info,
		TotalBondAmount:  Amount(r.TotalBondAmount),
		LiveBondAmount:   Amount(r.LiveBondAmount),
		LegacyBondAmount: Amount(r.LegacyBondAmount),
		Stakers:          r.Stakers,
		Balanced:         r.Balanced(),
	}, nil
}

func (c Converter) event(action string, sender, staker address.Address, info *asset.Info, amount *uint256.Int, payments []staking.Payment) (*Event, error) {
	ev := &Event{Action: action}
	var err error
	if ev.Sender, err = c.Address(sender); err != nil {
		return nil, err
	}
	if ev.Staker, err = c.Address(staker); err != nil {
		return nil, err
	}
	if info != nil {
		if ev.Asset, err = c.AssetInfo(*info); err != nil {
			return nil, err
		}
	}
	if amount != nil {
		ev.Amount = Amount(amount)
	}
	if len(payments) > 0 {
		if ev.Payments, err = c.Payments(payments); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func (c Converter) Event(ev *staking.Event) (*Event, error) {
	return c.event(ev.Action, ev.Sender, ev.Staker, ev.Asset, ev.Amount, ev.Payments)
}

func (c Converter) FilteredEvent(ev *logdb.Event) (*FilteredEvent, error) {
	out, err := c.event(ev.Action, ev.Sender, ev.Staker, ev.Asset, ev.Amount, ev.Payments)
	if err != nil {
		return nil, err
	}
	return &FilteredEvent{
		Event: *out,
		Meta: LogMeta{
			Seq:    ev.Seq,
			CallID: ev.CallID,
			Index:  ev.Index,
			Time:   ev.Time,
		},
	}, nil
}

func (c Converter) Receipt(r *runtime.Receipt) (*Receipt, error) {
	out := &Receipt{
		CallID:  r.CallID,
		Action:  r.Action,
		Time:    r.Time,
		GasUsed: r.GasUsed,
		Events:  make([]Event, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		converted, err := c.Event(ev)
		if err != nil {
			return nil, err
		}
		out.Events = append(out.Events, *converted)
	}
	return out, nil
}

// Amount converts an amount for json, nil as zero.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAmount converts a json amount, rejecting missing, negative and oversized values.
func ParseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("amount is required")
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("amount must not be negative")
	}
	out, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("amount overflows")
	}
	return out, nil
}

type UnbondResponse struct {
	Receipt
	Transfer       Payment   `json:"transfer"`
	RewardPayments []Payment `json:"rewardPayments"`
}

type WithdrawResponse struct {
	Receipt
	Payments []Payment `json:"payments"`
}
