// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/logdb"
)

type Logs struct {
	db    *logdb.LogDB
	conv  types.Converter
	limit uint64
}

func New(db *logdb.LogDB, conv types.Converter, logsLimit uint64) *Logs {
	return &Logs{
		db,
		conv,
		logsLimit,
	}
}

func (l *Logs) convertFilter(ef *EventFilter) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		CallID: ef.CallID,
		Action: ef.Action,
	}
	var err error
	if filter.Staker, err = l.conv.ParseAddress(ef.Staker); err != nil {
		return nil, errors.WithMessage(err, "staker")
	}
	if ef.Asset != "" {
		info, err := l.conv.ParseAssetInfo(ef.Asset)
		if err != nil {
			return nil, errors.WithMessage(err, "asset")
		}
		filter.Asset = &info
	}
	switch ef.Order {
	case "", string(logdb.ASC):
		filter.Order = logdb.ASC
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, errors.New("order: should be asc or desc")
	}
	if ef.Options != nil {
		filter.Options = &logdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		}
	}
	return filter, nil
}

func (l *Logs) filter(ctx context.Context, filter *logdb.EventFilter) ([]*types.FilteredEvent, error) {
	events, err := l.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	fes := make([]*types.FilteredEvent, len(events))
	for i, ev := range events {
		if fes[i], err = l.conv.FilteredEvent(ev); err != nil {
			return nil, err
		}
	}
	return fes, nil
}

func (l *Logs) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var ef EventFilter
	if err := utils.ParseJSON(req.Body, &ef); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if ef.Options != nil && ef.Options.Limit > l.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit))
	}
	if ef.Options != nil && ef.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	if ef.Options == nil {
		// one more than the limit to detect an oversized result
		ef.Options = &Options{Limit: l.limit + 1}
	}

	filter, err := l.convertFilter(&ef)
	if err != nil {
		return utils.BadRequest(err)
	}
	fes, err := l.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(fes) > int(l.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilter))
}
