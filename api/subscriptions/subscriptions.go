// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod  = 10 * time.Second
	pongWait    = pingPeriod * 2
	writeWait   = 5 * time.Second
	receiptsBuf = 64
)

type Subscriptions struct {
	rt       *runtime.Runtime
	conv     types.Converter
	upgrader *websocket.Upgrader
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// New creates the subscriptions api. Websocket origins are checked against
// allowedOrigins, where "*" allows any.
func New(rt *runtime.Runtime, conv types.Converter, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt:   rt,
		conv: conv,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, u.Scheme+"://"+u.Host) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	action := req.URL.Query().Get("action")

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(conn, action); err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

// pipe forwards committed receipts, filtered by action when not empty, until
// the peer goes away or the api closes.
func (s *Subscriptions) pipe(conn *websocket.Conn, action string) error {
	receipts := make(chan *runtime.Receipt, receiptsBuf)
	sub := s.rt.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket closed", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			if err == nil {
				return nil
			}
			return err
		case r := <-receipts:
			if action != "" && r.Action != action {
				continue
			}
			out, err := s.conv.Receipt(r)
			if err != nil {
				return err
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(out); err != nil {
				return errors.Wrap(err, "write receipt")
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}

// Close ends all subscriptions and waits for the connections to be closed.
func (s *Subscriptions) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").
		Methods(http.MethodGet).
		Name("WS /subscriptions/receipt").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
