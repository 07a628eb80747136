package remote

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ourunion/unionhub/internal/common"
	core "github.com/ourunion/unionhub/internal/models"
)

// Event is one change notification pushed over the realtime channel.
type Event struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// Listen connects to the server's realtime websocket and invokes handler
// for every event on the requested channels. It reconnects with backoff
// until ctx is cancelled; the realtime channel is best effort and the
// poll loop covers any gap.
func (c *Client) Listen(ctx context.Context, keys []core.EntityKey, handler func(Event)) error {
	if !c.Enabled() {
		return common.ErrRemoteDisabled
	}

	wsURL, err := c.realtimeURL(keys)
	if err != nil {
		return err
	}

	backoff := reconnectMin
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			c.logger.Warn(ctx, "realtime dial failed", "error", err.Error())
		} else {
			backoff = reconnectMin
			c.readLoop(ctx, conn, handler)
			c.logger.Info(ctx, "realtime connection closed, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, handler func(Event)) {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		handler(ev)
	}
}

func (c *Client) realtimeURL(keys []core.EntityKey) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/realtime"

	if len(keys) > 0 {
		names := make([]string, len(keys))
		for i, key := range keys {
			names[i] = string(key)
		}
		u.RawQuery = url.Values{"channels": {strings.Join(names, ",")}}.Encode()
	}
	return u.String(), nil
}
