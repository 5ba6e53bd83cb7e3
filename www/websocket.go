package www

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/icodeforyou/spotboard-go/dashboard"
	"github.com/icodeforyou/spotboard-go/genmix"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type liveGeneration struct {
	Title  string
	Time   time.Time
	Labels []string
	Result genmix.Result
}

// NewLiveHandler pushes the current green share to each connected client,
// once on connect and then every interval.
func NewLiveHandler(logger *slog.Logger, assembler BoardAssembler, tm *TemplateManager, interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("web socket upgrade failed", slog.Any("error", err))
			return
		}

		client := &liveClient{
			logger:    logger.With(slog.String("client", r.RemoteAddr)),
			conn:      conn,
			assembler: assembler,
			tm:        tm,
			interval:  interval,
		}
		client.run(r.Context())
	}
}

type liveClient struct {
	logger    *slog.Logger
	conn      *ws.Conn
	assembler BoardAssembler
	tm        *TemplateManager
	interval  time.Duration
}

func (c *liveClient) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.conn.Close()

	c.logger.Debug("live client connected")
	go c.readPump(cancel)

	pushTicker := time.NewTicker(c.interval)
	defer pushTicker.Stop()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	if !c.push(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("live client disconnected")
			return

		case <-pushTicker.C:
			if !c.push(ctx) {
				return
			}

		case <-pingTicker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
				return
			}
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				c.logger.Warn("web socket ping message failed", slog.Any("error", err))
				return
			}
		}
	}
}

// readPump discards incoming messages and cancels when the peer goes away.
func (c *liveClient) readPump(cancel context.CancelFunc) {
	defer cancel()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// push writes one rendered update. A failing pipeline is rendered as no
// data, only a broken connection ends the client.
func (c *liveClient) push(ctx context.Context) bool {
	mix, err := c.assembler.Generation(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		c.logger.Warn("live generation failed", slog.Any("error", err))
	}

	msg, err := c.tm.Execute("live_generation.html", liveGeneration{
		Title:  dashboard.GreenTitle(mix.GreenShare),
		Time:   mix.Snapshot.Time,
		Labels: mix.Labels,
		Result: mix,
	})
	if err != nil {
		c.logger.Error("rendering live generation", slog.Any("error", err))
		return false
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
		return false
	}
	if err := c.conn.WriteMessage(ws.TextMessage, msg.Bytes()); err != nil {
		c.logger.Warn("web socket write failed", slog.Any("error", err))
		return false
	}
	return true
}
