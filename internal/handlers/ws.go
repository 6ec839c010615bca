// internal/handlers/ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/jason-s-yu/uno/internal/room"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the websocket subprotocol clients must request.
const Subprotocol = "uno"

const (
	pingInterval = 30 * time.Second
	pingTimeout  = 15 * time.Second
	writeTimeout = 5 * time.Second
)

// WSHandler upgrades the request and attaches the socket to the room until
// either side hangs up.
func WSHandler(logger *logrus.Logger, rm *room.Room, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "client must speak the uno subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := room.NewConn(r.RemoteAddr, cancel)
		rm.Join(conn)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		go writePump(ctx, c, conn, logger)

		err = readPump(ctx, c, rm, conn, logger)
		rm.Leave(conn)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readPump decodes frames and hands them to the room in arrival order. It
// returns the error that ended the connection, or nil on a clean close.
func readPump(ctx context.Context, c *websocket.Conn, rm *room.Room, conn *room.Conn, logger *logrus.Logger) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if typ != websocket.MessageText {
			logger.WithField("conn", conn.ID).Warnf("ignoring non-text message type %d", typ)
			continue
		}

		in, err := decodeIntent(msg)
		if err != nil {
			logger.WithField("conn", conn.ID).Warnf("undecodable message: %v", err)
			rm.RejectFrame(conn, err)
			continue
		}

		// rejections were already reported to the client by the room
		_ = rm.Dispatch(conn, in)
	}
}

// writePump drains the connection's queue onto the socket and keeps the
// connection alive with pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *room.Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer conn.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-conn.OutChan:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, msg.Data)
			cancel()
			if err != nil {
				logger.WithField("conn", conn.ID).Warnf("failed to write to websocket: %v", err)
				return
			}
			if msg.Close {
				c.Close(SessionClosedError, "session closed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.WithField("conn", conn.ID).Warnf("ping failed, assuming disconnect: %v", err)
				return
			}
		}
	}
}
