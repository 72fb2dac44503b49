package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gridsnake/internal/snake"
)

const (
	writeWait   = 5 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	maxMsgSize  = 512
	sendBufSize = 64
)

// Conn wraps one websocket. All writes go through a single writer goroutine;
// Render and friends only enqueue, so the session goroutine never blocks on
// the network.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *log.Logger
}

var (
	_ snake.Renderer      = (*Conn)(nil)
	_ snake.ScoreListener = (*Conn)(nil)
)

func newConn(ws *websocket.Conn, logger *log.Logger) *Conn {
	return &Conn{
		ws:     ws,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send serializes msg to JSON and queues it. A full queue drops the message.
func (c *Conn) Send(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("cannot encode message", "error", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Debug("send queue full, message dropped")
	}
}

// Render implements snake.Renderer.
func (c *Conn) Render(f snake.Frame) {
	c.Send(newFrameMsg(f))
}

// GameOver implements snake.Renderer. The final frame goes out first.
func (c *Conn) GameOver(f snake.Frame, run snake.RunResult) {
	c.Send(newFrameMsg(f))
	c.Send(newGameOverMsg(run))
}

// ScoreChanged implements snake.ScoreListener.
func (c *Conn) ScoreChanged(score, top int) {
	c.Send(ScoreMsg{Type: MsgScore, Score: score, Top: top})
}

// Close asks the writer to send a close frame and shut the socket.
// Safe to call multiple times.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done returns a channel that closes with the connection.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// writeLoop drains the send queue until the connection closes. It owns the
// socket: closing it here also unblocks readLoop.
func (c *Conn) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.Close()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still queued. Messages sent right before Close
// (a final error, the game-over frame) reach the client ahead of the close
// frame.
func (c *Conn) flush() {
	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readLoop decodes client messages and hands them to handle until the
// socket fails.
func (c *Conn) readLoop(handle func(ClientMessage)) {
	c.ws.SetReadLimit(maxMsgSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.Send(ErrorMsg{Type: MsgError, Message: "malformed message"})
			continue
		}
		handle(msg)
	}
}
