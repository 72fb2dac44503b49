package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// closingServer queues msgs on every connection, closes it and runs the
// writer to completion.
func closingServer(t *testing.T, msgs ...any) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := newConn(ws, log.New(io.Discard))
		for _, msg := range msgs {
			conn.Send(msg)
		}
		conn.Close()
		conn.writeLoop()
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestConnFlushesQueueBeforeClose(t *testing.T) {
	ts := closingServer(t,
		ErrorMsg{Type: MsgError, Message: "first"},
		ErrorMsg{Type: MsgError, Message: "second"},
	)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	// The writer picks between the queue and the close signal; repeat to
	// make an unlucky pick show up.
	for i := range 20 {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		ws.SetReadDeadline(time.Now().Add(3 * time.Second))

		for _, want := range []string{"first", "second"} {
			var msg ErrorMsg
			if err := ws.ReadJSON(&msg); err != nil {
				t.Fatalf("attempt %d: expected %q before close, got %v", i, want, err)
			}
			if msg.Message != want {
				t.Fatalf("attempt %d: got %q, expected %q", i, msg.Message, want)
			}
		}

		_, _, err = ws.ReadMessage()
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			t.Errorf("attempt %d: expected a normal close, got %v", i, err)
		}
		ws.Close()
	}
}
