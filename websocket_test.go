package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebsocket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(wsHandler))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Can't connect to the Websocket: %s", err.Error())
	}
	defer ws.Close()

	tables := []struct {
		message *Message
		reply   *Message
	}{
		{
			&Message{Type: "sql", Data: "SELECT * FROM t"},
			&Message{Type: "result", Data: "db.t.find()", Extra: "{}"},
		},
		{
			&Message{Type: "sql", Data: "SELECT * FROM t WHERE a = 1 OR b = 2"},
			&Message{Type: "result", Data: "db.t.find([{a: 1}, {b: 2}])", Extra: `{"$or":[{"a":1},{"b":2}]}`},
		},
		{
			&Message{Type: "sql", Data: "SELECT * FROM t ORDER BY a"},
			&Message{Type: "error", Data: "Invalid query", Extra: "ORDER BY is not supported"},
		},
		{
			&Message{Type: "sql", Data: "SELECT * FROM t WHERE a = 99999999999999999999"},
			&Message{
				Type:  "error",
				Data:  "Can't build MongoDB driver filter: Integer out of range: 99999999999999999999",
				Query: "db.t.find({a: 99999999999999999999})",
			},
		},
		{
			&Message{Type: "sql", Data: ""},
			&Message{Type: "error", Data: "Query can't be empty"},
		},
		{
			&Message{Type: "unknown"},
			&Message{Type: "error", Data: "Unknown message type: unknown"},
		},
	}

	for _, table := range tables {
		err = ws.WriteJSON(table.message)
		if err != nil {
			t.Fatalf("Can't send a message: %s", err.Error())
		}

		ws.SetReadDeadline(time.Now().Add(5 * time.Second))

		reply := &Message{}
		err = ws.ReadJSON(reply)
		if err != nil {
			t.Fatalf("Can't read a reply to '%s': %s", table.message.Data, err.Error())
		}

		if *reply != *table.reply {
			t.Errorf("Invalid reply to '%s': %+v, expected: %+v", table.message.Data, reply, table.reply)
		}
	}
}
