package main

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var (
	// HTTP request -> Websocket connection
	// upgrader with the default options
	upgrader = websocket.Upgrader{}

	// Send pings to the client with this period
	pingPeriod = 60 * time.Second
)

/*
 * Structure of a single Websocket message
 */
type Message struct {
	// Type of the message: sql, result, error, ping
	Type string `json:"type"`

	// SQL query, translation or error
	Data string `json:"data"`

	// Possible additional data: driver filter or a hint
	Extra string `json:"extra,omitempty"`

	// Shell query of the error reply,
	// when only the driver conversion failed
	Query string `json:"query,omitempty"`
}

/*
 * Single Websocket client translating queries interactively
 */
type Session struct {
	ws     *websocket.Conn
	logger zerolog.Logger

	// Connections support one concurrent reader and one concurrent writer
	mx   sync.Mutex
	done chan bool
}

/*
 * Accept Websocket connections on '/ws'
 */
func wsHandler(w http.ResponseWriter, r *http.Request) {
	logger, _ := requestLogger(r)

	if !authorized(r) {
		http.Error(w, "Can't authenticate user by the given API key", http.StatusUnauthorized)
		logger.Error().Msg("Websocket handler: can't authenticate user by the given API key")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Msg("Can't upgrade to the Websocket: " + err.Error())
		return
	}

	logger.Info().Msg("Websocket connection established")

	s := &Session{
		ws:     ws,
		logger: logger,
		done:   make(chan bool),
	}

	// Listen for the incoming Websocket messages in a loop
	go s.listen()
}

/*
 * Listen for the incoming Websocket messages
 */
func (s *Session) listen() {
	defer func() {
		close(s.done)
		s.ws.Close()
	}()

	go s.ping()

	for {
		_, bytes, err := s.ws.ReadMessage()
		if err != nil {
			switch err.(type) {
			case *websocket.CloseError:
				s.logger.Info().Msg("Websocket connection closed by client")
			case *net.OpError:
				s.logger.Info().Msg("Websocket is closed")
			default:
				s.logger.Error().Msg("Can't read Websocket message: " + err.Error())
			}
			return
		}

		// Unmarshal message
		var message *Message
		err = json.Unmarshal(bytes, &message)
		if err != nil || message == nil {
			s.send(&Message{Type: "error", Data: "Can't parse the message"})
			s.logger.Error().Msgf("Can't unmarshal Websocket message: %v", err)
			continue
		}

		s.logger.Debug().Msg("Websocket message received: " + string(bytes))

		switch message.Type {
		case "sql":
			s.sqlHandler(message.Data)
		case "pong":
		default:
			s.send(&Message{Type: "error", Data: "Unknown message type: " + message.Type})
		}
	}
}

/*
 * Translate user's query and reply with the result
 */
func (s *Session) sqlHandler(sql string) {
	if sql == "" {
		s.send(&Message{Type: "error", Data: "Query can't be empty"})
		return
	}

	t := process(sql, s.logger)

	if t.Error != "" {
		s.send(&Message{Type: "error", Data: t.Error, Extra: t.Hint, Query: t.Query})
		return
	}

	s.send(&Message{Type: "result", Data: t.Query, Extra: t.Filter})
}

/*
 * Send a message to the client
 */
func (s *Session) send(m *Message) {
	bytes, err := json.Marshal(m)
	if err != nil {
		s.logger.Error().Msg("Can't marshal Websocket message: " + err.Error())
		return
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	err = s.ws.WriteMessage(websocket.TextMessage, bytes)
	if err != nil {
		s.logger.Error().Msg("Can't write to the Websocket: " + err.Error())
	}
}

/*
 * Keep the connection alive
 */
func (s *Session) ping() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.send(&Message{Type: "ping"})
		case <-s.done:
			return
		}
	}
}
