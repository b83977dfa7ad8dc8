package server

import (
	"net/http"
	"time"

	"amber-server/internal/engine"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"
	"amber-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService. Одно соединение - один энкаунтер.
type Client struct {
	Game      *engine.GameService
	Conn      *websocket.Conn
	Send      chan api.ServerResponse
	SessionID string

	// Свои канал хаба и энкаунтер: по ним клиент убирает за собой,
	// не задевая сессию, занятую переподключением с тем же токеном.
	updates  chan api.ServerResponse
	instance *engine.Instance
	// закрывается, когда writePump вышел
	done chan struct{}
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		done: make(chan struct{}),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		switch {
		case c.updates != nil:
			if c.instance != nil {
				c.Game.CloseSessionIf(c.instance)
			}
			c.Game.Hub.Release(c.SessionID, c.updates)
			logger.Log.WithField("session", c.SessionID).Info("Client disconnected")
		default:
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// 1. HANDSHAKE: первое сообщение несёт токен сессии (может быть пустым)
	var hello api.ClientCommand
	if err := c.Conn.ReadJSON(&hello); err != nil {
		logger.Log.WithError(err).Warn("Handshake failed")
		return
	}
	c.SessionID = hello.Token
	if c.SessionID == "" {
		c.SessionID = utils.GenerateID()
	}

	// 2. ПОДПИСКА до старта энкаунтера, чтобы не пропустить INIT
	// Прежнее соединение с этим токеном теряет сессию до подписки нового,
	// чтобы его снимки не попали в чужой канал
	c.Game.CloseSession(c.SessionID)
	c.updates = c.Game.Hub.Register(c.SessionID)
	go c.forward(c.updates)

	c.instance = c.Game.CreateSession(c.SessionID)
	logger.Log.WithFields(logrus.Fields{
		"session": c.SessionID,
		"seed":    c.instance.Seed,
	}).Info("Client logged in")

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("WS error")
			}
			return
		}
		cmd.Token = c.SessionID
		if err := c.Game.ProcessCommand(cmd); err != nil {
			logger.Log.WithError(err).WithField("session", c.SessionID).Debug("Command dropped")
		}
	}
}

// forward перекладывает снимки из хаба в Send, пока жив writePump.
func (c *Client) forward(updates <-chan api.ServerResponse) {
	defer close(c.Send)
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			return
		}
	}
}

// writePump отправляет снимки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
