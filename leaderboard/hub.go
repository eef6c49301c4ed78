package leaderboard

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FeedLeaderboard — общая комната для подписчиков таблицы и бомбардиров.
const FeedLeaderboard = "leaderboard"

// Типы событий, рассылаемых подписчикам. Событие — это сигнал перечитать
// данные, а не сами данные: пропущенное событие ничего не ломает.
const (
	EventMatchUpdated = "MATCH_UPDATED"
	EventScoreUpdated = "SCORE_UPDATED"
	EventGoalRecorded = "GOAL_RECORDED"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Feed    string      `json:"feed,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Feed     string
	IsClosed bool
	Mu       sync.Mutex
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	feeds      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		feeds:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.feeds[client.Feed]; !ok {
				h.feeds[client.Feed] = make(map[*Client]bool)
			}
			h.feeds[client.Feed][client] = true
			log.Printf("leaderboard: client joined feed %s (%d total)", client.Feed, len(h.feeds[client.Feed]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.feeds[client.Feed]; ok {
				if _, okClient := clients[client]; okClient {
					client.Mu.Lock()
					if !client.IsClosed {
						close(client.Send)
						client.IsClosed = true
					}
					client.Mu.Unlock()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.feeds, client.Feed)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast отправляет событие всем подписчикам комнаты.
func (h *Hub) Broadcast(feed string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.feeds[feed]
	if !ok {
		return
	}

	event.Feed = feed
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("leaderboard: failed to marshal event for feed %s: %v", feed, err)
		return
	}

	for client := range clients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			// Канал клиента полон — подписчик перечитает данные сам.
		}
		client.Mu.Unlock()
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("leaderboard: read error on feed %s: %v", c.Feed, err)
			}
			break
		}
		// Входящие сообщения от подписчиков игнорируются.
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
