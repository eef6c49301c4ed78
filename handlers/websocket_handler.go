package handlers

import (
	"log"
	"net/http"

	"github.com/Samat21/unileague/leaderboard"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить Origin доменом фронтенда перед продакшеном.
		return true
	},
}

type WebSocketHandler struct {
	hub *leaderboard.Hub
}

func NewWebSocketHandler(hub *leaderboard.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeLeaderboard подключает клиента к общей ленте событий таблицы.
func (h *WebSocketHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, leaderboard.FeedLeaderboard)
}

// ServeMatch подключает клиента к ленте конкретного матча.
func (h *WebSocketHandler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")
	if matchID == "" {
		http.Error(w, "Missing match id", http.StatusBadRequest)
		return
	}
	h.serve(w, r, "match_"+matchID)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, feed string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправил HTTP-ошибку клиенту.
		log.Printf("failed to upgrade connection for feed %s: %v", feed, err)
		return
	}

	client := &leaderboard.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Feed: feed,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
