package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"navippon/globals"
	"navippon/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inboundPayload is what widget clients send over the socket.
type inboundPayload struct {
	Action  string `json:"action"` // "chat"
	Content string `json:"content,omitempty"`
}

// outboundPayload is what we push back to the room.
type outboundPayload struct {
	Action    string `json:"action"`
	ID        string `json:"id"`
	Room      string `json:"room,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// WebSocketHandler upgrades the connection and joins the caller's room.
// Every user message is answered with a canned reply from the assistant.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room := ps.ByName("room")

		userID := "guest"
		if v, ok := r.Context().Value(globals.UserIDKey).(string); ok && v != "" {
			userID = v
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: userID,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid payload:", err)
			continue
		}
		if in.Action != "chat" || in.Content == "" {
			continue
		}

		now := time.Now().Unix()

		// echo the user's message to the room
		echo := outboundPayload{
			Action:    "chat",
			ID:        utils.GenerateRandomString(16),
			Room:      c.Room,
			SenderID:  c.UserID,
			Content:   in.Content,
			Timestamp: now,
		}
		if data, _ := json.Marshal(echo); data != nil {
			hub.broadcast <- broadcastMsg{Room: c.Room, Data: data}
		}

		// then the assistant's answer
		reply := outboundPayload{
			Action:    "chat",
			ID:        utils.GenerateRandomString(16),
			Room:      c.Room,
			SenderID:  "assistant",
			Content:   MatchReply(in.Content),
			Timestamp: now,
		}
		if data, _ := json.Marshal(reply); data != nil {
			hub.broadcast <- broadcastMsg{Room: c.Room, Data: data}
		}
	}
}

// POST /api/chat/message is the REST fallback for clients without
// websocket support. It returns the assistant's reply directly.
func SendMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sender":    "assistant",
		"content":   MatchReply(req.Content),
		"timestamp": time.Now().Unix(),
	})
}
