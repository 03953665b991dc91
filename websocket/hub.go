package websocket

import (
	"log"
	"sync"

	"github.com/anjiri1684/medicall/models"
	"github.com/google/uuid"
)

// Conn is the slice of the websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one open chat connection, scoped to a single booking's room.
type Client struct {
	UserID    uuid.UUID
	BookingID uuid.UUID
	Conn      Conn

	writeMu sync.Mutex
}

// WriteJSON sends one frame to the client. The hub and the client's reader
// goroutine both write to the same connection, which forbids concurrent
// writers, so every frame goes through this mutex.
func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

var rooms = make(map[uuid.UUID]map[Conn]*Client)
var roomsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.ChatMessage)

// RunHub fans every posted message out to everyone joined to the message's
// booking room. Delivery is best effort: an absent participant simply
// misses the live event and re-fetches history on reconnect.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Chat client joined booking %s: %s", client.BookingID, client.UserID)
			roomsMu.Lock()
			room, ok := rooms[client.BookingID]
			if !ok {
				room = make(map[Conn]*Client)
				rooms[client.BookingID] = room
			}
			room[client.Conn] = client
			roomsMu.Unlock()

		case client := <-Unregister:
			log.Printf("Chat client left booking %s: %s", client.BookingID, client.UserID)
			roomsMu.Lock()
			if room, ok := rooms[client.BookingID]; ok {
				delete(room, client.Conn)
				if len(room) == 0 {
					delete(rooms, client.BookingID)
				}
			}
			roomsMu.Unlock()

		case message := <-Broadcast:
			roomsMu.RLock()
			room := rooms[message.BookingID]
			var failed []*Client
			for _, client := range room {
				if err := client.WriteJSON(message); err != nil {
					log.Printf("Error sending chat message to client %s: %v", client.UserID, err)
					client.Conn.Close()
					failed = append(failed, client)
				}
			}
			roomsMu.RUnlock()

			if len(failed) > 0 {
				roomsMu.Lock()
				for _, client := range failed {
					if room, ok := rooms[client.BookingID]; ok {
						delete(room, client.Conn)
						if len(room) == 0 {
							delete(rooms, client.BookingID)
						}
					}
				}
				roomsMu.Unlock()
			}
		}
	}
}
