package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"guestsnap/models"
	"guestsnap/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const socketWriteWait = 10 * time.Second

// socketMessage is the wire form of a photo event. The photo is reduced to
// its public fields; the DB row carries bucket credentials via its
// associations and must never be marshalled as-is.
type socketMessage struct {
	Type        realtime.EventType `json:"type"`
	WasApproved bool               `json:"was_approved"`
	Photo       PhotoInfo          `json:"photo"`
}

// guestVisible filters the event stream for non-owner viewers: a photo that
// was never approved produces no event at all, but the visible->hidden
// transition and deletes do go out so the viewer can drop the photo.
func guestVisible(e realtime.Event) bool {
	if e.Type == realtime.EventDelete {
		return e.WasApproved
	}
	return e.Photo.Approved || e.WasApproved
}

// ServeAlbumSocket upgrades the connection and pumps the album's photo
// events to it until either side goes away. Owners get the raw stream,
// pending photos included.
func ServeAlbumSocket(c *gin.Context, albumID uint64, ownerView bool) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	sub := hub.Subscribe(albumID)
	defer hub.Unsubscribe(sub)

	// Write cycle
	go func() {
		for e := range sub.C {
			if !ownerView && !guestVisible(e) {
				continue
			}
			data, err := json.Marshal(socketMessage{e.Type, e.WasApproved, photoInfo(&e.Photo)})
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		conn.Close()
	}()

	// Main read cycle
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if string(message) == "ping" {
			conn.WriteMessage(mt, []byte("pong"))
		}
	}
}

// WebSocket is the organizer's live view of one album.
func WebSocket(c *gin.Context, user *models.User) {
	req := AlbumIDRequest{}
	err := c.ShouldBindWith(&req, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !userOwnsAlbum(user.ID, req.AlbumID) {
		c.JSON(http.StatusUnauthorized, Response{"access denied"})
		return
	}
	ServeAlbumSocket(c, req.AlbumID, true)
}
