package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/pkg/response"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	wsLog := logger.With("ws")
	wsLog.Warn().Str("origin", origin).Msg("Rejected websocket origin")
	return false
}

type NotificationHandler struct {
	hub *notify.Hub
}

func NewNotificationHandler(hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// List godoc
// @Summary Recent notifications
// @Description Toasts raised for the current session, oldest first.
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} notify.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token expired", Code: response.CodeSessionExpired})
		return
	}
	c.JSON(http.StatusOK, h.hub.Recent(claims.SessionID))
}

// Stream godoc
// @Summary Live notifications
// @Description Websocket pushing every new toast of the session as a JSON object. List data is never pushed.
// @Tags notifications
// @Security BearerAuth
// @Router /ws/notifications [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token expired", Code: response.CodeSessionExpired})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the client.
		wsLog := logger.With("ws")
		wsLog.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := logger.With("ws").With().Str("session_id", claims.SessionID).Logger()
	updates, unsubscribe := h.hub.Subscribe(claims.SessionID)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Reader: only keeps the deadline moving and notices the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Debug().Err(err).Msg("Websocket closed")
				}
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case n, ok := <-updates:
			if !ok {
				// Session was logged out.
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(n); err != nil {
				return
			}

		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
