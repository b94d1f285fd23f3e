package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/sse"
)

// heartbeatInterval SSE保活间隔
const heartbeatInterval = 30 * time.Second

// SSEHandler 实时事件流接口
type SSEHandler struct {
	hub *sse.Hub
}

// NewSSEHandler 创建SSE接口
func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream GET /api/v1/events
// 车间看板长连接，按token里的门店订阅本店工单事件
func (h *SSEHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	client := &sse.Client{
		ID:       uuid.New().String(),
		UserID:   GetUserID(c),
		GarageID: GetGarageID(c),
		Events:   make(chan sse.Event, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client.ID)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(event.EventType, event.Data)
			return true
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
