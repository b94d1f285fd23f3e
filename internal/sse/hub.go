package sse

import (
	"fmt"
	"sync"
)

// Event 一条SSE事件
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client 一个已连接的SSE客户端（车间看板、前台页面）
type Client struct {
	ID       string
	UserID   string
	GarageID string
	Events   chan Event
}

// Hub 管理SSE客户端连接，显式构造注入，不做进程级单例
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub 创建Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister 注销客户端
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
	}
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToGarage 向某门店的全部客户端推送事件，缓冲满则丢弃
func (h *Hub) BroadcastToGarage(garageID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.GarageID != garageID {
			continue
		}
		select {
		case client.Events <- event:
		default:
		}
	}
}

// PublishJobCardUpdate 推送工单变更事件（创建/状态/进度/配件）
func (h *Hub) PublishJobCardUpdate(garageID, jobCardID, action string) {
	data := fmt.Sprintf(`{"job_card_id":"%s","action":"%s"}`, jobCardID, action)
	h.BroadcastToGarage(garageID, Event{
		EventType: "job_card_update",
		Data:      data,
	})
}
