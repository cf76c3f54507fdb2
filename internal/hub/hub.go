package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// feed 是只读的，客户端只会发送控制帧
	maxMessageSize = 512

	clientSendBuffer = 64
)

// 消息类型
const (
	MessageRegister   = "register"
	MessageUnregister = "unregister"
)

// HubMessage 定义了在 Hub 内部通道传递的消息
type HubMessage struct {
	Type   string
	Client *Client
}

// FeedSubscriber 提供 feed 负载流，返回的函数用于取消订阅
type FeedSubscriber interface {
	Subscribe(ctx context.Context) (<-chan []byte, func() error)
}

// Hub 维护连接到 thought feed 的客户端集合，并把 feed 负载广播给它们
type Hub struct {
	messageChan chan HubMessage

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	subscriber FeedSubscriber
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(subscriber FeedSubscriber) *Hub {
	if subscriber == nil {
		panic("FeedSubscriber cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 256),
		clients:     make(map[*Client]bool),
		subscriber:  subscriber,
	}
}

// Run 启动 Hub 的主事件循环，直到 ctx 被取消。应在单独的 goroutine 中运行。
func (h *Hub) Run(ctx context.Context) {
	log := logrus.WithField("component", "hub")

	feed, unsubscribe := h.subscriber.Subscribe(ctx)
	defer func() {
		if err := unsubscribe(); err != nil {
			log.WithError(err).Warn("Failed to close feed subscription")
		}
		h.closeAll()
		log.Info("Hub stopped")
	}()
	log.Info("Hub is running...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case MessageRegister:
				h.registerClient(msg.Client)
			case MessageUnregister:
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s", msg.Type)
			}
		case payload, ok := <-feed:
			if !ok {
				log.Warn("Feed subscription closed")
				feed = nil
				continue
			}
			h.broadcast(payload)
		}
	}
}

// QueueMessage 把注册或注销请求放入 Hub 通道，通道已满时返回 false
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("type", msg.Type).Warn("Hub message channel full")
		return false
	}
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.clientsMu.Unlock()
	logrus.WithFields(logrus.Fields{"client_id": client.ID(), "clients": total}).Info("Client registered to Hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.clientsMu.Unlock()
	logrus.WithFields(logrus.Fields{"client_id": client.ID(), "clients": total}).Info("Client unregistered from Hub")
}

// broadcast 非阻塞地发送给每个客户端，缓冲区已满的客户端会错过这条消息
func (h *Hub) broadcast(payload []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			logrus.WithField("client_id", client.ID()).Warn("Client send buffer full, skipping feed message")
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}
