package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/career-companion/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket聊天处理器
type Handler struct {
	chatSvc  *chatService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// InboundMessage 客户端发送的帧
type InboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutgoingMessage 服务端推送的帧
type OutgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// conn 串行化写操作，gorilla 连接不支持并发写
type conn struct {
	ws        *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *conn) send(msgType string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(OutgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	conv, err := h.chatSvc.Conversation(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer wsConn.Close()

	logger := h.logger.With(zap.String("session_id", sessionID))
	logger.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &conn{ws: wsConn, sessionID: sessionID}

	_ = wsConn.SetReadDeadline(time.Now().Add(readTimeout))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, c)

	if err := c.send("transcript", map[string]any{
		"messages":         conv.Transcript(),
		"pending":          conv.Pending(),
		"suggestedPrompts": conv.SuggestedPrompts(),
	}); err != nil {
		return
	}

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		_ = wsConn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = c.send("error", map[string]string{"message": "invalid payload"})
			continue
		}

		switch msg.Type {
		case "submit":
			h.handleSubmit(ctx, c, conv, msg.Text, logger)
		default:
			_ = c.send("error", map[string]string{"message": "unsupported message type: " + msg.Type})
		}
	}
}

func (h *Handler) handleSubmit(ctx context.Context, c *conn, conv *chatService.Conversation, text string, logger *zap.Logger) {
	turn, err := conv.Submit(ctx, text)
	if err != nil {
		_ = c.send("error", map[string]string{"message": err.Error()})
		return
	}

	if err := c.send("message", turn.User); err != nil {
		return
	}
	if err := c.send("typing", map[string]bool{"pending": true}); err != nil {
		return
	}

	go func() {
		reply, err := turn.Wait(ctx)
		if err != nil {
			if errors.Is(err, chatService.ErrClosed) {
				_ = c.send("error", map[string]string{"message": err.Error()})
			}
			return
		}
		if err := c.send("message", reply); err != nil {
			logger.Debug("websocket write failed", zap.Error(err))
		}
	}()
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
