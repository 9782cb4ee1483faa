package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
	"github.com/zhouzirui/career-companion/backend/internal/model/chat"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
	chatService "github.com/zhouzirui/career-companion/backend/internal/service/chat"
	"github.com/zhouzirui/career-companion/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	table   reply.Table
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, table reply.Table) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		table:   table,
	}
}

// SessionView 会话当前状态，供前端渲染
type SessionView struct {
	Session          chat.Session   `json:"session"`
	Transcript       []chat.Message `json:"transcript"`
	Pending          bool           `json:"pending"`
	SuggestedPrompts []string       `json:"suggestedPrompts,omitempty"`
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/prompts", h.handleListPrompts)
	r.Post("/classify", h.handleClassify)
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleEndSession)
		r.Get("/transcript", h.handleTranscript)
		r.Post("/messages", h.handleSubmit)
	})
}

// handleListPrompts 返回推荐问题
func (h *Handler) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"prompts": h.chatSvc.SuggestedPrompts()})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.chatSvc.CreateSession(r.Context())

	view, err := h.view(r, session.ID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, view)
}

// handleGetSession 查询会话状态
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleEndSession 结束会话并丢弃聊天记录
func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTranscript 返回聊天记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{"transcript": transcript})
}

// handleSubmit 提交用户消息，助手回复稍后追加
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.chatSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]any{
		"message": turn.User,
		"pending": true,
	})
}

// handleClassify 调试接口：返回意图、命中的关键词以及对应回复
func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision := intent.Explain(payload.Text)
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"intent":   decision.Intent.String(),
		"keyword":  decision.Keyword,
		"response": h.table.Resolve(decision.Intent),
	})
}

func (h *Handler) view(r *http.Request, sessionID string) (SessionView, error) {
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		return SessionView{}, err
	}
	conv, err := h.chatSvc.Conversation(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		Session:          session,
		Transcript:       conv.Transcript(),
		Pending:          conv.Pending(),
		SuggestedPrompts: conv.SuggestedPrompts(),
	}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrReplyPending):
		return http.StatusConflict
	case errors.Is(err, chatService.ErrClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
