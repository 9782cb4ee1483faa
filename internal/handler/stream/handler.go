package stream

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/career-companion/backend/internal/service/chat"
	"github.com/zhouzirui/career-companion/backend/pkg/utils"
)

// Handler manages assistant replies via Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, logger: logger}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   any    `json:"message,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterRoutes registers the SSE endpoint
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream submits ?message= and streams the user message, a typing
// event and finally the assistant reply.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	turn, err := h.chatSvc.Submit(r.Context(), sessionID, userMessage)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	utils.SendSSEEvent(w, flusher, "start", StreamResponse{SessionID: sessionID})
	utils.SendSSEEvent(w, flusher, "message", StreamResponse{SessionID: sessionID, Message: turn.User})
	utils.SendSSEEvent(w, flusher, "typing", StreamResponse{SessionID: sessionID})

	reply, err := turn.Wait(r.Context())
	if err != nil {
		if errors.Is(err, chatService.ErrClosed) {
			utils.SendSSEEvent(w, flusher, "error", StreamResponse{SessionID: sessionID, Error: err.Error()})
		}
		// The reply is still appended to the transcript if the client went away.
		h.logger.Debug("stream ended before reply", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	utils.SendSSEEvent(w, flusher, "message", StreamResponse{SessionID: sessionID, Message: reply})
	utils.SendSSEEvent(w, flusher, "end", StreamResponse{SessionID: sessionID, Finished: true})

	h.logger.Info("stream completed", zap.String("session_id", sessionID), zap.String("intent", reply.Intent))
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
