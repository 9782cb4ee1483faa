package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/career-companion/backend/internal/model/profile"
	"github.com/zhouzirui/career-companion/backend/pkg/utils"
)

// Handler 学生档案的HTTP处理器
type Handler struct {
	store  profile.Store
	logger *zap.Logger
}

// New 创建档案处理器
func New(store profile.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes 注册档案相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleLoad)
	r.Put("/profile", h.handleSave)
	r.Get("/profile/options", h.handleOptions)
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Load(r.Context())
	if errors.Is(err, profile.ErrProfileNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("load profile failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload profile.Profile
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := payload.Normalize()
	if err := p.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Save(r.Context(), p); err != nil {
		h.logger.Error("save profile failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// handleOptions 返回向导中的可选项
func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"branches":  profile.Branches(),
		"years":     profile.Years(),
		"interests": profile.Interests(),
	})
}
