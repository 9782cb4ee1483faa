package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zhouzirui/career-companion/backend/internal/handler/chat"
	"github.com/zhouzirui/career-companion/backend/internal/handler/profile"
	"github.com/zhouzirui/career-companion/backend/internal/handler/stream"
	"github.com/zhouzirui/career-companion/backend/internal/handler/ws"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
	profileModel "github.com/zhouzirui/career-companion/backend/internal/model/profile"
	chatService "github.com/zhouzirui/career-companion/backend/internal/service/chat"
	"github.com/zhouzirui/career-companion/backend/pkg/utils"
)

// Deps groups what the router needs.
type Deps struct {
	Chat           *chatService.Service
	Replies        reply.Table
	Profiles       profileModel.Store
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(logger.Named("http")),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	chatHandler := chat.New(deps.Chat, deps.Replies)
	streamHandler := stream.New(deps.Chat, logger)
	wsHandler := ws.New(deps.Chat, logger)
	profileHandler := profile.New(deps.Profiles, logger)

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
		profileHandler.RegisterRoutes(api)
	})

	return r
}
