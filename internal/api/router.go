package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/handlers"
	"tinyceo-backend/pkg/httputil"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	WorkspaceHandler    *handlers.WorkspaceHandler
	ConversationHandler *handlers.ConversationHandler
	AgentHandler        *handlers.AgentHandler
	Config              *config.Config
	Logger              *zap.Logger
	AIProvider          string // Reported by /health
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	logger := deps.Logger.Named("http")
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	// Generating all six reports through an LLM can take a while.
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status":      "ok",
			"ai_provider": deps.AIProvider,
			"time":        time.Now().UTC().Format(time.RFC3339),
		})
	})

	if deps.AuthHandler == nil {
		panic("AuthHandler dependency is nil in router setup")
	}
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.AuthHandler.HandleRegister)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Group(func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret, logger))

		if deps.AgentHandler != nil {
			r.Get("/agents", deps.AgentHandler.HandleStatus)
		}

		r.Route("/workspaces", func(r chi.Router) {
			if deps.WorkspaceHandler != nil {
				r.Get("/", deps.WorkspaceHandler.HandleListWorkspaces)
				r.Post("/", deps.WorkspaceHandler.HandleCreateWorkspace)
				r.Get("/{workspaceID}", deps.WorkspaceHandler.HandleGetWorkspace)
				r.Put("/{workspaceID}", deps.WorkspaceHandler.HandleUpdateWorkspace)
			} else {
				logger.Warn("WorkspaceHandler dependency is nil, skipping /workspaces routes")
			}

			if deps.ConversationHandler != nil {
				r.Route("/{workspaceID}/conversations", func(r chi.Router) {
					r.Get("/", deps.ConversationHandler.HandleGetMessages)
					r.Post("/message", deps.ConversationHandler.HandleSendMessage)
					r.Get("/maturity", deps.ConversationHandler.HandleGetMaturity)
					r.Get("/analysis", deps.ConversationHandler.HandleGetAnalysis)
				})
			} else {
				logger.Warn("ConversationHandler dependency is nil, skipping conversation routes")
			}

			if deps.AgentHandler != nil {
				r.Route("/{workspaceID}/agents", func(r chi.Router) {
					r.Get("/", deps.AgentHandler.HandleListOutputs)
					r.Post("/generate", deps.AgentHandler.HandleGenerate)
					r.Post("/{agentType}/regenerate", deps.AgentHandler.HandleRegenerate)
					r.Post("/{agentType}/chat", deps.AgentHandler.HandleChat)
					r.Get("/{agentType}/chat", deps.AgentHandler.HandleChatHistory)
				})
			} else {
				logger.Warn("AgentHandler dependency is nil, skipping agent routes")
			}
		})
	})

	return r
}
