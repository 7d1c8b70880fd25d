package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tinyceo-backend/internal/agents"
	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/api"
	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/handlers"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/services"
	"tinyceo-backend/internal/store"
	boltstore "tinyceo-backend/internal/store/bolt"
	"tinyceo-backend/internal/store/memory"
	"tinyceo-backend/internal/store/postgres"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "tinyceo",
	Short: "tinyceo - startup idea analysis backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <messages.json>",
	Short: "Analyze a JSON array of conversation messages and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return runAnalyze(f, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "Optional config file (yaml, json, toml)")
	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.BoltPath != "" {
			bs, err := boltstore.Open(cfg.BoltPath, logger)
			if err != nil {
				return nil, nil, err
			}
			logger.Info("Using bbolt storage", zap.String("path", cfg.BoltPath))
			return bs, func() { _ = bs.Close() }, nil
		}
		logger.Info("Using in-memory storage")
		return memory.NewMemoryStore(), func() {}, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(dbCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	pg := postgres.NewPostgresStore(pool, logger)
	if err := pg.EnsureSchema(dbCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("Using PostgreSQL storage")
	return pg, pool.Close, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", zap.Error(err))
		return err
	}
	defer closeStore()

	llm := ai.NewService(
		ai.NewCompleterFromConfig(cfg.AI, logger),
		ai.NewFallback(nil),
		ai.Options{Temperature: cfg.AI.Temperature, MaxTokens: cfg.AI.MaxTokens, Timeout: cfg.AI.Timeout},
		logger,
	)
	orchestrator := agents.NewOrchestrator(llm, logger)

	router := api.NewRouter(api.RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(services.NewAuthService(st, cfg, logger), logger),
		WorkspaceHandler:    handlers.NewWorkspaceHandler(services.NewWorkspaceService(st, logger), logger),
		ConversationHandler: handlers.NewConversationHandler(services.NewConversationService(st, llm, logger), logger),
		AgentHandler:        handlers.NewAgentHandler(services.NewAgentService(st, orchestrator, logger), logger),
		Config:              cfg,
		Logger:              logger,
		AIProvider:          llm.Provider(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Agent generation runs six LLM calls before answering.
		WriteTimeout: 4 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("port", cfg.HTTPPort), zap.String("ai_provider", llm.Provider()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Could not listen", zap.String("port", cfg.HTTPPort), zap.Error(err))
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("Server shutdown complete")
	return nil
}

type analyzeResult struct {
	Analysis analysis.ConversationAnalysis `json:"analysis"`
	Summary  analysis.Summary              `json:"summary"`
	Maturity analysis.MaturityAssessment   `json:"maturity"`
}

// runAnalyze reads a JSON message array from r and writes the analysis and
// maturity assessment to w as indented JSON.
func runAnalyze(r io.Reader, w io.Writer) error {
	var messages []models.ConversationMessage
	if err := json.NewDecoder(r).Decode(&messages); err != nil {
		return fmt.Errorf("decode messages: %w", err)
	}

	a, err := analysis.Analyze(messages)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analyzeResult{
		Analysis: a,
		Summary:  analysis.Summarize(a),
		Maturity: analysis.AssessMaturity(messages),
	})
}
