package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/api"
	apicontrollers "github.com/skchalotra/skgpt/internal/api/controllers"
	"github.com/skchalotra/skgpt/internal/cli"
	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/events"
	"github.com/skchalotra/skgpt/internal/domain/services"
	"github.com/skchalotra/skgpt/internal/impl/config"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
	"github.com/skchalotra/skgpt/internal/impl/integrations"
	repositoriesMemory "github.com/skchalotra/skgpt/internal/impl/repositories/memory"
	"github.com/skchalotra/skgpt/internal/impl/tools"
)

var (
	version = "unknown" // This should be set during build with -ldflags="-X main.version=1.0.0"
)

// @title mr.sk GPT API
// @version 1.0
// @description Chat endpoint backed by a tool-calling completion loop.
// @BasePath /
func main() {
	// Check version flag first
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version)
		os.Exit(0)
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: skgpt [serve] [--port=3001]\n")
		flag.PrintDefaults()
	}

	port := flag.String("port", "", "HTTP port for serve mode (overrides PORT)")

	// Default mode is "console"
	modeStr := "console"
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		modeStr = "serve"
		os.Args = slices.Delete(os.Args, 1, 2)
	}

	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	settings, err := config.LoadSettings(cfg.SettingsPath, logger)
	if err != nil {
		logger.Fatal("Failed to load settings", zap.Error(err))
	}

	agent := defaults.ConsoleAgent()
	section := settings.Console
	if modeStr == "serve" {
		agent = defaults.ServerAgent()
		section = settings.Server
	}
	settings.Apply(agent, section)
	if cfg.Model != "" {
		agent.Model = cfg.Model
	}

	aiModel, err := integrations.NewGroqIntegration(cfg.GroqBaseURL, cfg.GroqAPIKey, agent.Model, logger)
	if err != nil {
		logger.Fatal("Failed to initialize completion client", zap.Error(err))
	}
	search, err := integrations.NewTavilyIntegration(cfg.TavilyBaseURL, cfg.TavilyAPIKey, logger)
	if err != nil {
		logger.Fatal("Failed to initialize search client", zap.Error(err))
	}

	toolFactory, err := tools.NewToolFactory(search)
	if err != nil {
		logger.Fatal("Failed to initialize tool factory", zap.Error(err))
	}
	agentTools, err := toolFactory.BuildTools(agent.Tools, logger)
	if err != nil {
		logger.Fatal("Failed to build tools", zap.Error(err))
	}
	toolService, err := services.NewToolService(agentTools, logger)
	if err != nil {
		logger.Fatal("Failed to register tools", zap.Error(err))
	}

	stopToolLog := events.LogToolCalls(logger)
	defer stopToolLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if modeStr == "serve" {
		if err := serve(ctx, cfg, agent, aiModel, toolService, logger); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
		return
	}

	chatService := services.NewChatService(agent, aiModel, toolService, nil, logger)
	cliApp := cli.NewCLI(chatService, os.Stdin, os.Stdout, logger)
	if err := cliApp.Run(ctx); err != nil {
		logger.Fatal("CLI failed", zap.Error(err))
	}
}

func serve(ctx context.Context, cfg *config.Config, agent *entities.Agent, aiModel *integrations.GroqIntegration, toolService services.ToolService, logger *zap.Logger) error {
	conversationRepo := repositoriesMemory.NewMemoryConversationRepository(cfg.ConversationTTL, time.Minute, agent.SystemMessage, logger)
	defer conversationRepo.Close()

	chatService := services.NewChatService(agent, aiModel, toolService, conversationRepo, logger)
	chatController := apicontrollers.NewChatController(logger, chatService)
	e := api.NewRouter(logger, chatController)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", cfg.Address()))
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Printf("Server is running on port: %s\n", cfg.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
