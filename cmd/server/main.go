// Command server starts the Claude Code bridge: an OpenAI-compatible HTTP API
// served by the locally installed Claude Code CLI.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ccbridge/claude-code-bridge/internal/api"
	"github.com/ccbridge/claude-code-bridge/internal/api/handlers"
	"github.com/ccbridge/claude-code-bridge/internal/config"
	"github.com/ccbridge/claude-code-bridge/internal/logging"
	"github.com/ccbridge/claude-code-bridge/internal/runner"
	"github.com/ccbridge/claude-code-bridge/internal/session"
	"github.com/ccbridge/claude-code-bridge/internal/watcher"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Configure File Path")
	flag.Parse()

	logging.SetupBaseLogger()

	if configPath == "" {
		wd, errGetwd := os.Getwd()
		if errGetwd != nil {
			log.Fatalf("failed to get working directory: %v", errGetwd)
		}
		configPath = path.Join(wd, "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.SetDebugLevel(cfg.Debug)
	if errLogOutput := logging.ConfigureLogOutput(cfg.LoggingToFile); errLogOutput != nil {
		log.Fatalf("failed to configure log output: %v", errLogOutput)
	}

	// Session store is optional; without it every request starts a fresh CLI
	// conversation.
	var sessions *session.Store
	if cfg.SessionDB != "" {
		sessions, err = session.Open(cfg.SessionDB)
		if err != nil {
			log.Fatalf("failed to open session store: %v", err)
		}
		defer func() {
			_ = sessions.Close()
		}()
	}

	claudeRunner := runner.NewClaudeRunner(cfg)
	base := handlers.NewBaseAPIHandler(claudeRunner, sessions, cfg)
	apiServer := api.NewServer(cfg, base)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configWatcher, errNewWatcher := watcher.NewWatcher(configPath, func(newCfg *config.Config) {
		claudeRunner.UpdateConfig(newCfg)
		apiServer.UpdateConfig(newCfg)
	})
	if errNewWatcher != nil {
		log.Fatalf("failed to create config watcher: %v", errNewWatcher)
	}
	if errWatch := configWatcher.Start(ctx); errWatch != nil {
		log.Fatalf("failed to start config watcher: %v", errWatch)
	}
	defer func() {
		_ = configWatcher.Stop()
	}()

	go func() {
		log.Infof("Starting API server on port %d", cfg.Port)
		if errStart := apiServer.Start(); errStart != nil {
			log.Fatalf("API server failed to start: %v", errStart)
		}
	}()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if errStop := apiServer.Stop(shutdownCtx); errStop != nil {
		log.Errorf("failed to stop API server: %v", errStop)
	}
}
