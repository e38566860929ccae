package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/k-moto/SkillupPractice6/internal/ai"
	"github.com/k-moto/SkillupPractice6/internal/bot"
	"github.com/k-moto/SkillupPractice6/internal/config"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the memo store and run migrations
	store, closer, err := repository.Open(ctx, cfg.DatabaseURI, cfg.MemoDBPath)
	if err != nil {
		log.Fatalf("Failed to open memo store: %v", err)
	}
	defer closer.Close()
	log.Println("Memo store ready")

	// Initialize AI client (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, plain messages are saved as memos")
	}

	b, err := bot.New(cfg, store, aiClient)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
