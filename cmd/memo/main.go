package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/k-moto/SkillupPractice6/cmd/memo/commands"
	"github.com/k-moto/SkillupPractice6/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := commands.NewRootCommand(cfg)
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("memo: %v", err)
	}
}
