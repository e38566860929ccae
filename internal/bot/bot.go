package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/k-moto/SkillupPractice6/internal/ai"
	"github.com/k-moto/SkillupPractice6/internal/bot/handlers"
	"github.com/k-moto/SkillupPractice6/internal/config"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(cfg *config.Config, store repository.MemoStore, aiClient *ai.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	opts := handlers.Options{
		AllowedUserID: cfg.AllowedUserID,
		DevMode:       cfg.Debug,
	}
	if aiClient != nil {
		opts.AI = aiClient
	}

	return &Bot{
		api:      api,
		handlers: handlers.New(api, store, opts),
	}, nil
}

// Start receives updates until ctx is done. Updates are handled one at a time
// on this goroutine, so the store only ever sees a single writer.
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	// Handle commands
	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
