package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordlebot/internal/config"
	"github.com/example/wordlebot/internal/submission"
	"github.com/example/wordlebot/pkg/models"
)

// sender is the part of the Telegram API the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// submitter runs the result pipeline
type submitter interface {
	Submit(ctx context.Context, sub submission.Submission) (submission.Outcome, error)
}

// resultReader serves /stats and /export
type resultReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.PuzzleResult, error)
	ListAll(ctx context.Context) ([]models.PuzzleResult, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	submissions submitter
	results     resultReader
	telegram    config.TelegramConfig
	config      *BotConfig
	logger      *zap.Logger
}

// New authorizes against the Telegram API and creates a bot instance
func New(cfg config.TelegramConfig, submissions submitter, results resultReader, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	b := newBot(api, cfg, submissions, results, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, cfg config.TelegramConfig, submissions submitter, results resultReader, logger *zap.Logger) *Bot {
	return &Bot{
		sender:      s,
		submissions: submissions,
		results:     results,
		telegram:    cfg,
		config:      DefaultConfig(),
		logger:      logger,
	}
}

// Start receives updates until ctx is cancelled. Each update is handled in
// its own goroutine; Start returns only after all of them have finished.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot is not connected to Telegram")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	defer b.api.StopReceivingUpdates()

	return b.dispatch(ctx, updates)
}

func (b *Bot) dispatch(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.HandleTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic while handling update", zap.Any("panic", r), zap.Int("update_id", update.UpdateID))
		}
	}()

	var err error
	if update.Message.IsCommand() {
		err = b.HandleCommand(ctx, update.Message)
	} else {
		err = b.handleText(ctx, update.Message)
	}
	if err != nil {
		b.logger.Error("Failed to handle message",
			zap.Int64("user_id", update.Message.From.ID),
			zap.Error(err))
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(userID string, gameNumber uint) error {
	// In private chats the chat ID equals the user ID
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram user ID %q: %w", userID, err)
	}

	msg := tgbotapi.NewMessage(chatID, reminderText(gameNumber))
	return b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	_, err := b.sender.Send(c)
	return err
}
