package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordlebot/internal/excel"
	"github.com/example/wordlebot/internal/submission"
	"github.com/example/wordlebot/internal/wordle"
)

const (
	startText = "Hi! Send me your Wordle share text and I'll record your result.\n\n" +
		"Paste the message exactly as the game shares it, for example:\n" +
		"Wordle 1,234 3/6\n" +
		"⬜🟨⬜⬜⬜\n🟩🟩🟩🟩🟩\n\n" +
		"Use /help to see all commands."

	helpText = "Here are some things you can try:\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/about - Learn about this bot\n" +
		"/stats - Show your Wordle statistics\n" +
		"Or just paste your Wordle result!"

	aboutText = "I keep track of the Wordle results you share with me. " +
		"Only your first result for each puzzle counts."

	unknownCommandText = "Unknown command. Use /help to see what I can do."
	adminOnlyText      = "This command is only available for administrators."
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start":
		err = b.reply(message, startText)
	case "help":
		err = b.reply(message, helpText)
	case "about":
		err = b.reply(message, aboutText)
	case "stats":
		err = b.handleStats(ctx, message)
	case "export":
		err = b.handleExport(ctx, message)
	default:
		err = b.reply(message, unknownCommandText)
	}
	return err
}

// handleText runs a plain text message through the result pipeline
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	// Commands the Telegram client did not mark as such still stay out of the pipeline
	if strings.HasPrefix(message.Text, "/") {
		return nil
	}

	out, err := b.submissions.Submit(ctx, submission.Submission{
		UserID:    strconv.FormatInt(message.From.ID, 10),
		Username:  message.From.UserName,
		FirstName: message.From.FirstName,
		LastName:  message.From.LastName,
		Text:      message.Text,
	})
	if err != nil {
		b.logger.Error("Submission failed",
			zap.Int64("user_id", message.From.ID),
			zap.String("submission_id", out.ID),
			zap.Error(err))
	}

	text, ok := outcomeReply(out)
	if !ok {
		return nil
	}
	return b.reply(message, text)
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	results, err := b.results.ListByUser(ctx, strconv.FormatInt(message.From.ID, 10))
	if err != nil {
		b.logger.Error("Failed to load stats", zap.Int64("user_id", message.From.ID), zap.Error(err))
		return errors.Join(err, b.reply(message, storeFailedText))
	}

	if len(results) == 0 {
		return b.reply(message, "You haven't shared any Wordle results yet. Paste one to get started!")
	}

	return b.reply(message, statsText(wordle.Summarize(results)))
}

func (b *Bot) handleExport(ctx context.Context, message *tgbotapi.Message) error {
	if !b.telegram.IsAdmin(message.From.ID) {
		return b.reply(message, adminOnlyText)
	}

	results, err := b.results.ListAll(ctx)
	if err != nil {
		return errors.Join(err, b.reply(message, storeFailedText))
	}

	var buf bytes.Buffer
	if err := excel.WriteResults(&buf, results); err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("wordle-results-%s.xlsx", time.Now().UTC().Format(wordle.DateLayout)),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("%d results", len(results))
	return b.send(doc)
}

func (b *Bot) reply(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	return b.send(msg)
}
