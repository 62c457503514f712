// Package bot runs the Telegram front end: it hands players the game URL
// when they tap the game, carrying their identity as query parameters for the
// web client to pass along to the API.
package bot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the subset of the Telegram API the bot uses, split out so
// handlers can be tested without a live connection.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers game callback queries and serves the /start and /play
// commands.
type Bot struct {
	api       *tgbotapi.BotAPI
	sender    Sender
	logger    *log.Logger
	gameURL   string
	shortName string
}

func New(token, gameURL, shortName string, logger *log.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if gameURL == "" || shortName == "" {
		return nil, fmt.Errorf("game_url and game_short_name are required")
	}
	if _, err := url.Parse(gameURL); err != nil {
		return nil, fmt.Errorf("invalid game_url: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	return &Bot{
		api:       api,
		sender:    api,
		logger:    logger.WithPrefix("bot"),
		gameURL:   gameURL,
		shortName: shortName,
	}, nil
}

// Run long-polls updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	}
}

// handleCallback answers a game launch tap with the per-player game URL.
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.GameShortName != b.shortName {
		return
	}
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		b.logger.Warn("callback query missing identity fields")
		b.answerWithAlert(query.ID, "Sorry, an error occurred while loading the game.")
		return
	}

	target, err := GameLaunchURL(b.gameURL, query.From.ID, query.From.UserName, query.Message.Chat.ID, query.Message.MessageID)
	if err != nil {
		b.logger.Error("building game url failed", "error", err)
		b.answerWithAlert(query.ID, "Sorry, an error occurred while loading the game.")
		return
	}

	if _, err := b.sender.Request(tgbotapi.CallbackConfig{
		CallbackQueryID: query.ID,
		URL:             target,
	}); err != nil {
		b.logger.Error("answering callback query failed", "error", err)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "play":
		game := tgbotapi.GameConfig{
			BaseChat:      tgbotapi.BaseChat{ChatID: msg.Chat.ID},
			GameShortName: b.shortName,
		}
		if _, err := b.sender.Send(game); err != nil {
			b.logger.Error("sending game failed", "error", err)
		}
	}
}

func (b *Bot) answerWithAlert(queryID, text string) {
	if _, err := b.sender.Request(tgbotapi.CallbackConfig{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       true,
	}); err != nil {
		b.logger.Error("sending error notification failed", "error", err)
	}
}

// GameLaunchURL appends the player's identity to the configured game URL.
// The web client forwards user_id and username to the game API; chat_id and
// message_id let it report back into the originating chat.
func GameLaunchURL(base string, userID int64, username string, chatID int64, messageID int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if username == "" {
		username = "Player"
	}

	q := u.Query()
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("username", username)
	q.Set("chat_id", strconv.FormatInt(chatID, 10))
	q.Set("message_id", strconv.Itoa(messageID))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
