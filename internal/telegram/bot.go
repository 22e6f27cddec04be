// Package telegram is an optional second front-end for the chat agent:
// Telegram accounts bound to a task-manager user talk to the exact same
// chat service as the web client. Each Telegram chat maps onto one
// persisted conversation.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-chatter/internal/chat"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	chatSvc  *chat.Service
	bindings map[int64]int64 // telegram user id -> task-manager user id

	mu            sync.Mutex
	conversations map[int64]string // telegram chat id -> conversation id
}

func New(botToken string, chatSvc *chat.Service, bindings map[int64]int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:           api,
		chatSvc:       chatSvc,
		bindings:      bindings,
		conversations: make(map[int64]string),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram gateway started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID, bound := b.bindings[msg.From.ID]
	if !bound {
		log.Printf("Unbound telegram account %d (@%s)", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "This Telegram account is not linked to a task-chatter user.")
		return
	}
	if msg.Text == "" {
		return
	}

	log.Printf("Incoming telegram message from user %d: %q", userID, msg.Text)

	turn, err := b.chatSvc.HandleTurn(ctx, userID, b.conversationFor(msg.Chat.ID), msg.Text)
	if err != nil {
		if errors.Is(err, chat.ErrRateLimited) {
			b.sendMessage(msg.Chat.ID,
				fmt.Sprintf("Slow down a little — at most %d messages per minute.", b.chatSvc.RateLimit()))
			return
		}
		log.Printf("❌ telegram turn for user %d: %v", userID, err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	b.rememberConversation(msg.Chat.ID, turn.ConversationID)
	b.sendMessage(msg.Chat.ID, turn.Response)
}

func (b *Bot) conversationFor(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) rememberConversation(chatID int64, conversationID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = conversationID
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send telegram message: %v", err)
	}
}
