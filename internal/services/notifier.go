package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// Notifier 向学生会频道推送新议题、新评论
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }

// TelegramNotifier posts to a single council chat.
type TelegramNotifier struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, tu.Message(tu.ID(n.chatID), text))
	return err
}

const notifyTimeout = 10 * time.Second

// notifyAsync 异步发送通知，失败只记日志
func notifyAsync(n Notifier, text string) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, text); err != nil {
			log.WithError(err).Warn("Failed to send notification")
		}
	}()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
