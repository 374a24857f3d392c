package notification

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/telegram"
	"github.com/pkg/errors"
)

// Manager fans change notifications out to every configured service.
// Delivery failures are logged and never returned to the caller.
type Manager struct {
	n *notify.Notify
}

func NewManager(services ...notify.Notifier) *Manager {
	return &Manager{
		n: notify.NewWithServices(services...),
	}
}

func (m *Manager) Notify(ctx context.Context, subject, message string) {
	if err := m.n.Send(ctx, subject, message); err != nil {
		log.Printf("Error notifying %q: %s\n", subject, err.Error())
	}
}

// Console writes notifications to a logger.
type Console struct {
	logger *log.Logger
}

func NewConsole(logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Default()
	}
	return &Console{logger: logger}
}

func (c *Console) Send(_ context.Context, subject, message string) error {
	c.logger.Printf("%s: %s\n", subject, message)
	return nil
}

// NewTelegram connects a bot with token and sends to every chat in chatIDs.
func NewTelegram(token string, chatIDs ...int64) (*telegram.Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "creating telegram bot")
	}
	log.Printf("Authorized on telegram account %s\n", bot.Self.UserName)

	tg := &telegram.Telegram{}
	tg.SetClient(bot)
	tg.AddReceivers(chatIDs...)
	return tg, nil
}
