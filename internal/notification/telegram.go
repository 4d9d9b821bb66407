package notification

import (
	"context"
	"fmt"

	"bikecare/internal/domain/models"
	"bikecare/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram pushes booking events to an ops chat. With no bot token it stays
// disabled and every call is a no-op, so callers never need to branch.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects the bot. An empty token yields a disabled notifier
// rather than an error; notifications are optional.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return &Telegram{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Enabled reports whether messages will actually be sent.
func (t *Telegram) Enabled() bool {
	return t != nil && t.bot != nil
}

// BookingPaid announces a verified payment. Failures are logged and dropped;
// a missed notification must never fail the payment flow.
func (t *Telegram) BookingPaid(_ context.Context, b models.Booking, amount int64) {
	if !t.Enabled() {
		return
	}
	text := fmt.Sprintf(
		"Payment received\nBooking #%d\nService: %s\nDate: %s %s\nAmount: %s",
		b.ID, b.ServiceType, b.AppointmentDate, b.TimeSlot, utils.FormatRupees(amount),
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		utils.LogEvent("", "notification", "booking_paid", "telegram send failed: "+err.Error())
	}
}
