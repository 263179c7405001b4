package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/events"
)

// Sender is the slice of the Telegram API the notifier uses. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// TelegramNotifier pushes booking updates to parties who linked a Telegram
// chat to their profile. Users without a linked chat are silently skipped.
type TelegramNotifier struct {
	sender Sender
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewTelegramNotifier(sender Sender, repo domain.Repository, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, repo: repo, logger: logger}
}

// NotifyUser sends text to the user's linked chat, if any.
func (n *TelegramNotifier) NotifyUser(ctx context.Context, userID string, text string) {
	user, err := n.repo.GetUser(ctx, userID)
	if err != nil {
		n.logger.Debug().Err(err).Str("user_id", userID).Msg("notify: user lookup failed")
		return
	}
	if user.TelegramChatID == 0 {
		return
	}

	if _, err := n.sender.Send(tgbotapi.NewMessage(user.TelegramChatID, text)); err != nil {
		n.logger.Error().Err(err).Str("user_id", userID).Msg("notify: telegram send failed")
	}
}

// SubscribeAll wires the notifier to every booking event on the bus. The
// counterparty of the actor gets the message; on creation that is always
// the worker.
func (n *TelegramNotifier) SubscribeAll(bus *events.EventBus) {
	types := []string{
		events.EventBookingCreated,
		events.EventOfferSubmitted,
		events.EventBookingAccepted,
		events.EventBookingCancelled,
		events.EventBookingConfirmed,
		events.EventBookingStarted,
		events.EventBookingCompleted,
	}
	for _, eventType := range types {
		eventType := eventType
		bus.Subscribe(eventType, func(event *events.Event) error {
			n.handleEvent(eventType, event)
			return nil
		})
	}
}

func (n *TelegramNotifier) handleEvent(eventType string, event *events.Event) {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", eventType).Msg("notify: decode payload")
		return
	}

	recipient := payload.WorkerID
	if payload.ActorID == payload.WorkerID {
		recipient = payload.CustomerID
	}
	if recipient == "" || recipient == payload.ActorID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n.NotifyUser(ctx, recipient, messageFor(eventType, payload))
}

func messageFor(eventType string, p events.BookingEventPayload) string {
	switch eventType {
	case events.EventBookingCreated:
		return fmt.Sprintf("New booking request %s for service %s.", p.BookingID, p.ServiceID)
	case events.EventOfferSubmitted:
		if p.ProposedPrice != nil {
			return fmt.Sprintf("New offer of ₹%.0f on booking %s.", *p.ProposedPrice, p.BookingID)
		}
		return fmt.Sprintf("New message on booking %s.", p.BookingID)
	case events.EventBookingAccepted:
		return fmt.Sprintf("Booking %s was accepted.", p.BookingID)
	case events.EventBookingCancelled:
		return fmt.Sprintf("Booking %s was cancelled.", p.BookingID)
	case events.EventBookingConfirmed:
		return fmt.Sprintf("Booking %s is confirmed.", p.BookingID)
	case events.EventBookingStarted:
		return fmt.Sprintf("Work on booking %s has started.", p.BookingID)
	case events.EventBookingCompleted:
		return fmt.Sprintf("Booking %s is completed.", p.BookingID)
	default:
		return fmt.Sprintf("Update on booking %s.", p.BookingID)
	}
}

// Run listens for incoming messages and links chats to profiles. Users link
// by sending "/start <profile-id>" to the bot. Blocks until ctx is done.
func (n *TelegramNotifier) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := n.sender.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			n.handleMessage(ctx, update.Message)
		}
	}
}

func (n *TelegramNotifier) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/start") {
		return
	}

	userID := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
	if userID == "" {
		n.reply(msg.Chat.ID, "Send /start <profile-id> to link your profile.")
		return
	}

	if err := n.repo.SetTelegramChatID(ctx, userID, msg.Chat.ID); err != nil {
		n.logger.Warn().Err(err).Str("user_id", userID).Msg("notify: link chat failed")
		n.reply(msg.Chat.ID, "Could not link that profile. Check the id and try again.")
		return
	}
	n.reply(msg.Chat.ID, "Profile linked. You will get booking updates here.")
}

func (n *TelegramNotifier) reply(chatID int64, text string) {
	if _, err := n.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("notify: telegram reply failed")
	}
}
