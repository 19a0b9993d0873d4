// Package telegram adapts Telegram updates onto the command service and
// renders its replies back through the Bot API. Both the long-poll and the
// webhook binaries share this dispatcher.
package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hydrofit-bot/internal/bot"
)

// Dispatcher routes one Update at a time into the service.
type Dispatcher struct {
	api *tgbotapi.BotAPI
	svc *bot.Service
}

func NewDispatcher(api *tgbotapi.BotAPI, svc *bot.Service) *Dispatcher {
	return &Dispatcher{api: api, svc: svc}
}

// HandleUpdate processes a single update. Send failures are logged, not
// returned: there is nobody upstream who could retry them meaningfully.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		log.Printf("[telegram] message from %d: %q", msg.From.ID, msg.Text)
		replies := d.svc.HandleMessage(ctx, msg.From.ID, msg.From.FirstName, msg.Text)
		d.send(msg.Chat.ID, replies)

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		log.Printf("[telegram] callback from %d: %q", cb.From.ID, cb.Data)

		// Ack so the client stops showing the spinner.
		if _, err := d.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("[telegram] ack callback: %v", err)
		}
		if cb.Message != nil {
			// Buttons are single-use: clear the keyboard on the prompt.
			edit := tgbotapi.NewEditMessageReplyMarkup(
				cb.Message.Chat.ID, cb.Message.MessageID,
				tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
			if _, err := d.api.Request(edit); err != nil {
				log.Printf("[telegram] clear keyboard: %v", err)
			}
			replies := d.svc.HandleCallback(ctx, cb.From.ID, cb.Data)
			d.send(cb.Message.Chat.ID, replies)
		}
	}
}

func (d *Dispatcher) send(chatID int64, replies []bot.Reply) {
	for _, r := range replies {
		var msg tgbotapi.Chattable
		if r.Photo != nil {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: r.PhotoName, Bytes: r.Photo})
			photo.Caption = r.Text
			msg = photo
		} else {
			text := tgbotapi.NewMessage(chatID, r.Text)
			if len(r.Buttons) > 0 {
				text.ReplyMarkup = inlineKeyboard(r.Buttons)
			} else if r.ShowMenu {
				text.ReplyMarkup = menuKeyboard()
			}
			msg = text
		}
		if _, err := d.api.Send(msg); err != nil {
			log.Printf("[telegram] send to %d: %v", chatID, err)
		}
	}
}

func inlineKeyboard(rows [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, b := range row {
			buttons[j] = tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data)
		}
		out[i] = buttons
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📈 Progress"),
			tgbotapi.NewKeyboardButton("📊 Stats"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
