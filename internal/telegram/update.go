package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guttosm/giga-bot/internal/bot"
)

// FromTelegram converts a Bot API update. It reports false for updates the bot does not
// react to, such as edits, joins and messages without text.
func FromTelegram(u tgbotapi.Update) (bot.Update, bool) {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		out := bot.Update{
			ID:       u.UpdateID,
			Callback: &bot.Callback{ID: q.ID, Data: q.Data},
		}
		if q.From != nil {
			out.LanguageCode = q.From.LanguageCode
		}
		if q.Message != nil {
			out.Callback.MessageID = q.Message.MessageID
			out.Chat = chat(q.Message.Chat)
		} else if q.From != nil {
			out.Chat = bot.Chat{ID: q.From.ID, Type: "private"}
		}
		return out, out.Chat.ID != 0

	case u.Message != nil && u.Message.Text != "":
		m := u.Message
		out := bot.Update{
			ID:   u.UpdateID,
			Chat: chat(m.Chat),
			Text: m.Text,
		}
		if m.From != nil {
			out.LanguageCode = m.From.LanguageCode
		}
		return out, out.Chat.ID != 0

	default:
		return bot.Update{}, false
	}
}

func chat(c *tgbotapi.Chat) bot.Chat {
	if c == nil {
		return bot.Chat{}
	}
	return bot.Chat{ID: c.ID, Type: c.Type, Title: c.Title}
}
