package bot

import "github.com/guttosm/giga-bot/internal/i18n"

// Callback data understood by the dispatcher.
const (
	CallbackMenuSnapshot    = "menu_snapshot"
	CallbackMenuUsers       = "menu_users"
	CallbackMenuCrypto      = "menu_crypto"
	CallbackMenuCharts      = "menu_charts"
	CallbackMenuChatID      = "menu_chatid"
	CallbackRefreshUsers    = "refresh_users"
	CallbackRefreshCrypto   = "refresh_crypto"
	CallbackRefreshSnapshot = "refresh_snapshot"
	CallbackRefreshCharts   = "refresh_charts"
	CallbackBackMenu        = "back_menu"
	// CallbackLegacyRefresh is sent by buttons on messages from older releases.
	CallbackLegacyRefresh = "refresh"
)

func (d *Dispatcher) startKeyboard(locale string) Keyboard {
	t := d.translator
	return Keyboard{
		{{Text: t.Translate(i18n.KeyButtonSnapshot, locale), Data: CallbackMenuSnapshot}},
		{{Text: t.Translate(i18n.KeyButtonUsers, locale), Data: CallbackMenuUsers}},
		{{Text: t.Translate(i18n.KeyButtonCrypto, locale), Data: CallbackMenuCrypto}},
		{{Text: t.Translate(i18n.KeyButtonCharts, locale), Data: CallbackMenuCharts}},
		{{Text: t.Translate(i18n.KeyButtonChatID, locale), Data: CallbackMenuChatID}},
	}
}

// sectionKeyboard offers a refresh button and a way back to the menu.
func (d *Dispatcher) sectionKeyboard(locale, refreshData string) Keyboard {
	return Keyboard{
		{{Text: d.translator.Translate(i18n.KeyButtonRefresh, locale), Data: refreshData}},
		{{Text: d.translator.Translate(i18n.KeyButtonBack, locale), Data: CallbackBackMenu}},
	}
}

func (d *Dispatcher) backKeyboard(locale string) Keyboard {
	return Keyboard{
		{{Text: d.translator.Translate(i18n.KeyButtonBack, locale), Data: CallbackBackMenu}},
	}
}
