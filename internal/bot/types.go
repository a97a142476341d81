// Package bot turns chat updates into replies built from the cached site and market data.
package bot

import "context"

// Chat identifies the conversation an update came from.
type Chat struct {
	ID    int64
	Type  string
	Title string
}

// Callback is an inline button press.
type Callback struct {
	ID        string
	Data      string
	MessageID int
}

// Update is a transport-neutral chat update. Exactly one of Text or Callback is set.
type Update struct {
	ID           int
	Chat         Chat
	LanguageCode string
	Text         string
	Callback     *Callback
}

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard, one slice per row.
type Keyboard [][]Button

// Messenger sends replies back to the chat platform.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
