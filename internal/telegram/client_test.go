//go:build !integration

package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/guttosm/giga-bot/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

type apiCall struct {
	method string
	fields map[string]string
	file   []byte
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	fail  map[string]string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")
		call := apiCall{method: method, fields: map[string]string{}}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
				return
			}
			for k, v := range r.MultipartForm.Value {
				call.fields[k] = v[0]
			}
			if fh, ok := r.MultipartForm.File["photo"]; ok {
				if file, err := fh[0].Open(); assert.NoError(t, err) {
					call.file, _ = io.ReadAll(file)
					_ = file.Close()
				}
			}
		} else {
			if !assert.NoError(t, r.ParseForm()) {
				return
			}
			for k := range r.PostForm {
				call.fields[k] = r.PostForm.Get(k)
			}
		}

		f.mu.Lock()
		f.calls = append(f.calls, call)
		desc, failing := f.fail[method]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case failing:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"` + desc + `"}`))
		case method == "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Giga","username":"giga_bot"}}`))
		case method == "sendMessage" || method == "sendPhoto":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		}
	}
}

func (f *fakeAPI) last() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{fail: map[string]string{}}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	c, err := New(testToken, WithEndpoint(srv.URL+"/bot%s/%s"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, api
}

func TestNew_VerifiesToken(t *testing.T) {
	c, api := newTestClient(t)

	assert.Equal(t, "giga_bot", c.Username())
	assert.Equal(t, "getMe", api.last().method)
}

func TestNew_InvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := New("bad", WithEndpoint(srv.URL+"/bot%s/%s"))

	assert.ErrorContains(t, err, "Unauthorized")
}

func TestClient_SendText(t *testing.T) {
	c, api := newTestClient(t)
	kb := bot.Keyboard{{{Text: "⟳ Обновить", Data: "refresh_users"}}}

	require.NoError(t, c.SendText(context.Background(), 42, "Users: 1", kb))

	call := api.last()
	assert.Equal(t, "sendMessage", call.method)
	assert.Equal(t, "42", call.fields["chat_id"])
	assert.Equal(t, "Users: 1", call.fields["text"])
	assert.Equal(t, "true", call.fields["disable_web_page_preview"])

	var markup struct {
		InlineKeyboard [][]struct {
			Text         string `json:"text"`
			CallbackData string `json:"callback_data"`
		} `json:"inline_keyboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(call.fields["reply_markup"]), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "refresh_users", markup.InlineKeyboard[0][0].CallbackData)
}

func TestClient_SendTextWithoutKeyboard(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.SendText(context.Background(), 42, "hi", nil))

	_, hasMarkup := api.last().fields["reply_markup"]
	assert.False(t, hasMarkup)
}

func TestClient_EditText(t *testing.T) {
	c, api := newTestClient(t)
	kb := bot.Keyboard{{{Text: "back", Data: "back_menu"}}}

	require.NoError(t, c.EditText(context.Background(), 42, 7, "updated", kb))

	call := api.last()
	assert.Equal(t, "editMessageText", call.method)
	assert.Equal(t, "7", call.fields["message_id"])
	assert.Equal(t, "updated", call.fields["text"])
	assert.Contains(t, call.fields["reply_markup"], "back_menu")
}

func TestClient_EditTextError(t *testing.T) {
	c, api := newTestClient(t)
	api.fail["editMessageText"] = "Bad Request: message is not modified"

	err := c.EditText(context.Background(), 42, 7, "same", nil)

	assert.ErrorContains(t, err, "message is not modified")
}

func TestClient_SendPhoto(t *testing.T) {
	c, api := newTestClient(t)
	png := []byte{0x89, 'P', 'N', 'G'}

	require.NoError(t, c.SendPhoto(context.Background(), 42, png, "BTC: 65 000 $"))

	call := api.last()
	assert.Equal(t, "sendPhoto", call.method)
	assert.Equal(t, "BTC: 65 000 $", call.fields["caption"])
	assert.Equal(t, png, call.file)
}

func TestClient_AnswerCallback(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.AnswerCallback(context.Background(), "cb1", "Обновляю…"))

	call := api.last()
	assert.Equal(t, "answerCallbackQuery", call.method)
	assert.Equal(t, "cb1", call.fields["callback_query_id"])
	assert.Equal(t, "Обновляю…", call.fields["text"])
}

func TestClient_RegisterWebhook(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.RegisterWebhook(context.Background(), "https://bot.example.com/tg-webhook", true))

	call := api.last()
	assert.Equal(t, "setWebhook", call.method)
	assert.Equal(t, "https://bot.example.com/tg-webhook", call.fields["url"])
	assert.Equal(t, "true", call.fields["drop_pending_updates"])
}

func TestClient_DeleteWebhook(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.DeleteWebhook(context.Background(), false))

	assert.Equal(t, "deleteWebhook", api.last().method)
}

func TestClient_CancelledContext(t *testing.T) {
	c, api := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.SendText(ctx, 42, "hi", nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "getMe", api.last().method)
}
