package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/k-moto/SkillupPractice6/internal/ai"
	"github.com/k-moto/SkillupPractice6/internal/entry"
	"github.com/k-moto/SkillupPractice6/internal/format"
	"github.com/k-moto/SkillupPractice6/internal/memolist"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// IntentParser turns free text into a memo action. *ai.Client implements it.
type IntentParser interface {
	ParseIntent(ctx context.Context, userMessage string) (*ai.Intent, error)
}

// Handlers serves one memo list. It is not safe for concurrent use; the bot
// feeds it updates one at a time.
type Handlers struct {
	api           Sender
	store         repository.MemoStore
	list          *memolist.Presenter
	editor        *entry.Editor
	ai            IntentParser
	allowedUserID int64
	devMode       bool
	now           func() time.Time

	pending map[string]*PendingConfirmation
}

type Options struct {
	// AI may be nil; plain messages then become new memos.
	AI            IntentParser
	AllowedUserID int64
	DevMode       bool
	Now           func() time.Time
}

func New(api Sender, store repository.MemoStore, opts Options) *Handlers {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		api:           api,
		store:         store,
		list:          memolist.New(store),
		editor:        entry.New(store, entry.WithClock(now)),
		ai:            opts.AI,
		allowedUserID: opts.AllowedUserID,
		devMode:       opts.DevMode,
		now:           now,
		pending:       make(map[string]*PendingConfirmation),
	}
}

func (h *Handlers) allowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	return h.allowedUserID == 0 || user.ID == h.allowedUserID
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if !h.allowed(msg.From) {
		h.debug("Ignoring command from unknown user", "from", msg.From)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "memo":
		h.handleMemo(ctx, msg)
	case "memos":
		h.handleMemoList(ctx, msg)
	case "show":
		h.handleShow(ctx, msg)
	case "edit":
		h.handleEdit(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	case "clear":
		h.handleClear(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "不明なコマンドです。/help でコマンド一覧を確認できます")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !h.allowed(msg.From) {
		return
	}

	if h.ai == nil {
		h.createMemo(ctx, msg.Chat.ID, msg.Text)
		return
	}
	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	// Callback data: "confirm:<token>" or "cancel:<token>"
	action, token, ok := strings.Cut(callback.Data, ":")
	if !ok || callback.Message == nil {
		return
	}

	h.expirePending()
	pending, exists := h.pending[token]
	if !exists {
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "⏰ 確認の期限が切れました")
		return
	}

	if callback.From == nil || callback.From.ID != pending.UserID {
		h.answerCallbackWithAlert(callback.ID, "この操作はできません")
		return
	}
	delete(h.pending, token)

	switch action {
	case "confirm":
		result := h.executeAction(ctx, pending.Action, pending.Parameters)
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, result)
	case "cancel":
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "キャンセルしました")
	}
}

func (h *Handlers) answerCallbackWithAlert(callbackID string, text string) {
	answer := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback with alert: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendFormatted(chatID int64, m *format.Message) {
	if _, err := h.api.Send(m.Config(chatID)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) debug(msg string, kv ...any) {
	if !h.devMode {
		return
	}
	var sb strings.Builder
	sb.WriteString("[DEBUG] ")
	sb.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", kv[i], kv[i+1])
	}
	log.Print(sb.String())
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	name := ""
	if msg.From != nil {
		name = msg.From.FirstName
	}
	text := fmt.Sprintf(`👋 こんにちは %s さん

メモを書いて、一覧で見返せるボットです。
そのままメッセージを送るとメモとして保存されます。
1行目がタイトル、2行目以降が本文になります。

/help でコマンド一覧を確認できます`, name)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 コマンド一覧

/memo <内容> - メモを追加
/memos - メモ一覧 (更新が新しい順)
/show <ID> - メモを表示
/edit <ID> - 現在の内容を表示
/edit <ID> 改行 <内容> - メモを書き換え
/delete <行番号> - 一覧の行を削除
/clear - すべて削除`
	h.sendMessage(msg.Chat.ID, text)
}
