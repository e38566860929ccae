package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/k-moto/SkillupPractice6/internal/ai"
	"github.com/k-moto/SkillupPractice6/internal/format"
	"github.com/k-moto/SkillupPractice6/internal/models"
)

const (
	actionDeleteAll  = ai.ActionDeleteAllMemo
	confirmationTTL  = 2 * time.Minute
	minAIConfidence  = 0.5
	lowConfidenceMsg = "うまく理解できませんでした。もう少し具体的に書くか、/help をご覧ください"
)

// PendingConfirmation is an action waiting for the user to press a button.
type PendingConfirmation struct {
	UserID     int64
	Action     string
	Parameters map[string]string
	ExpiresAt  time.Time
}

func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.debug("Incoming message", "from", msg.From.UserName, "text", msg.Text)

	intent, err := h.ai.ParseIntent(ctx, msg.Text)
	if err != nil {
		log.Printf("Failed to parse intent: %v", err)
		h.sendMessage(msg.Chat.ID, lowConfidenceMsg)
		return
	}

	h.debug("Parsed intent",
		"action", intent.Action,
		"confidence", intent.Confidence,
		"needs_confirmation", intent.NeedsConfirmation,
		"params", intent.Parameters,
		"raw", intent.RawResponse)

	if intent.Action == ai.ActionUnknown || intent.Confidence < minAIConfidence {
		response := lowConfidenceMsg
		if intent.AIMessage != "" {
			response = intent.AIMessage
		}
		h.sendMessage(msg.Chat.ID, response)
		return
	}

	// A bare create keeps the user's own text.
	if intent.Action == ai.ActionCreateMemo && intent.Parameters["content"] == "" {
		intent.Parameters["content"] = msg.Text
	}

	if intent.NeedsConfirmation {
		prompt := intent.AIMessage
		if prompt == "" {
			prompt = confirmationPrompt(intent.Action, intent.Parameters)
		}
		h.requestConfirmation(msg.Chat.ID, msg.From.ID, prompt, intent.Action, intent.Parameters)
		return
	}

	switch intent.Action {
	case ai.ActionListMemo:
		h.handleMemoList(ctx, msg)
	case ai.ActionShowMemo:
		memo := h.lookup(ctx, intent.Parameters)
		if memo == nil {
			h.sendMessage(msg.Chat.ID, "該当するメモが見つかりません")
			return
		}
		h.sendFormatted(msg.Chat.ID, format.MemoDetail(memo))
	default:
		h.sendMessage(msg.Chat.ID, h.executeAction(ctx, intent.Action, intent.Parameters))
	}
}

// lookup resolves an "id" or 1-based "row" parameter to a memo.
func (h *Handlers) lookup(ctx context.Context, params map[string]string) *models.Memo {
	if id, err := strconv.Atoi(params["id"]); err == nil {
		memo, ok, err := h.store.FindByID(ctx, id)
		if err != nil {
			log.Printf("Failed to find memo %d: %v", id, err)
			return nil
		}
		if ok {
			return memo
		}
		return nil
	}

	row, err := strconv.Atoi(params["row"])
	if err != nil {
		return nil
	}
	if h.list.Len() == 0 {
		if err := h.list.Refresh(ctx); err != nil {
			log.Printf("Failed to load memos: %v", err)
			return nil
		}
	}
	memo, _ := h.list.At(row - 1)
	return memo
}

func confirmationPrompt(action string, params map[string]string) string {
	switch action {
	case ai.ActionDeleteAllMemo:
		return "すべてのメモを削除しますか？"
	case ai.ActionDeleteMemo:
		if row := params["row"]; row != "" {
			return fmt.Sprintf("%s 行目のメモを削除しますか？", row)
		}
		return fmt.Sprintf("メモ #%s を削除しますか？", params["id"])
	}
	return fmt.Sprintf("%s を実行しますか？", action)
}

func (h *Handlers) requestConfirmation(chatID, userID int64, prompt, action string, params map[string]string) {
	h.expirePending()

	token := uuid.NewString()
	h.pending[token] = &PendingConfirmation{
		UserID:     userID,
		Action:     action,
		Parameters: params,
		ExpiresAt:  h.now().Add(confirmationTTL),
	}

	confirmLabel := "✅ 削除"
	if action == ai.ActionDeleteAllMemo {
		confirmLabel = "すべて削除"
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(confirmLabel, "confirm:"+token),
			tgbotapi.NewInlineKeyboardButtonData("キャンセル", "cancel:"+token),
		),
	)

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send confirmation message: %v", err)
	}
}

func (h *Handlers) expirePending() {
	now := h.now()
	for token, p := range h.pending {
		if now.After(p.ExpiresAt) {
			delete(h.pending, token)
		}
	}
}

// executeAction runs a memo action and returns the text to show the user.
func (h *Handlers) executeAction(ctx context.Context, action string, params map[string]string) string {
	h.debug("executeAction", "action", action, "params", params)

	switch action {
	case ai.ActionCreateMemo:
		return h.createMemoResult(ctx, params["content"])
	case ai.ActionUpdateMemo:
		id, err := strconv.Atoi(params["id"])
		if err != nil {
			return "メモの ID を指定してください"
		}
		if params["content"] == "" {
			return "新しい内容を指定してください"
		}
		return h.updateMemoResult(ctx, id, params["content"])
	case ai.ActionDeleteMemo:
		if row, err := strconv.Atoi(params["row"]); err == nil {
			return h.deleteRowResult(ctx, row)
		}
		id, err := strconv.Atoi(params["id"])
		if err != nil {
			return "削除するメモの行番号か ID を指定してください"
		}
		return h.deleteByIDResult(ctx, id)
	case ai.ActionDeleteAllMemo:
		return h.deleteAllResult(ctx)
	default:
		return lowConfidenceMsg
	}
}
