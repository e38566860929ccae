package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/k-moto/SkillupPractice6/internal/format"
	"github.com/k-moto/SkillupPractice6/internal/memolist"
)

const storageErrorText = "保存先にアクセスできませんでした。しばらくしてからもう一度お試しください"

func (h *Handlers) handleMemo(ctx context.Context, msg *tgbotapi.Message) {
	content := msg.CommandArguments()
	if strings.TrimSpace(content) == "" {
		h.sendMessage(msg.Chat.ID, "メモの内容を入力してください\n使い方: /memo <内容>")
		return
	}
	h.createMemo(ctx, msg.Chat.ID, content)
}

func (h *Handlers) createMemo(ctx context.Context, chatID int64, content string) {
	h.sendMessage(chatID, h.createMemoResult(ctx, content))
}

func (h *Handlers) createMemoResult(ctx context.Context, content string) string {
	memo, saved, err := h.editor.Commit(ctx, 0, content)
	if err != nil {
		log.Printf("Failed to create memo: %v", err)
		return storageErrorText
	}
	if !saved {
		return "空のメモは保存されません"
	}
	return fmt.Sprintf("✅ メモを保存しました (ID: %d)\n%s", memo.ID, memo.Title)
}

func (h *Handlers) handleMemoList(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.list.Refresh(ctx); err != nil {
		log.Printf("Failed to load memos: %v", err)
		h.sendMessage(msg.Chat.ID, storageErrorText)
		return
	}
	h.sendFormatted(msg.Chat.ID, h.listMessage())
}

func (h *Handlers) listMessage() *format.Message {
	if h.list.Len() == 0 {
		m := &format.Message{}
		return m.Plain("📝 " + h.list.CountLabel())
	}
	return format.MemoList(h.list.Items(), h.list.CountLabel(), h.now())
}

func (h *Handlers) handleShow(ctx context.Context, msg *tgbotapi.Message) {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || id <= 0 {
		h.sendMessage(msg.Chat.ID, "使い方: /show <ID>")
		return
	}

	memo, ok, err := h.store.FindByID(ctx, id)
	if err != nil {
		log.Printf("Failed to find memo %d: %v", id, err)
		h.sendMessage(msg.Chat.ID, storageErrorText)
		return
	}
	if !ok {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("メモ #%d は見つかりません", id))
		return
	}
	h.sendFormatted(msg.Chat.ID, format.MemoDetail(memo))
}

// handleEdit takes "/edit <id>" to fetch the current content and
// "/edit <id>\n<content>" to replace it.
func (h *Handlers) handleEdit(ctx context.Context, msg *tgbotapi.Message) {
	idText, content, _ := strings.Cut(msg.CommandArguments(), "\n")
	id, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil || id <= 0 {
		h.sendMessage(msg.Chat.ID, "使い方: /edit <ID> 改行 <新しい内容>")
		return
	}

	if content == "" {
		current, err := h.editor.Open(ctx, id)
		if err != nil {
			log.Printf("Failed to open memo %d: %v", id, err)
			h.sendMessage(msg.Chat.ID, storageErrorText)
			return
		}
		if current == "" {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("メモ #%d は見つかりません", id))
			return
		}
		m := &format.Message{}
		m.Plain(fmt.Sprintf("/edit %d\n", id)).Pre(current).
			Plain("\n\n上の内容をコピーして書き換え、送信してください")
		h.sendFormatted(msg.Chat.ID, m)
		return
	}

	h.sendMessage(msg.Chat.ID, h.updateMemoResult(ctx, id, content))
}

func (h *Handlers) updateMemoResult(ctx context.Context, id int, content string) string {
	memo, saved, err := h.editor.Commit(ctx, id, content)
	if err != nil {
		log.Printf("Failed to update memo %d: %v", id, err)
		return storageErrorText
	}
	if !saved {
		return fmt.Sprintf("メモ #%d は見つかりません", id)
	}
	return fmt.Sprintf("✏️ メモ #%d を更新しました\n%s", memo.ID, memo.Title)
}

func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	row, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "使い方: /delete <行番号>  (/memos の番号)")
		return
	}
	h.sendMessage(msg.Chat.ID, h.deleteRowResult(ctx, row))
}

// deleteRowResult removes the 1-based row of the last shown list.
func (h *Handlers) deleteRowResult(ctx context.Context, row int) string {
	if h.list.Len() == 0 {
		if err := h.list.Refresh(ctx); err != nil {
			log.Printf("Failed to load memos: %v", err)
			return storageErrorText
		}
	}

	memo, err := h.list.DeleteAt(ctx, row-1)
	if errors.Is(err, memolist.ErrIndexOutOfRange) {
		return fmt.Sprintf("%d 行目はありません (%s)", row, h.list.CountLabel())
	}
	if err != nil {
		log.Printf("Failed to delete row %d: %v", row, err)
		return storageErrorText
	}
	return fmt.Sprintf("🗑 「%s」を削除しました\n%s", memo.Title, h.list.CountLabel())
}

func (h *Handlers) deleteByIDResult(ctx context.Context, id int) string {
	found, err := h.store.Delete(ctx, id)
	if err != nil {
		log.Printf("Failed to delete memo %d: %v", id, err)
		return storageErrorText
	}
	if !found {
		return fmt.Sprintf("メモ #%d は見つかりません", id)
	}
	// The cached rows may still hold the deleted memo.
	if err := h.list.Refresh(ctx); err != nil {
		log.Printf("Failed to reload memos: %v", err)
	}
	return fmt.Sprintf("🗑 メモ #%d を削除しました\n%s", id, h.list.CountLabel())
}

func (h *Handlers) deleteAllResult(ctx context.Context) string {
	if err := h.list.DeleteAll(ctx); err != nil {
		log.Printf("Failed to delete all memos: %v", err)
		return storageErrorText
	}
	return "🗑 すべてのメモを削除しました\n" + h.list.CountLabel()
}

func (h *Handlers) handleClear(ctx context.Context, msg *tgbotapi.Message) {
	h.requestConfirmation(msg.Chat.ID, msg.From.ID, "すべてのメモを削除しますか？", actionDeleteAll, nil)
}
