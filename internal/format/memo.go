package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/k-moto/SkillupPractice6/internal/models"
)

const previewLen = 50

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FirstLine is the preview line shown under a title.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// DateStyle formats an update date for the list: time only for today, month
// and day within the current year, the full date otherwise.
func DateStyle(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	case t.Year() == now.Year():
		return fmt.Sprintf("%d月%d日", t.Month(), t.Day())
	default:
		return t.Format("2006/01/02")
	}
}

// MemoList renders a numbered list of memos followed by the count label.
// Row numbers start at 1 and match the order of memos.
func MemoList(memos []*models.Memo, label string, now time.Time) *Message {
	m := &Message{}
	m.Bold("メモ").Plain("\n\n")
	for i, memo := range memos {
		title := memo.Title
		if title == "" {
			title = "(無題)"
		}
		m.Plain(fmt.Sprintf("%d. ", i+1)).Bold(Truncate(title, previewLen)).Plain("\n")
		if preview := FirstLine(memo.Text); preview != "" {
			m.Plain("   " + Truncate(preview, previewLen) + "\n")
		}
		m.Plain("   ").Italic(DateStyle(memo.UpdateDate, now)).Plain("\n\n")
	}
	m.Plain(label)
	return m
}

// MemoDetail shows one memo with its id and both dates.
func MemoDetail(memo *models.Memo) *Message {
	m := &Message{}
	m.Bold(fmt.Sprintf("#%d %s", memo.ID, memo.Title)).Plain("\n")
	if memo.Text != "" {
		m.Plain(memo.Text + "\n")
	}
	m.Plain("\n").
		Italic("作成: " + memo.CreateDate.Format("2006/01/02 15:04")).Plain("\n").
		Italic("更新: " + memo.UpdateDate.Format("2006/01/02 15:04"))
	return m
}
