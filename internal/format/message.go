// Package format renders memos as Telegram messages. Telegram measures entity
// offsets and lengths in UTF-16 code units, so the builder tracks both the
// text and its UTF-16 length.
package format

import (
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UTF16Len is the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Message is plain text plus the entities that style it.
type Message struct {
	sb       strings.Builder
	offset   int
	Entities []tgbotapi.MessageEntity
}

func (m *Message) Text() string {
	return m.sb.String()
}

func (m *Message) Plain(s string) *Message {
	m.sb.WriteString(s)
	m.offset += UTF16Len(s)
	return m
}

func (m *Message) Bold(s string) *Message {
	return m.styled("bold", s)
}

func (m *Message) Italic(s string) *Message {
	return m.styled("italic", s)
}

func (m *Message) Code(s string) *Message {
	return m.styled("code", s)
}

func (m *Message) Pre(s string) *Message {
	return m.styled("pre", s)
}

func (m *Message) styled(kind, s string) *Message {
	if s == "" {
		return m
	}
	n := UTF16Len(s)
	m.Entities = append(m.Entities, tgbotapi.MessageEntity{
		Type:   kind,
		Offset: m.offset,
		Length: n,
	})
	m.sb.WriteString(s)
	m.offset += n
	return m
}

// Config builds a sendable message for chatID.
func (m *Message) Config(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, m.Text())
	msg.Entities = m.Entities
	return msg
}
