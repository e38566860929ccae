package models

import "time"

// Memo is a single note. ID 0 means the memo has not been stored yet.
type Memo struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	CreateDate time.Time `json:"create_date"`
	UpdateDate time.Time `json:"update_date"`
}

// Content joins title and text the way the editor shows them.
func (m *Memo) Content() string {
	return m.Title + "\n" + m.Text
}
