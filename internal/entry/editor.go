// Package entry implements the create/edit round trip for a single memo.
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/k-moto/SkillupPractice6/internal/models"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

const separator = "\n"

type Editor struct {
	store repository.MemoStore
	now   func() time.Time
}

type Option func(*Editor)

// WithClock replaces time.Now as the source of create and update dates.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

func New(store repository.MemoStore, opts ...Option) *Editor {
	e := &Editor{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open returns the editable content for id. New memos (id 0) and ids that
// no longer exist start out empty.
func (e *Editor) Open(ctx context.Context, id int) (string, error) {
	if id == 0 {
		return "", nil
	}

	memo, ok, err := e.store.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to open memo %d: %w", id, err)
	}
	if !ok {
		return "", nil
	}
	return memo.Content(), nil
}

// SplitContent cuts content at the first newline. The title line and its
// newline are stripped once from the front; later lines equal to the title
// stay in the text.
func SplitContent(content string) (title, text string) {
	title, text, _ = strings.Cut(content, separator)
	return title, text
}

// Commit saves content under id, creating a new memo when id is 0. Empty
// content is dropped and saved is false. For an existing id, saved reports
// whether the memo was still there to update.
func (e *Editor) Commit(ctx context.Context, id int, content string) (memo *models.Memo, saved bool, err error) {
	if content == "" {
		return nil, false, nil
	}

	title, text := SplitContent(content)
	now := e.now()

	if id == 0 {
		memo, err = e.store.Add(ctx, &models.Memo{
			Title:      title,
			Text:       text,
			CreateDate: now,
			UpdateDate: now,
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to add memo: %w", err)
		}
		return memo, true, nil
	}

	found, err := e.store.Update(ctx, &models.Memo{
		ID:         id,
		Title:      title,
		Text:       text,
		UpdateDate: now,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to update memo: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	memo, ok, err := e.store.FindByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload memo: %w", err)
	}
	if !ok {
		// Deleted by another process right after the update.
		return nil, false, nil
	}
	return memo, true, nil
}
