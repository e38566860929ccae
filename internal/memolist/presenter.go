// Package memolist keeps the sorted snapshot shown by the memo list and the
// count label that goes with it.
package memolist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/k-moto/SkillupPractice6/internal/models"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

var ErrIndexOutOfRange = errors.New("memolist: index out of range")

const emptyLabel = "メモなし"

// CountLabel is the footer text for a list of n memos.
func CountLabel(n int) string {
	if n > 0 {
		return strconv.Itoa(n) + "件のメモ"
	}
	return emptyLabel
}

// Presenter holds a snapshot of the store, most recently updated first. The
// snapshot only changes through Refresh, Replace and the delete calls.
type Presenter struct {
	store repository.MemoStore
	items []*models.Memo
	label string
}

func New(store repository.MemoStore) *Presenter {
	return &Presenter{store: store, label: emptyLabel}
}

// Refresh reloads the snapshot from the store.
func (p *Presenter) Refresh(ctx context.Context) error {
	memos, err := p.store.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load memos: %w", err)
	}
	p.Replace(memos)
	return nil
}

// Replace swaps in a new snapshot.
func (p *Presenter) Replace(memos []*models.Memo) {
	items := make([]*models.Memo, len(memos))
	copy(items, memos)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UpdateDate.Equal(items[j].UpdateDate) {
			return items[i].UpdateDate.After(items[j].UpdateDate)
		}
		return items[i].ID > items[j].ID
	})
	p.items = items
	p.label = CountLabel(len(items))
}

func (p *Presenter) Items() []*models.Memo {
	items := make([]*models.Memo, len(p.items))
	copy(items, p.items)
	return items
}

func (p *Presenter) Len() int {
	return len(p.items)
}

func (p *Presenter) At(i int) (*models.Memo, bool) {
	if i < 0 || i >= len(p.items) {
		return nil, false
	}
	return p.items[i], true
}

func (p *Presenter) CountLabel() string {
	return p.label
}

// DeleteAt removes row i from the store and then from the snapshot. When the
// store call fails the snapshot is left as it was.
func (p *Presenter) DeleteAt(ctx context.Context, i int) (*models.Memo, error) {
	memo, ok := p.At(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(p.items))
	}

	if _, err := p.store.Delete(ctx, memo.ID); err != nil {
		return nil, err
	}

	p.items = append(p.items[:i:i], p.items[i+1:]...)
	p.label = CountLabel(len(p.items))
	return memo, nil
}

// DeleteAll empties the store and the snapshot.
func (p *Presenter) DeleteAll(ctx context.Context) error {
	if err := p.store.DeleteAll(ctx); err != nil {
		return err
	}
	p.items = nil
	p.label = emptyLabel
	return nil
}
