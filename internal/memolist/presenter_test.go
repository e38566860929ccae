package memolist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-moto/SkillupPractice6/internal/database"
	"github.com/k-moto/SkillupPractice6/internal/models"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

func newStore(t *testing.T) repository.MemoStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "memo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return repository.NewSQLiteMemoRepository(db)
}

func addMemo(t *testing.T, store repository.MemoStore, title string, updated time.Time) *models.Memo {
	t.Helper()
	m, err := store.Add(context.Background(), &models.Memo{
		Title:      title,
		CreateDate: updated,
		UpdateDate: updated,
	})
	require.NoError(t, err)
	return m
}

func titles(memos []*models.Memo) []string {
	out := make([]string, len(memos))
	for i, m := range memos {
		out[i] = m.Title
	}
	return out
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "メモなし"},
		{1, "1件のメモ"},
		{12, "12件のメモ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountLabel(tt.n))
	}
}

func TestPresenter_RefreshSortsByUpdateDate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2016, 1, 1, 10, 0, 0, 0, time.Local)

	addMemo(t, store, "old", base)
	addMemo(t, store, "newest", base.Add(2*time.Hour))
	addMemo(t, store, "middle", base.Add(time.Hour))

	p := New(store)
	assert.Equal(t, "メモなし", p.CountLabel())

	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, []string{"newest", "middle", "old"}, titles(p.Items()))
	assert.Equal(t, "3件のメモ", p.CountLabel())
	assert.Equal(t, 3, p.Len())
}

func TestPresenter_TiesNewestIDFirst(t *testing.T) {
	p := New(nil)
	same := time.Date(2016, 1, 1, 10, 0, 0, 0, time.UTC)
	p.Replace([]*models.Memo{
		{ID: 1, Title: "a", UpdateDate: same},
		{ID: 3, Title: "c", UpdateDate: same},
		{ID: 2, Title: "b", UpdateDate: same},
	})
	assert.Equal(t, []string{"c", "b", "a"}, titles(p.Items()))
}

func TestPresenter_DeleteAt(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2016, 1, 1, 10, 0, 0, 0, time.Local)

	older := addMemo(t, store, "older", base)
	newer := addMemo(t, store, "newer", base.Add(time.Minute))

	p := New(store)
	require.NoError(t, p.Refresh(ctx))

	removed, err := p.DeleteAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, removed.ID)
	assert.Equal(t, []string{"older"}, titles(p.Items()))
	assert.Equal(t, "1件のメモ", p.CountLabel())

	_, ok, err := store.FindByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = p.DeleteAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, older.ID, removed.ID)
	assert.Equal(t, "メモなし", p.CountLabel())

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPresenter_DeleteAtOutOfRange(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	addMemo(t, store, "only", time.Now())

	p := New(store)
	require.NoError(t, p.Refresh(ctx))

	_, err := p.DeleteAt(ctx, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = p.DeleteAt(ctx, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 1, p.Len())
}

func TestPresenter_DeleteAtKeepsSnapshotOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoStore: newStore(t), err: errors.New("disk full")}
	addMemo(t, store, "stays", time.Now())

	p := New(store)
	require.NoError(t, p.Refresh(ctx))

	_, err := p.DeleteAt(ctx, 0)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, "1件のメモ", p.CountLabel())
}

func TestPresenter_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	for i := 0; i < 3; i++ {
		addMemo(t, store, "x", time.Now())
	}

	p := New(store)
	require.NoError(t, p.Refresh(ctx))
	require.NoError(t, p.DeleteAll(ctx))

	assert.Zero(t, p.Len())
	assert.Equal(t, "メモなし", p.CountLabel())
	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPresenter_ItemsIsACopy(t *testing.T) {
	p := New(nil)
	p.Replace([]*models.Memo{{ID: 1}, {ID: 2}})

	items := p.Items()
	items[0] = nil
	m, ok := p.At(0)
	require.True(t, ok)
	assert.NotNil(t, m)
}

// failingStore fails every delete.
type failingStore struct {
	repository.MemoStore
	err error
}

func (s *failingStore) Delete(context.Context, int) (bool, error) {
	return false, s.err
}

func (s *failingStore) DeleteAll(context.Context) error {
	return s.err
}
