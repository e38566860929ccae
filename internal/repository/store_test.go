package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-moto/SkillupPractice6/internal/models"
)

const dateFormat = "2006/01/02 15:04"

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(dateFormat, s, time.Local)
	require.NoError(t, err)
	return d
}

// runMemoStoreTests exercises a MemoStore implementation. newStore must
// return an empty store.
func runMemoStoreTests(t *testing.T, newStore func(t *testing.T) MemoStore) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{
			ID:         1,
			Title:      "テストタイトル1",
			Text:       "東京\n埼玉\n千葉",
			CreateDate: mustDate(t, "2016/01/01 10:00"),
			UpdateDate: mustDate(t, "2016/01/01 18:30"),
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, memos, 1)
		assert.Equal(t, created.ID, memos[0].ID)
		assert.Equal(t, "テストタイトル1", memos[0].Title)
		assert.Equal(t, "東京\n埼玉\n千葉", memos[0].Text)
		assert.Equal(t, "2016/01/01 10:00", memos[0].CreateDate.Format(dateFormat))
		assert.Equal(t, "2016/01/01 18:30", memos[0].UpdateDate.Format(dateFormat))
	})

	t.Run("AddReturnsStoredDates", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{
			Title:      "precise",
			CreateDate: time.Date(2016, 1, 1, 10, 0, 0, 123456789, time.UTC),
			UpdateDate: time.Date(2016, 1, 1, 18, 30, 0, 987654321, time.UTC),
		})
		require.NoError(t, err)

		got, ok, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, created.CreateDate.Equal(got.CreateDate), "%v != %v", created.CreateDate, got.CreateDate)
		assert.True(t, created.UpdateDate.Equal(got.UpdateDate), "%v != %v", created.UpdateDate, got.UpdateDate)
		assert.Equal(t, 123456000, created.CreateDate.Nanosecond())
	})

	t.Run("AddIgnoresCallerID", func(t *testing.T) {
		store := newStore(t)
		first, err := store.Add(ctx, &models.Memo{ID: 42, Title: "a"})
		require.NoError(t, err)
		second, err := store.Add(ctx, &models.Memo{ID: 42, Title: "b"})
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.NotZero(t, second.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("AddAcceptsEmptyText", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{})
		require.NoError(t, err)

		got, ok, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, got.Title)
		assert.Empty(t, got.Text)
	})

	t.Run("IDsAreNotReused", func(t *testing.T) {
		store := newStore(t)
		a, err := store.Add(ctx, &models.Memo{Title: "a"})
		require.NoError(t, err)
		b, err := store.Add(ctx, &models.Memo{Title: "b"})
		require.NoError(t, err)

		_, err = store.Delete(ctx, b.ID)
		require.NoError(t, err)
		require.NoError(t, store.DeleteAll(ctx))

		c, err := store.Add(ctx, &models.Memo{Title: "c"})
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("FindByID", func(t *testing.T) {
		store := newStore(t)
		want := &models.Memo{
			Title:      "テストタイトル1",
			Text:       "メモ",
			CreateDate: mustDate(t, "2016/01/01 10:00"),
			UpdateDate: mustDate(t, "2016/01/01 18:30"),
		}
		created, err := store.Add(ctx, want)
		require.NoError(t, err)

		got, ok, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Text, got.Text)
		assert.WithinDuration(t, want.CreateDate, got.CreateDate, 0)
		assert.WithinDuration(t, want.UpdateDate, got.UpdateDate, 0)
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		store := newStore(t)
		got, ok, err := store.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("FindByIDReturnsDetachedCopy", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{Title: "original"})
		require.NoError(t, err)

		got, _, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		got.Title = "changed locally"

		again, _, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", again.Title)
	})

	t.Run("Update", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{
			Title:      "テストタイトル1",
			Text:       "メモ1",
			CreateDate: mustDate(t, "2016/01/01 10:00"),
			UpdateDate: mustDate(t, "2016/01/01 18:30"),
		})
		require.NoError(t, err)

		found, err := store.Update(ctx, &models.Memo{
			ID:         created.ID,
			Title:      "テストタイトル2",
			Text:       "メモ更新",
			CreateDate: mustDate(t, "2020/05/05 05:05"),
			UpdateDate: mustDate(t, "2016/01/01 20:30"),
		})
		require.NoError(t, err)
		assert.True(t, found)

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, memos, 1)
		assert.Equal(t, created.ID, memos[0].ID)
		assert.Equal(t, "テストタイトル2", memos[0].Title)
		assert.Equal(t, "メモ更新", memos[0].Text)
		assert.Equal(t, "2016/01/01 10:00", memos[0].CreateDate.Format(dateFormat))
		assert.Equal(t, "2016/01/01 20:30", memos[0].UpdateDate.Format(dateFormat))
	})

	t.Run("UpdateMissingIsNoop", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, &models.Memo{Title: "keep"})
		require.NoError(t, err)

		found, err := store.Update(ctx, &models.Memo{ID: 999, Title: "ghost"})
		require.NoError(t, err)
		assert.False(t, found)

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, memos, 1)
		assert.Equal(t, "keep", memos[0].Title)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		created, err := store.Add(ctx, &models.Memo{
			ID:    1,
			Title: "テストタイトル1",
			Text:  "メモ",
		})
		require.NoError(t, err)

		found, err := store.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found)

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, memos)

		_, ok, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, &models.Memo{Title: "keep"})
		require.NoError(t, err)

		found, err := store.Delete(ctx, 999)
		require.NoError(t, err)
		assert.False(t, found)

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, memos, 1)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		store := newStore(t)
		for i := 0; i < 5; i++ {
			_, err := store.Add(ctx, &models.Memo{Title: "x"})
			require.NoError(t, err)
		}
		require.NoError(t, store.DeleteAll(ctx))

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, memos)

		// Also fine on an empty store.
		require.NoError(t, store.DeleteAll(ctx))
	})

	t.Run("FindAll", func(t *testing.T) {
		store := newStore(t)
		for _, m := range []*models.Memo{{}, {}, {}} {
			_, err := store.Add(ctx, m)
			require.NoError(t, err)
		}

		memos, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, memos, 3)
	})
}
