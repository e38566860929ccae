package repository

import (
	"context"
	"time"

	"github.com/k-moto/SkillupPractice6/internal/models"
)

// MemoStore is durable CRUD access to memos.
//
// A missing id is never an error: Update and Delete report found == false and
// leave the store untouched, FindByID reports ok == false. Errors are storage
// failures only. Every mutation is committed before the call returns.
type MemoStore interface {
	// Add ignores memo.ID and stores a copy under a freshly allocated id.
	// Ids come from a persisted counter and are never handed out twice.
	Add(ctx context.Context, memo *models.Memo) (*models.Memo, error)
	// Update overwrites Title, Text and UpdateDate of the memo with memo.ID.
	Update(ctx context.Context, memo *models.Memo) (found bool, err error)
	Delete(ctx context.Context, id int) (found bool, err error)
	// DeleteAll removes every memo. The id counter keeps its value.
	DeleteAll(ctx context.Context) error
	FindByID(ctx context.Context, id int) (memo *models.Memo, ok bool, err error)
	// FindAll returns every memo in id order.
	FindAll(ctx context.Context) ([]*models.Memo, error)
}

const memoSequence = "memo"

// storedTime drops what both backends cannot keep below a microsecond, so Add
// returns exactly the dates a later read gives back.
func storedTime(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}
