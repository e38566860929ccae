package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/k-moto/SkillupPractice6/internal/database"
	"github.com/k-moto/SkillupPractice6/internal/models"
)

// MemoRepository stores memos in Postgres.
type MemoRepository struct {
	db *database.DB
}

var _ MemoStore = (*MemoRepository)(nil)

func NewMemoRepository(db *database.DB) *MemoRepository {
	return &MemoRepository{db: db}
}

func (r *MemoRepository) Add(ctx context.Context, memo *models.Memo) (*models.Memo, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created := &models.Memo{
		Title:      memo.Title,
		Text:       memo.Text,
		CreateDate: storedTime(memo.CreateDate),
		UpdateDate: storedTime(memo.UpdateDate),
	}

	err = tx.QueryRow(ctx,
		`UPDATE id_sequence SET value = value + 1 WHERE name = $1 RETURNING value`,
		memoSequence,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate memo id: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO memo (memo_id, title, text, create_date, update_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		created.ID, created.Title, created.Text, created.CreateDate, created.UpdateDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert memo: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit memo: %w", err)
	}
	return created, nil
}

// Update ignores memo.CreateDate; the creation date never changes.
func (r *MemoRepository) Update(ctx context.Context, memo *models.Memo) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE memo SET title = $1, text = $2, update_date = $3 WHERE memo_id = $4`,
		memo.Title, memo.Text, memo.UpdateDate, memo.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update memo %d: %w", memo.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MemoRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM memo WHERE memo_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete memo %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MemoRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM memo`); err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	return nil
}

func (r *MemoRepository) FindByID(ctx context.Context, id int) (*models.Memo, bool, error) {
	memo := &models.Memo{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT memo_id, title, text, create_date, update_date
		 FROM memo WHERE memo_id = $1`,
		id,
	).Scan(&memo.ID, &memo.Title, &memo.Text, &memo.CreateDate, &memo.UpdateDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find memo %d: %w", id, err)
	}
	return memo, true, nil
}

func (r *MemoRepository) FindAll(ctx context.Context) ([]*models.Memo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT memo_id, title, text, create_date, update_date
		 FROM memo ORDER BY memo_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []*models.Memo
	for rows.Next() {
		memo := &models.Memo{}
		if err := rows.Scan(&memo.ID, &memo.Title, &memo.Text, &memo.CreateDate, &memo.UpdateDate); err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}
	return memos, rows.Err()
}
