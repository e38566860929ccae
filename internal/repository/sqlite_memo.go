package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/k-moto/SkillupPractice6/internal/database"
	"github.com/k-moto/SkillupPractice6/internal/models"
)

// SQLiteMemoRepository stores memos in the embedded SQLite file. Dates are
// kept as unix microseconds, the precision Postgres gives.
type SQLiteMemoRepository struct {
	db *database.SQLite
}

var _ MemoStore = (*SQLiteMemoRepository)(nil)

func NewSQLiteMemoRepository(db *database.SQLite) *SQLiteMemoRepository {
	return &SQLiteMemoRepository{db: db}
}

func (r *SQLiteMemoRepository) Add(ctx context.Context, memo *models.Memo) (*models.Memo, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := &models.Memo{
		Title:      memo.Title,
		Text:       memo.Text,
		CreateDate: storedTime(memo.CreateDate),
		UpdateDate: storedTime(memo.UpdateDate),
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE id_sequence SET value = value + 1 WHERE name = ? RETURNING value`,
		memoSequence,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate memo id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memo (memo_id, title, text, create_date, update_date)
		 VALUES (?, ?, ?, ?, ?)`,
		created.ID, created.Title, created.Text,
		toUnix(created.CreateDate), toUnix(created.UpdateDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert memo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit memo: %w", err)
	}
	return created, nil
}

// Update ignores memo.CreateDate; the creation date never changes.
func (r *SQLiteMemoRepository) Update(ctx context.Context, memo *models.Memo) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx,
		`UPDATE memo SET title = ?, text = ?, update_date = ? WHERE memo_id = ?`,
		memo.Title, memo.Text, toUnix(memo.UpdateDate), memo.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update memo %d: %w", memo.ID, err)
	}
	return affected(res)
}

func (r *SQLiteMemoRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM memo WHERE memo_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete memo %d: %w", id, err)
	}
	return affected(res)
}

func (r *SQLiteMemoRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.DB.ExecContext(ctx, `DELETE FROM memo`); err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	return nil
}

func (r *SQLiteMemoRepository) FindByID(ctx context.Context, id int) (*models.Memo, bool, error) {
	row := r.db.DB.QueryRowContext(ctx,
		`SELECT memo_id, title, text, create_date, update_date
		 FROM memo WHERE memo_id = ?`,
		id,
	)
	memo, err := scanMemo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find memo %d: %w", id, err)
	}
	return memo, true, nil
}

func (r *SQLiteMemoRepository) FindAll(ctx context.Context) ([]*models.Memo, error) {
	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT memo_id, title, text, create_date, update_date
		 FROM memo ORDER BY memo_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []*models.Memo
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}
	return memos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*models.Memo, error) {
	var (
		memo                 models.Memo
		createdAt, updatedAt int64
	)
	if err := row.Scan(&memo.ID, &memo.Title, &memo.Text, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	memo.CreateDate = time.UnixMicro(createdAt)
	memo.UpdateDate = time.UnixMicro(updatedAt)
	return &memo, nil
}

func toUnix(t time.Time) int64 {
	return t.UnixMicro()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
