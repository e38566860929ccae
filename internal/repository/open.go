package repository

import (
	"context"
	"io"
	"log"

	"github.com/k-moto/SkillupPractice6/internal/database"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open connects to Postgres when uri is set and to the SQLite file at path
// otherwise, runs migrations and returns the store with its closer.
func Open(ctx context.Context, uri, path string) (MemoStore, io.Closer, error) {
	if uri != "" {
		db, err := database.New(ctx, uri)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("Using Postgres memo store")
		return NewMemoRepository(db), closerFunc(func() error { db.Close(); return nil }), nil
	}

	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return NewSQLiteMemoRepository(db), db, nil
}
