// Package sqlstore implements storage.Storage on GORM. It runs on
// PostgreSQL in production and SQLite for development and tests; the few
// dialect differences (row locks) are handled here.
package sqlstore

import (
	"context"
	"errors"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates every table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(entity.All()...)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// findOne loads the first match into dest. Find with a limit avoids GORM's
// "record not found" log line on misses.
func findOne(q *gorm.DB, dest any) error {
	res := q.Limit(1).Find(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func exists(q *gorm.DB, model any, where string, args ...any) (bool, error) {
	var n int64
	if err := q.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireRow maps a missing referenced row to ErrInvalidReference.
func requireRow(q *gorm.DB, model any, id string) error {
	ok, err := exists(q, model, "id = ?", id)
	if err != nil {
		return err
	}
	if !ok {
		return storage.ErrInvalidReference
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return storage.ErrInvalidReference
	default:
		return err
	}
}

// forUpdate adds a row lock where the dialect supports one. SQLite has
// a single writer, so the transaction alone serializes.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// videoQuery joins the channel and orders newest first.
func (s *Store) videoQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Model(&entity.Video{}).
		InnerJoins("Channel").
		Order("videos.uploaded_at DESC").
		Order("videos.id DESC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern with wildcards escaped.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
