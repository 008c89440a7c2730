package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/playday/tournament-organizer/models"
)

// SQLExecutor позволяет вызывать методы репозиториев как на *sql.DB, так и внутри *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

const userColumns = `u.id, u.name, u.avatar_url, u.created_at`

// TxRunner открывает транзакцию и выполняет fn внутри неё.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

// WithTx commits when fn returns nil and rolls back otherwise (including panics).
func (r *sqlTxRunner) WithTx(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// asPQError достаёт *pq.Error из цепочки ошибок.
func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// userColumns is selected through LEFT JOIN users u, so every column may be NULL.
type joinedUser struct {
	id        sql.NullString
	name      sql.NullString
	avatarURL sql.NullString
	createdAt sql.NullTime
}

func (j *joinedUser) dest() []interface{} {
	return []interface{}{&j.id, &j.name, &j.avatarURL, &j.createdAt}
}

func (j *joinedUser) user() *models.User {
	if !j.id.Valid {
		return nil
	}
	u := &models.User{ID: j.id.String, Name: j.name.String, CreatedAt: j.createdAt.Time}
	if j.avatarURL.Valid {
		avatar := j.avatarURL.String
		u.AvatarURL = &avatar
	}
	return u
}
