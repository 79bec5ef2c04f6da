package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrTransactionConflict - конкурентная запись в ту же строку (serialization failure / deadlock).
// Повтор операции остается на вызывающей стороне.
var ErrTransactionConflict = errors.New("transaction conflict, retry the operation")

// TxRunner groups several repository writes into one transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type postgresTxRunner struct {
	db *sql.DB
}

func NewPostgresTxRunner(db *sql.DB) TxRunner {
	return &postgresTxRunner{db: db}
}

func (r *postgresTxRunner) RunInTx(ctx context.Context, fn func(exec SQLExecutor) error) (txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapConflict(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Printf("Error during rollback: %v. Original error: %v", rbErr, txErr)
			}
			txErr = mapConflict(txErr)
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", mapConflict(cErr))
		}
	}()

	txErr = fn(tx)
	return txErr
}

// mapConflict marks postgres serialization failures and deadlocks with ErrTransactionConflict.
func mapConflict(err error) error {
	if err == nil || errors.Is(err, ErrTransactionConflict) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %w", ErrTransactionConflict, err)
		}
	}
	return err
}

func executor(db *sql.DB, exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return db
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}
