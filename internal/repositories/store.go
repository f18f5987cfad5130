package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the repositories so a service can run several of them in one transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Wishlists() WishlistRepository
	// ExecTx runs fn inside a transaction with the given isolation level.
	// The Store passed to fn is bound to that transaction.
	ExecTx(ctx context.Context, isolation sql.IsolationLevel, fn func(Store) error) error
}

type sqlStore struct {
	db *sql.DB
	q  DBTX
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Users() UserRepository         { return NewUserRepo(s.q) }
func (s *sqlStore) Products() ProductRepository   { return NewProductRepo(s.q) }
func (s *sqlStore) Carts() CartRepository         { return NewCartRepo(s.q) }
func (s *sqlStore) Orders() OrderRepository       { return NewOrderRepo(s.q) }
func (s *sqlStore) Wishlists() WishlistRepository { return NewWishlistRepo(s.q) }

func (s *sqlStore) ExecTx(ctx context.Context, isolation sql.IsolationLevel, fn func(Store) error) error {
	// already inside a transaction
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&sqlStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v: %w", rbErr, err)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
