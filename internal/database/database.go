// Package database wraps the database implementation used for Stockwarp.
package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Conn struct {
	pool *pgxpool.Pool
}

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

var ErrNoRows = pgx.ErrNoRows

// URL builds a connection URL from the project environment variables.
func URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
}

// Connect connects to the Postgres database with the project environment variables.
func Connect() (*Conn, error) {
	config, err := pgxpool.ParseConfig(URL())

	if err != nil {
		return nil, err
	}

	// Scan numeric columns straight into decimal.Decimal values.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		conn.ConnInfo().RegisterDataType(pgtype.DataType{
			Value: &shopspring.Numeric{},
			Name:  "numeric",
			OID:   pgtype.NumericOID,
		})

		return nil
	}

	pool, err := pgxpool.ConnectConfig(context.Background(), config)

	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &Conn{pool: pool}, nil
}

// Close closes a database connection.
func (conn *Conn) Close() {
	conn.pool.Close()
}

// Exec executes a database query.
func (conn *Conn) Exec(sql string, arguments ...any) error {
	_, err := conn.pool.Exec(context.Background(), sql, arguments...)

	return err
}

// Query executes a database query.
func (conn *Conn) Query(sql string, arguments ...any) (Rows, error) {
	return conn.pool.Query(context.Background(), sql, arguments...)
}

// QueryRow executes a database query returning Row data.
func (conn *Conn) QueryRow(sql string, arguments ...any) Row {
	return conn.pool.QueryRow(context.Background(), sql, arguments...)
}

// Begin starts a database transaction.
func (conn *Conn) Begin() (*Tx, error) {
	tx, err := conn.pool.Begin(context.Background())

	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same query interface as Conn.
type Tx struct {
	tx pgx.Tx
}

// Exec executes a database query inside the transaction.
func (tx *Tx) Exec(sql string, arguments ...any) error {
	_, err := tx.tx.Exec(context.Background(), sql, arguments...)

	return err
}

// Query executes a database query inside the transaction.
func (tx *Tx) Query(sql string, arguments ...any) (Rows, error) {
	return tx.tx.Query(context.Background(), sql, arguments...)
}

// QueryRow executes a database query inside the transaction, returning Row data.
func (tx *Tx) QueryRow(sql string, arguments ...any) Row {
	return tx.tx.QueryRow(context.Background(), sql, arguments...)
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.tx.Commit(context.Background())
}

// Rollback aborts the transaction. Rolling back after Commit is a no-op.
func (tx *Tx) Rollback() {
	_ = tx.tx.Rollback(context.Background())
}

// Queryable defines an interface for a connection.
type Queryable interface {
	Exec(sql string, arguments ...any) error
	Query(sql string, arguments ...any) (Rows, error)
	QueryRow(sql string, arguments ...any) Row
}
