// Package store is the data-access layer for wallets, the transaction
// ledger, the admin audit log and the deposit/withdrawal request queue.
//
// Every repository is bound to a *gorm.DB session. Inside Atomic that
// session is a single serializable database transaction, so all writes
// made through the Repos handed to the callback commit or roll back
// together.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"invest_ledger/internal/domain"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQL error numbers that mean "another transaction got there first"
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// Page bounds a list query
type Page struct {
	Limit  int
	Offset int
}

// Store owns the database handle and opens units of work
type Store struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
}

// New wraps an open gorm database
func New(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		txOpts: &sql.TxOptions{Isolation: sql.LevelSerializable},
	}
}

// DSN builds a MySQL data source name
func DSN(user, password, host, port, name string) string {
	return user + ":" + password + "@tcp(" + host + ":" + port + ")/" + name + "?parseTime=true"
}

// Open connects to MySQL with a tuned connection pool
func Open(dsn string, debug bool) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// DB exposes the underlying handle for read-only collaborators
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Read returns repositories for plain reads outside a transaction
func (s *Store) Read(ctx context.Context) *Repos {
	return newRepos(s.db.WithContext(ctx))
}

// Atomic runs fn inside one serializable transaction. Any error returned
// by fn rolls back every write made through r. The returned error is
// always one of the domain error kinds.
func (s *Store) Atomic(ctx context.Context, fn func(r *Repos) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepos(tx))
	}, s.txOpts)
	return classify(err)
}

// Repos groups the repositories sharing one session
type Repos struct {
	Wallets     *Wallets
	Ledger      *Ledger
	Audit       *AuditLog
	Deposits    *Deposits
	Withdrawals *Withdrawals
	Users       *Users
	Investments *Investments
}

func newRepos(db *gorm.DB) *Repos {
	return &Repos{
		Wallets:     &Wallets{db: db},
		Ledger:      &Ledger{db: db},
		Audit:       &AuditLog{db: db},
		Deposits:    &Deposits{db: db},
		Withdrawals: &Withdrawals{db: db},
		Users:       &Users{db: db},
		Investments: &Investments{db: db},
	}
}

// classify maps a raw error onto the domain error kinds
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidState,
		domain.ErrNotAuthenticated,
		domain.ErrConflict,
		domain.ErrInvalidInput,
		domain.ErrStore,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}

// notFound turns gorm's missing-row error into ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return classify(err)
}
