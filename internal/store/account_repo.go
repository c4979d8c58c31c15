package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// payload keeps the NOT NULL document columns filled when a caller has
// nothing to store yet.
func payload(raw json.RawMessage, empty string) []byte {
	if len(raw) == 0 {
		return []byte(empty)
	}
	return []byte(raw)
}

type accountRepo struct {
	db *sql.DB
}

func (r *accountRepo) Create(ctx context.Context, acct *Account) error {
	now := time.Now().UTC()
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = now
	}
	acct.UpdatedAt = now

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(accountsTable.Name).
		Columns("username", "password_hash", "profile", "catalog", "created_at", "updated_at").
		Values(acct.Username, acct.PasswordHash, payload(acct.Profile, "{}"), payload(acct.Catalog, "[]"), acct.CreatedAt, acct.UpdatedAt).
		OnConflict(entsql.ConflictColumns("username"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if n == 0 {
		return ErrAccountExists
	}
	return nil
}

func (r *accountRepo) Get(ctx context.Context, username string) (*Account, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("username", "password_hash", "profile", "catalog", "created_at", "updated_at").
		From(entsql.Table(accountsTable.Name)).
		Where(entsql.EQ("username", username)).
		Query()

	var (
		acct             Account
		profile, catalog []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&acct.Username, &acct.PasswordHash, &profile, &catalog, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	acct.Profile = json.RawMessage(profile)
	acct.Catalog = json.RawMessage(catalog)
	return &acct, nil
}

func (r *accountRepo) Update(ctx context.Context, username string, profile, catalog json.RawMessage) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(accountsTable.Name).
		Set("profile", payload(profile, "{}")).
		Set("catalog", payload(catalog, "[]")).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("username", username)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
