// Package redisstore keeps accounts in Redis, one hash per username. It is an
// alternative to the SQLite account table; the event log stays in SQLite.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/cermat/internal/store"
)

// KeyPrefix namespaces account hashes.
const KeyPrefix = "cermat:account:"

// Config holds Redis connection configuration.
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// DefaultConfig returns a local Redis configuration.
func DefaultConfig() Config {
	return Config{
		Addr:        "localhost:6379",
		DialTimeout: 5 * time.Second,
	}
}

// AccountRepo implements store.AccountRepo on Redis hashes.
type AccountRepo struct {
	client *redis.Client
}

var _ store.AccountRepo = (*AccountRepo)(nil)

// Open connects and pings the server.
func Open(cfg Config) (*AccountRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.Addr, err)
	}

	return &AccountRepo{client: client}, nil
}

// Close closes the Redis connection.
func (r *AccountRepo) Close() error {
	return r.client.Close()
}

func key(username string) string {
	return KeyPrefix + username
}

// Create stores the account only if no hash exists for the username.
func (r *AccountRepo) Create(ctx context.Context, acct *store.Account) error {
	now := time.Now().UTC()
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = now
	}
	acct.UpdatedAt = now

	k := key(acct.Username)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return store.ErrAccountExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, map[string]any{
				"username":      acct.Username,
				"password_hash": acct.PasswordHash,
				"profile":       string(acct.Profile),
				"catalog":       string(acct.Catalog),
				"created_at":    acct.CreatedAt.Format(time.RFC3339Nano),
				"updated_at":    acct.UpdatedAt.Format(time.RFC3339Nano),
			})
			return nil
		})
		return err
	}, k)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		// Someone created the key between WATCH and EXEC.
		return store.ErrAccountExists
	case errors.Is(err, store.ErrAccountExists):
		return err
	case err != nil:
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, username string) (*store.Account, error) {
	fields, err := r.client.HGetAll(ctx, key(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if len(fields) == 0 {
		return nil, store.ErrAccountNotFound
	}

	acct := &store.Account{
		Username:     fields["username"],
		PasswordHash: fields["password_hash"],
		Profile:      json.RawMessage(fields["profile"]),
		Catalog:      json.RawMessage(fields["catalog"]),
	}
	// Unparseable timestamps are left zero.
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	acct.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return acct, nil
}

func (r *AccountRepo) Update(ctx context.Context, username string, profile, catalog json.RawMessage) error {
	k := key(username)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrAccountNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k,
				"profile", string(profile),
				"catalog", string(catalog),
				"updated_at", time.Now().UTC().Format(time.RFC3339Nano),
			)
			return nil
		})
		return err
	}, k)

	if errors.Is(err, store.ErrAccountNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}
