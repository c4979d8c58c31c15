package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/cermat/internal/config"
	"github.com/abhisek/cermat/internal/redisstore"
	"github.com/abhisek/cermat/internal/store"
)

// backends holds the opened persistence layers. The event log always lives
// in SQLite; accounts live in SQLite or Redis depending on the config.
type backends struct {
	store    *store.Store
	accounts store.AccountRepo
	redis    *redisstore.AccountRepo
}

func openBackends(c *config.Config) (*backends, error) {
	dbPath, err := c.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	b := &backends{store: st, accounts: st.AccountRepo()}
	if c.Store == config.StoreRedis {
		r, err := redisstore.Open(c.Redis)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		b.redis = r
		b.accounts = r
	}
	logger.Debug("backends opened", "db", dbPath, "accounts", c.Store)
	return b, nil
}

func (b *backends) events() store.EventRepo {
	return b.store.EventRepo()
}

func (b *backends) Close() error {
	var errs []error
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	errs = append(errs, b.store.Close())
	return errors.Join(errs...)
}
