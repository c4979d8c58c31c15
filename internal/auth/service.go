// Package auth registers and authenticates learners and persists their
// profile and lesson catalog through a store.AccountRepo.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/cermat/internal/catalog"
	"github.com/abhisek/cermat/internal/profile"
	"github.com/abhisek/cermat/internal/store"
)

const (
	MinIdentityLength = 3
	MinSecretLength   = 4

	// MaxSecretBytes is the longest secret bcrypt accepts.
	MaxSecretBytes = 72
)

// State is what a learner gets back on login: the profile merged over the
// current template and the catalog reconciled with the current lessons.
type State struct {
	Profile profile.Profile
	Catalog catalog.Catalog
}

// Service implements the profile store contract on top of an AccountRepo.
type Service struct {
	accounts store.AccountRepo
	defaults func() catalog.Catalog
	now      func() time.Time
	cost     int
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for account creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithDefaultCatalog replaces the built-in lesson catalog.
func WithDefaultCatalog(fn func() catalog.Catalog) Option {
	return func(s *Service) { s.defaults = fn }
}

// NewService creates a Service.
func NewService(accounts store.AccountRepo, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		defaults: catalog.Default,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validate(identity, secret string) error {
	switch {
	case identity == "" || strings.TrimSpace(secret) == "":
		return ErrMissingCredentials
	case utf8.RuneCountInString(identity) < MinIdentityLength:
		return ErrIdentityTooShort
	case utf8.RuneCountInString(secret) < MinSecretLength:
		return ErrSecretTooShort
	case len(secret) > MaxSecretBytes:
		return ErrSecretTooLong
	}
	return nil
}

// Register creates an account with a fresh profile. A nil initial catalog
// means the default one.
func (s *Service) Register(ctx context.Context, identity, secret string, initial catalog.Catalog) (State, error) {
	identity = strings.TrimSpace(identity)
	if err := validate(identity, secret); err != nil {
		return State{}, err
	}
	if initial == nil {
		initial = s.defaults()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return State{}, fmt.Errorf("hash secret: %w", err)
	}

	p := profile.New(identity, s.now())
	profileJSON, err := profile.Encode(p)
	if err != nil {
		return State{}, err
	}
	catalogJSON, err := catalog.Encode(initial)
	if err != nil {
		return State{}, err
	}

	err = s.accounts.Create(ctx, &store.Account{
		Username:     identity,
		PasswordHash: string(hash),
		Profile:      profileJSON,
		Catalog:      catalogJSON,
		CreatedAt:    p.CreatedAt,
	})
	if errors.Is(err, store.ErrAccountExists) {
		return State{}, ErrDuplicateIdentity
	}
	if err != nil {
		return State{}, fmt.Errorf("register %q: %w", identity, err)
	}

	s.logger.Info("registered", "identity", identity)
	return State{Profile: p, Catalog: initial.Clone()}, nil
}

// Authenticate checks the secret and loads the learner's state. Stored
// records that fail to parse are replaced by fresh state.
func (s *Service) Authenticate(ctx context.Context, identity, secret string) (State, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || secret == "" {
		return State{}, ErrMissingCredentials
	}

	acct, err := s.accounts.Get(ctx, identity)
	if errors.Is(err, store.ErrAccountNotFound) {
		return State{}, ErrUnknownIdentity
	}
	if err != nil {
		return State{}, fmt.Errorf("load %q: %w", identity, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(secret)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("unreadable secret digest", "identity", identity, "error", err)
		}
		return State{}, ErrBadCredentials
	}

	p, err := profile.Decode(acct.Profile)
	if err != nil {
		s.logger.Warn("stored profile unreadable, starting fresh", "identity", identity, "error", err)
		p = profile.New(identity, acct.CreatedAt)
	}
	p.Username = identity

	defaults := s.defaults()
	stored, err := catalog.Decode(acct.Catalog)
	if err != nil {
		s.logger.Warn("stored catalog unreadable, using defaults", "identity", identity, "error", err)
		stored = nil
	}

	return State{Profile: p, Catalog: catalog.Reconcile(stored, defaults)}, nil
}

// Save overwrites the stored profile and catalog.
func (s *Service) Save(ctx context.Context, identity string, p profile.Profile, c catalog.Catalog) error {
	profileJSON, err := profile.Encode(p)
	if err != nil {
		return err
	}
	catalogJSON, err := catalog.Encode(c)
	if err != nil {
		return err
	}
	if err := s.accounts.Update(ctx, identity, profileJSON, catalogJSON); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrUnknownIdentity
		}
		return fmt.Errorf("save %q: %w", identity, err)
	}
	return nil
}
